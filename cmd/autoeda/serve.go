package main

import (
	"fmt"
	"net"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"autoeda/internal/container"
)

func newServeCmd() *cobra.Command {
	var host string
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Start the browser-based report generator.

Example: autoeda serve --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			// The run-history database is optional; without it history stays in memory
			var db *sqlx.DB
			if cfg.Database.URL != "" {
				db, err = sqlx.Connect("postgres", cfg.Database.URL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
			}

			c, err := container.New(cfg, logger, db)
			if err != nil {
				return err
			}
			app, err := c.App()
			if err != nil {
				return err
			}

			return app.Start(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Interface to bind")
	cmd.Flags().StringVar(&port, "port", "8080", "Port to listen on")

	return cmd
}
