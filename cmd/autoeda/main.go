package main

import (
	"fmt"
	"log"
	"os"

	"autoeda/internal"
	"autoeda/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "autoeda",
		Short: "Generate exploratory data analysis reports from files, URLs and Kaggle datasets",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autoeda/config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newReportCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration. Defaults and environment
// come from config.Load, the optional config file overrides both, and
// commands apply their own flag overrides on top.
func loadConfig() (*config.Config, *internal.Logger, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	overrides, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := overrides.Apply(cfg); err != nil {
		return nil, nil, err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(os.Getenv("LOG_LEVEL")))
	return cfg, logger, nil
}
