package main

import (
	"log"
	"net"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"autoeda/internal"
	"autoeda/internal/config"
	"autoeda/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(os.Getenv("LOG_LEVEL")))

	// The run-history database is optional; without it history stays in memory
	var db *sqlx.DB
	if cfg.Database.URL != "" {
		db, err = sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	}

	c, err := container.New(cfg, logger, db)
	if err != nil {
		log.Fatalf("Failed to assemble application: %v", err)
	}

	app, err := c.App()
	if err != nil {
		log.Fatalf("Failed to create web application: %v", err)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	log.Fatal(app.Start(addr))
}
