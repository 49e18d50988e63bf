// Package container wires the application's dependencies in one place so
// the web entrypoint and the CLI build them identically.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"autoeda/adapters/kaggle"
	"autoeda/adapters/postgres"
	"autoeda/internal"
	"autoeda/internal/config"
	"autoeda/internal/history"
	"autoeda/internal/pipeline"
	"autoeda/internal/remote"
	"autoeda/internal/report"
	"autoeda/internal/scratch"
	"autoeda/ports"
	"autoeda/ui"
)

// Container holds the application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Scratch *scratch.Manager

	// Input resolution
	Credentials ports.CredentialStore
	Datasets    ports.DatasetServicePort
	Fetcher     ports.FetcherPort
	Pipeline    *pipeline.Pipeline

	// Reporting
	Renderer *report.Renderer
	History  ports.HistoryRepository
}

// New assembles the application over the given configuration. db may be
// nil, in which case run history stays in memory.
func New(cfg *config.Config, logger *internal.Logger, db *sqlx.DB) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	scratchMgr := scratch.NewManager(cfg.Storage.ScratchDir)
	if cfg.Storage.EnableCleanup {
		if n, err := scratchMgr.Sweep(cfg.Storage.CleanupAfter); err != nil {
			logger.Warn("Scratch sweep failed: %v", err)
		} else if n > 0 {
			logger.Info("Swept %d expired scratch dir(s)", n)
		}
	}

	credentials, err := buildCredentialStore(cfg.Kaggle, logger)
	if err != nil {
		return nil, err
	}

	datasets := kaggle.NewService(credentials, scratchMgr, kaggle.ServiceConfig{
		BaseURL:         cfg.Kaggle.BaseURL,
		Concurrency:     cfg.Kaggle.Concurrency,
		ListingCacheCap: cfg.Kaggle.ListingCacheCap,
	}, logger)

	fetcher := remote.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes)

	renderer, err := report.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to build report renderer: %w", err)
	}

	var runs ports.HistoryRepository
	if db != nil {
		repo := postgres.NewHistoryRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to ensure history schema: %w", err)
		}
		runs = repo
		logger.Info("Run history persisted to PostgreSQL")
	} else {
		runs = history.NewMemoryRepository(history.DefaultCap)
		logger.Info("Run history kept in memory")
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Scratch:     scratchMgr,
		Credentials: credentials,
		Datasets:    datasets,
		Fetcher:     fetcher,
		Pipeline:    pipeline.New(fetcher, datasets, logger),
		Renderer:    renderer,
		History:     runs,
	}, nil
}

func buildCredentialStore(cfg config.KaggleConfig, logger *internal.Logger) (ports.CredentialStore, error) {
	path := cfg.CredentialsFile
	if path == "" {
		var err error
		path, err = kaggle.DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := kaggle.NewFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential store: %w", err)
	}
	if !cfg.EnvCredentialSet() {
		return store, nil
	}
	logger.Info("Using environment Kaggle credential as fallback")
	return kaggle.NewFallbackStore(store, kaggle.Credential{
		Username: cfg.Username,
		Key:      cfg.Key,
	}), nil
}

// App builds the web application over the container's components
func (c *Container) App() (*ui.App, error) {
	return ui.NewApp(c.Pipeline, c.Datasets, c.Credentials, c.History, c.Renderer, ui.Config{
		MaxUploadBytes: c.Config.UI.MaxUploadBytes,
		ReportStoreCap: c.Config.UI.ReportStoreCap,
		PreviewRows:    c.Config.UI.PreviewRows,
	}, c.Logger)
}
