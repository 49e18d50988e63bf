// Package ui is the web interface: one page with upload, url and remote
// dataset tabs, generated reports with inline preview and download, and
// the run history.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"autoeda/internal"
	"autoeda/internal/pipeline"
	"autoeda/internal/report"
	"autoeda/ports"
)

//go:embed templates/* static/* docs/*
var embeddedFiles embed.FS

// Config holds the UI application settings
type Config struct {
	MaxUploadBytes int64
	ReportStoreCap int
	PreviewRows    int
}

// App is the web application
type App struct {
	router    *chi.Mux
	templates *template.Template
	logger    *internal.Logger

	pipeline    *pipeline.Pipeline
	datasets    ports.DatasetServicePort
	credentials ports.CredentialStore
	history     ports.HistoryRepository
	renderer    *report.Renderer
	reports     *reportStore

	maxUploadBytes int64
	previewRows    int
}

// NewApp creates the web application over its collaborators
func NewApp(p *pipeline.Pipeline, datasets ports.DatasetServicePort, credentials ports.CredentialStore,
	history ports.HistoryRepository, renderer *report.Renderer, cfg Config, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if cfg.ReportStoreCap <= 0 {
		cfg.ReportStoreCap = 32
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 10
	}

	funcMap := template.FuncMap{
		"timefmt": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:         chi.NewRouter(),
		templates:      templates,
		logger:         logger,
		pipeline:       p,
		datasets:       datasets,
		credentials:    credentials,
		history:        history,
		renderer:       renderer,
		reports:        newReportStore(cfg.ReportStoreCap),
		maxUploadBytes: cfg.MaxUploadBytes,
		previewRows:    cfg.PreviewRows,
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Get("/docs", a.handleDocs)

	// Report generation from the three input kinds
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/url", a.handleURL)
	a.router.Post("/kaggle", a.handleKaggle)
	a.router.Post("/kaggle/credentials", a.handleCredentials)

	// Generated report access
	a.router.Get("/reports/{id}", a.handleReportView)
	a.router.Get("/reports/{id}/raw", a.handleReportRaw)
	a.router.Get("/reports/{id}/download", a.handleReportDownload)
}

// Router returns the HTTP handler, for serving and for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start serves the application on addr until the listener fails
func (a *App) Start(addr string) error {
	a.logger.Info("Starting web server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("Template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// trimFormValue is form parsing with surrounding whitespace removed
func trimFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
