// Package report renders the EDA report document from a dataset profile.
// The output is a single self-contained HTML file, served inline as a
// preview and offered as a download under FileName.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"autoeda/internal/profile"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Title is the fixed report heading prefix; the dataset name follows it
const Title = "Auto EDA Report"

// FileName returns the download name for a report
func FileName(name string) string {
	return name + "_eda.html"
}

// Renderer turns profiles into standalone HTML documents
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded report templates
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"num": func(v float64) string {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "-"
			}
			return strconv.FormatFloat(v, 'g', 5, 64)
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
		"pval": func(v float64) string {
			if v < 0.001 {
				return "<0.001"
			}
			return fmt.Sprintf("%.3f", v)
		},
		"strength": func(r float64) string {
			switch abs := math.Abs(r); {
			case abs >= 0.7:
				return "strong"
			case abs >= 0.4:
				return "moderate"
			default:
				return "weak"
			}
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Render produces the complete HTML document for one profile
func (r *Renderer) Render(summary *profile.Summary, generatedAt time.Time) ([]byte, error) {
	data := struct {
		Title       string
		Summary     *profile.Summary
		GeneratedAt string
	}{
		Title:       Title,
		Summary:     summary,
		GeneratedAt: generatedAt.UTC().Format("2006-01-02 15:04 UTC"),
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
