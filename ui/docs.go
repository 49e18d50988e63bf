package ui

import (
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type docView struct {
	Content template.HTML
}

// handleDocs renders the embedded user guide. Parsers are single use, so
// one is built per request.
func (a *App) handleDocs(w http.ResponseWriter, r *http.Request) {
	source, err := embeddedFiles.ReadFile("docs/guide.md")
	if err != nil {
		a.logger.Error("Docs unavailable: %v", err)
		http.Error(w, "Documentation unavailable", http.StatusInternalServerError)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	content := markdown.Render(p.Parse(source), renderer)

	a.renderTemplate(w, "docs.html", docView{Content: template.HTML(content)})
}
