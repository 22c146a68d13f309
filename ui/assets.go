package ui

import (
	"embed"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(assets, "templates/*.html")
}

// renderMarkdown converts an embedded note to HTML for the sidebar
func renderMarkdown(name string) (template.HTML, error) {
	src, err := assets.ReadFile("content/" + name)
	if err != nil {
		return "", err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(src, p, r)), nil
}
