// Package views renders the dashboard HTML from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html templates/fragments/*.html
var templateFS embed.FS

// printer groups digits for display, so row counts and metric values read
// as 1,234.56 rather than raw float output.
var printer = message.NewPrinter(language.English)

// Renderer holds the parsed template set.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(funcMap()).ParseFS(templateFS,
		"templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"num":   func(v float64) string { return printer.Sprintf("%.2f", v) },
		"count": func(n int) string { return printer.Sprintf("%d", n) },
		"inc":   func(n int) int { return n + 1 },
	}
}

// Dashboard writes the full page.
func (r *Renderer) Dashboard(w io.Writer, data PageData) error {
	return r.templates.ExecuteTemplate(w, "dashboard.html", data)
}

// Charts renders the chart panel fragment for SSE patching.
func (r *Renderer) Charts(data ChartsData) (string, error) {
	return r.fragment("charts.html", data)
}

// Table renders the trend table fragment for SSE patching.
func (r *Renderer) Table(data TableData) (string, error) {
	return r.fragment("table.html", data)
}

// Meta renders the sidebar dataset summary fragment for SSE patching.
func (r *Renderer) Meta(data StatsData) (string, error) {
	return r.fragment("meta.html", data)
}

func (r *Renderer) fragment(name string, data any) (string, error) {
	var sb strings.Builder
	if err := r.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
