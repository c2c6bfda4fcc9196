// Package web embeds the server-rendered HTML templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardTemplate is the template name rendered by GET /.
const DashboardTemplate = "dashboard.html"

// Templates parses every embedded template. Names are the file base names.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
