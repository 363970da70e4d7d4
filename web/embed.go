package web

import (
	"embed"
	"html/template"
)

// TemplatesFS embeds the server-rendered pages.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// Templates parses every embedded page into one set for gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(TemplatesFS, "templates/*.html")
}
