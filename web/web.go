// Package web holds the single page: the recorder widget, the upload form,
// the transcript area and the history table.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"timestamp": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}

// Templates parses the page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

// MustTemplates is Templates for package initialisation.
func MustTemplates() *template.Template {
	tmpl, err := Templates()
	if err != nil {
		panic("failed to parse templates: " + err.Error())
	}
	return tmpl
}

// Static returns the embedded assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
