package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/transferhub/internal/model"
	webembed "github.com/erazemk/transferhub/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map. Times are shown in loc.
func FuncMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"localTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("Mon 02 Jan 2006, 15:04")
		},
		"statusName": func(status string) string {
			switch status {
			case model.StatusScheduled:
				return "Scheduled"
			case model.StatusCompleted:
				return "Completed"
			case model.StatusCanceled:
				return "Canceled"
			default:
				return status
			}
		},
	}
}

// partials are parsed into every page.
var partials = []string{"modal.html"}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(loc *time.Location) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"delete.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		tmpl := template.New(page).Funcs(FuncMap(loc))
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}

		for _, name := range append(partials, page) {
			b, err := fs.ReadFile(tfs, name)
			if err != nil {
				return nil, fmt.Errorf("reading template %s: %w", name, err)
			}
			if tmpl, err = tmpl.Parse(string(b)); err != nil {
				return nil, fmt.Errorf("parsing template %s for %s: %w", name, page, err)
			}
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and a 200 status.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status. The page is
// rendered to a buffer first so a template error still yields a 500.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title    string
	SignedIn bool
	User     string
	Error    string
	Notice   string
}
