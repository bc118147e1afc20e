package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/almoxarifado/internal/auth"
	"github.com/erazemk/almoxarifado/internal/model"
	webembed "github.com/erazemk/almoxarifado/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"categoryLabel": model.CategoryLabel,
		"statusLabel":   model.StatusLabel,
		"isLow":         model.IsLowStock,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("02/01/2006 15:04")
		},
	}
}

var pages = []string{
	"login.html",
	"dashboard.html",
	"items.html",
	"item_detail.html",
	"withdrawals.html",
	"withdrawal_detail.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl, err := template.New(page).Funcs(FuncMap()).Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		if tmpl, err = tmpl.Parse(string(pageBytes)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title        string
	Nav          string
	Theme        string
	LoginEnabled bool
	Error        string
	Success      string
}

// Server holds all dependencies for page handlers. A nil Gate turns off the
// login page.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	Gate      *auth.Gate
}

// page builds the base data for a page, reading the saved theme and any
// message carried over from a redirect.
func (s *Server) page(r *http.Request, title, nav string) PageData {
	prefs, err := s.preferences(r)
	if err != nil {
		slog.Error("failed to load preferences", "error", err)
	}
	q := r.URL.Query()
	return PageData{
		Title:        title,
		Nav:          nav,
		Theme:        prefs.Theme,
		LoginEnabled: s.Gate != nil,
		Error:        q.Get("erro"),
		Success:      q.Get("ok"),
	}
}
