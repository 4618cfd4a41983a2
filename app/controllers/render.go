package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"toyblog/app/middleware"
	"toyblog/app/models"

	"github.com/sirupsen/logrus"
)

const layoutFile = "layout.html"

// Page is the data handed to every template.
type Page struct {
	Title   string
	Session *models.Session
	Flash   *models.Flash
	Error   string
	Errors  map[string]string
	Form    map[string]string
	Data    interface{}
}

// Renderer executes page templates inside the shared layout
type Renderer struct {
	templates map[string]*template.Template
	log       logrus.FieldLogger
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"paragraphs": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n")
	},
}

// NewRenderer parses layout.html together with each other *.html file in fsys.
// Pages are addressed by file name without the extension.
func NewRenderer(fsys fs.FS, log logrus.FieldLogger) (*Renderer, error) {
	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}
	templates := make(map[string]*template.Template)
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(templateFuncs).ParseFS(fsys, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}
	return &Renderer{templates: templates, log: log}, nil
}

// Render writes page name with status. The session is taken from the request.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	if page.Session == nil {
		page.Session = middleware.SessionFrom(r.Context())
	}
	tmpl, ok := rn.templates[name]
	if !ok {
		logFailure(rn.log, r, "template not found", fmt.Errorf("unknown template %q", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		logFailure(rn.log, r, "template error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rn.Render(w, r, http.StatusNotFound, "not_found", Page{Title: "Page not found", Error: message})
}

// Failure logs err and renders the generic error page.
func (rn *Renderer) Failure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logFailure(rn.log, r, msg, err)
	rn.Render(w, r, http.StatusInternalServerError, "error", Page{Title: "Server error", Error: "Something went wrong. Please try again."})
}
