package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

var (
	tmplMu   sync.RWMutex
	pageTmpl *template.Template
)

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	t, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	tmplMu.Lock()
	pageTmpl = t
	tmplMu.Unlock()
	return nil
}

// LoadTemplates loads the embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Stylesheet returns the widget's embedded CSS.
func Stylesheet() (string, error) {
	b, err := fs.ReadFile(viewsFS, "static/widget.css")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Render writes the full widget page.
func Render(w io.Writer, page *Page) error {
	tmplMu.RLock()
	t := pageTmpl
	tmplMu.RUnlock()
	if t == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return t.ExecuteTemplate(w, "page.html", page)
}
