package adapthttp

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"inventory/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inputType": func(c domain.Column) string {
		if c.Type == domain.TypeNumber {
			return "number"
		}
		return "text"
	},
}

// views holds the shared fragment set and one clone per full page, since
// every page defines its own "content" block.
type views struct {
	fragments *template.Template
	pages     map[string]*template.Template
}

var tmpl = mustLoadViews()

func mustLoadViews() *views {
	base := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/fragments.html"))

	pageFiles, err := fs.Glob(templateFS, "templates/page_*.html")
	if err != nil {
		panic(err)
	}
	v := &views{fragments: base, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, f := range pageFiles {
		name := strings.TrimSuffix(strings.TrimPrefix(path.Base(f), "page_"), ".html")
		v.pages[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, f))
	}
	return v
}

// renderPage writes a full HTML document.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, ok := tmpl.pages[name]
	if !ok {
		s.log.ErrorContext(r.Context(), "unknown page", "page", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.execute(w, r, http.StatusOK, t, "layout", data)
}

// renderFragment writes a named HTML snippet for insertion into the page.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.execute(w, r, status, tmpl.fragments, name, data)
}

// renderError writes a user-visible message into the form's error area.
// htmx only swaps 2xx responses by default, so validation failures are 200.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, msg string) {
	s.renderFragment(w, r, http.StatusOK, "error", msg)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
