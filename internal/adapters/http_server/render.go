package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/session"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/validation"
)

// View is everything a page template can read.
type View struct {
	Title   string
	URL     string
	User    *domain.User
	Flashes []session.Flash
	Errors  []string
	Form    validation.Form
	Data    any

	// error pages
	Status  int
	Message string
	Detail  string
}

type Renderer interface {
	Render(w io.Writer, name string, v View) error
}

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the embedded page set. Every page is parsed together
// with layout.html.
type Templates struct {
	pages map[string]*template.Template
}

// NewTemplates parses all pages. imageBase is joined with stored image
// references to build image URLs.
func NewTemplates(imageBase string) (*Templates, error) {
	funcs := template.FuncMap{
		// stored text is escaped on the way in; undo it so the template
		// escapes exactly once.
		"text": html.UnescapeString,
		"image": func(ref string) string {
			if ref == "" || strings.HasPrefix(ref, "http") {
				return ref
			}
			return strings.TrimRight(imageBase, "/") + "/" + ref
		},
		"flt": func(f float64) string { return fmt.Sprintf("%g", f) },
		"money": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	}
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	t := &Templates{pages: map[string]*template.Template{}}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		t.pages[name] = clone
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, name string, v View) error {
	p, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return p.ExecuteTemplate(w, "layout.html", v)
}

// view starts a page model for r. Flashes are attached at render time.
func (h *Handlers) view(r *http.Request, title string) View {
	return View{Title: title, URL: r.URL.Path, User: UserFrom(r.Context())}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, v View) {
	h.renderStatus(w, r, http.StatusOK, name, v)
}

// renderStatus drains the flash queue into v and writes the page in one go.
func (h *Handlers) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, v View) {
	if sess := session.FromContext(r.Context()); sess != nil {
		v.Flashes = sess.TakeFlashes()
	}
	var buf bytes.Buffer
	if err := h.Views.Render(&buf, name, v); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Str("template", name).Msg("write body failed")
	}
}
