package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/web"
)

// Page is what every template receives. Data holds the page-specific view.
type Page struct {
	Title string
	Flash []string
	Data  any
}

type fieldErrors struct {
	Errors map[string]string
	Field  string
}

type optionSet struct {
	All      []string
	Selected any
}

var templateFuncs = template.FuncMap{
	"has":  func(s []string, v string) bool { return slices.Contains(s, v) },
	"join": strings.Join,
	"field": func(errs map[string]string, name string) fieldErrors {
		return fieldErrors{Errors: errs, Field: name}
	},
	"options": func(all []string, selected any) optionSet {
		return optionSet{All: all, Selected: selected}
	},
}

// Renderer renders embedded templates. Each page is parsed together with
// the layout and partials into its own set, keyed by its path without
// extension, e.g. "pages/home".
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under pages/, forms/ and errors/.
func NewRenderer() (*Renderer, error) {
	root, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, dir := range []string{"pages", "forms", "errors"} {
		names, err := fs.Glob(root, dir+"/*.html")
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			t, err := template.New("").Funcs(templateFuncs).ParseFS(root, "layout.html", "partials.html", name)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
			r.pages[strings.TrimSuffix(name, path.Ext(name))] = t
		}
	}
	return r, nil
}

// Render implements echo.Renderer. data is wrapped in a Page unless it
// already is one.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	page, ok := data.(Page)
	if !ok {
		page = Page{Data: data}
	}
	return t.ExecuteTemplate(w, "layout", page)
}
