package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageHome       = "home.html"
	PageUsers      = "users.html"
	PageUserDetail = "user_detail.html"
	PageUserForm   = "user_form.html"
	PageUserEdit   = "user_edit.html"
	PagePostForm   = "post_form.html"
	PagePostDetail = "post_detail.html"
	PagePostEdit   = "post_edit.html"
	PageTags       = "tags.html"
	PageTagDetail  = "tag_detail.html"
	PageTagForm    = "tag_form.html"
	PageTagEdit    = "tag_edit.html"
	PageError      = "error.html"
)

// Renderer implements echo.Renderer with one template set per page, each
// sharing the base layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every embedded page.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.New(path.Base(file)).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[path.Base(file)] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
