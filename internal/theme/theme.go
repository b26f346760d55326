// Package theme loads the page templates and static assets used to render a
// site. Built-in templates can be replaced file by file from a layouts
// directory.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"time"

	"git.home.luguber.info/inful/victor/internal/docmodel"
)

//go:embed templates assets
var builtin embed.FS

// Page template names.
const (
	PageIndex        = "index.html"
	PageInfo         = "info.html"
	PagePost         = "posts/post.html"
	PagePostList     = "posts/list.html"
	PageProjectList  = "projects/list.html"
	PageCategoryTerm = "categories/term.html"

	baseTemplate = "base.html"
)

// Pages lists every template a build may render.
var Pages = []string{PageIndex, PageInfo, PagePost, PagePostList, PageProjectList, PageCategoryTerm}

// ErrUnknownPage is returned by Render for a name outside Pages.
var ErrUnknownPage = errors.New("unknown page template")

// Theme holds one parsed template set per page.
type Theme struct {
	pages     map[string]*template.Template
	overrides []string
}

// Funcs are available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":    func(t time.Time) string { return t.Format("January 2, 2006") },
		"rfc3339": func(t time.Time) string { return t.Format(time.RFC3339) },
		"slug":    docmodel.CategorySlug,
	}
}

// Load parses the built-in templates, preferring any file of the same name
// under layoutsDir. An empty or missing layoutsDir uses the built-ins only.
func Load(layoutsDir string) (*Theme, error) {
	builtinFS, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, err
	}
	var user fs.FS
	if layoutsDir != "" {
		if st, err := os.Stat(layoutsDir); err == nil && st.IsDir() {
			user = os.DirFS(layoutsDir)
		}
	}
	return load(builtinFS, user)
}

func load(builtinFS, user fs.FS) (*Theme, error) {
	t := &Theme{pages: make(map[string]*template.Template, len(Pages))}

	read := func(name string) (string, error) {
		if user != nil {
			if b, err := fs.ReadFile(user, name); err == nil {
				t.overrides = append(t.overrides, name)
				return string(b), nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
		b, err := fs.ReadFile(builtinFS, name)
		return string(b), err
	}

	baseSrc, err := read(baseTemplate)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", baseTemplate, err)
	}
	base, err := template.New(baseTemplate).Funcs(Funcs()).Parse(baseSrc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", baseTemplate, err)
	}

	for _, name := range Pages {
		src, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.pages[name] = set
	}
	sort.Strings(t.overrides)
	return t, nil
}

// Render executes the named page with data.
func (t *Theme) Render(w io.Writer, name string, data any) error {
	set, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return set.ExecuteTemplate(w, name, data)
}

// Overrides lists the templates taken from the layouts directory.
func (t *Theme) Overrides() []string {
	return append([]string(nil), t.overrides...)
}

// Assets returns the built-in static files, rooted so that "style.css"
// is served from /assets/style.css.
func Assets() fs.FS {
	sub, err := fs.Sub(builtin, "assets")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// AssetNames lists the built-in asset paths.
func AssetNames() []string {
	var names []string
	_ = fs.WalkDir(Assets(), ".", func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path.Clean(p))
		}
		return nil
	})
	return names
}
