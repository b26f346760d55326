package docmodel

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/frontmatter"
	"git.home.luguber.info/inful/victor/internal/markdown"
)

var buildTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type stubConverter struct{ err error }

func (s stubConverter) Convert(src []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<p>" + string(src) + "</p>", nil
}

func opts() Options {
	return Options{Now: buildTime, Converter: stubConverter{}}
}

func TestNew_MissingTitleFails(t *testing.T) {
	for name, fields := range map[string]map[string]any{
		"absent": {"author": "x"},
		"null":   {"title": nil},
		"blank":  {"title": "  "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New("posts/a.md", "body", fields, opts())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingRequiredField))
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
			assert.Equal(t, ferrors.SeverityWarning, ferrors.GetSeverity(err), "a bad document is skipped, not fatal")
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	d, err := New("posts/a.md", "Hello", map[string]any{"title": "A"}, opts())
	require.NoError(t, err)

	assert.Equal(t, buildTime, d.Date())
	assert.True(t, d.DateDefaulted(), "undated documents take the build time and float to the top of listings")
	assert.True(t, d.RSSFullText())
	assert.Empty(t, d.Categories())
	assert.Empty(t, d.FeaturedImage())
	assert.True(t, d.DescriptionDerived())
	assert.Equal(t, "Hello...", d.Description())
}

func TestNew_HTMLWithoutFeaturedImage(t *testing.T) {
	for _, fields := range []map[string]any{
		{"title": "A"},
		{"title": "A", "featuredImage": ""},
		{"title": "A", "featuredImage": nil},
	} {
		d, err := New("a.md", "x", fields, opts())
		require.NoError(t, err)
		assert.NotContains(t, string(d.HTML()), "<img")
		assert.Equal(t, `<h1 class="post-title">A</h1><p>x</p>`, string(d.HTML()))
	}
}

func TestNew_HTMLWithFeaturedImage(t *testing.T) {
	d, err := New("a.md", "x", map[string]any{"title": `Tom & "Jerry"`, "featuredImage": "/img/hero.png"}, opts())
	require.NoError(t, err)
	assert.Equal(t,
		`<img class="post-hero" src="/img/hero.png" alt="Tom &amp; &#34;Jerry&#34;"/>`+
			`<h1 class="post-title">Tom &amp; &#34;Jerry&#34;</h1><p>x</p>`,
		string(d.HTML()))
	assert.Equal(t, "<p>x</p>", string(d.BodyHTML()))
}

func TestNew_Fields(t *testing.T) {
	d, err := New("posts/2024/hello-world.md", "body", map[string]any{
		"title":       "Hello",
		"author":      "Ada",
		"date":        "2024-03-09",
		"rssFullText": false,
		"categories":  []any{"go", "web", ""},
		"description": "Custom",
		"series":      "intro",
	}, opts())
	require.NoError(t, err)

	assert.Equal(t, "Ada", d.Author())
	assert.Equal(t, 2024, d.Date().Year())
	assert.Equal(t, time.March, d.Date().Month())
	assert.False(t, d.DateDefaulted())
	assert.False(t, d.RSSFullText())
	assert.Equal(t, []string{"go", "web"}, d.Categories())
	assert.Equal(t, "Custom", d.Description())
	assert.False(t, d.DescriptionDerived())
	assert.Equal(t, map[string]any{"series": "intro"}, d.Extra())
	assert.Equal(t, "intro", d.Param("series"))
	assert.Equal(t, "Hello", d.Meta()["title"])

	assert.Equal(t, "hello-world", d.Slug())
	assert.Equal(t, "posts/2024/hello-world", d.OutputDir())
	assert.Equal(t, "posts/2024/hello-world/index.html", d.OutputPath())
	assert.Equal(t, "/posts/2024/hello-world/", d.URL())
}

func TestNew_DateForms(t *testing.T) {
	cases := map[string]any{
		"yaml timestamp": time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		"rfc3339":        "2023-05-01T10:00:00Z",
		"python str":     "2023-05-01 10:00:00.123456",
		"slashes":        "05/01/2023",
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			d, err := New("a.md", "", map[string]any{"title": "t", "date": v}, opts())
			require.NoError(t, err)
			assert.False(t, d.DateDefaulted())
			assert.Equal(t, 2023, d.Date().Year())
		})
	}

	d, err := New("a.md", "", map[string]any{"title": "t", "date": "not a date"}, opts())
	require.NoError(t, err)
	assert.True(t, d.DateDefaulted())
	assert.Equal(t, buildTime, d.Date())
}

func TestNew_SingleCategoryString(t *testing.T) {
	d, err := New("a.md", "", map[string]any{"title": "t", "categories": "notes"}, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, d.Categories())
}

func TestNew_ConverterError(t *testing.T) {
	o := opts()
	o.Converter = stubConverter{err: errors.New("boom")}
	_, err := New("a.md", "x", map[string]any{"title": "t"}, o)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
}

func TestDeriveDescription(t *testing.T) {
	assert.Equal(t, "...", DeriveDescription(""))
	assert.Equal(t, "Hello, world! ...", DeriveDescription("Hello, world! *#~"))
	assert.Equal(t, "Caf au lait\n...", DeriveDescription("Caf@ au lait\n"))
	assert.Equal(t, "“quoted” (x) [y] a/b-c...", DeriveDescription("“quoted” (x) [y] a/b-c"))
	assert.Equal(t, "Ünïcödé 123...", DeriveDescription("Ünïcödé 123"))

	long := strings.Repeat("a", 300)
	assert.Equal(t, strings.Repeat("a", DescriptionLength)+"...", DeriveDescription(long))

	// The window is measured in characters before filtering.
	mixed := strings.Repeat("#", 279) + "bc"
	assert.Equal(t, "b...", DeriveDescription(mixed))
}

func TestExcerpt(t *testing.T) {
	d, err := New("a.md", "# Heading\n\nSome **bold** text with a [link](http://x).\n", map[string]any{"title": "t"}, opts())
	require.NoError(t, err)
	assert.Equal(t, "Heading Some bold text with a link.", d.Excerpt())

	long, err := New("a.md", strings.Repeat("word ", 100), map[string]any{"title": "t"}, opts())
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(long.Excerpt())), ExcerptLength+len(ellipsis))
	assert.True(t, strings.HasSuffix(long.Excerpt(), "..."))

	more, err := New("a.md", "Intro *text*.\n\n<!--more-->\n\nRest of it.", map[string]any{"title": "t"}, opts())
	require.NoError(t, err)
	assert.Equal(t, "Intro text.", more.Excerpt())
}

func TestDocumentIsImmutableThroughAccessors(t *testing.T) {
	d, err := New("a.md", "", map[string]any{"title": "t", "categories": []any{"a"}, "x": 1}, opts())
	require.NoError(t, err)

	d.Categories()[0] = "changed"
	d.Extra()["x"] = 2
	d.Meta()["title"] = "changed"

	assert.Equal(t, []string{"a"}, d.Categories())
	assert.Equal(t, 1, d.Extra()["x"])
	assert.Equal(t, "t", d.Title())
}

func TestParse_WithRealConverter(t *testing.T) {
	o := Options{Now: buildTime, Converter: markdown.New(markdown.Options{})}
	d, err := Parse("about.md", []byte("---\ntitle: About\n---\n## Who am I\n"), o)
	require.NoError(t, err)
	assert.Contains(t, string(d.HTML()), `<h1 class="post-title">About</h1>`)
	assert.Contains(t, string(d.HTML()), `id="who-am-i"`)
	assert.Equal(t, "about", d.OutputDir())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("bad.md", []byte("title: nope\n"), opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, frontmatter.ErrMalformedDocument))
	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	p, _ := c.Context().GetString("path")
	assert.Equal(t, "bad.md", p)
}

func TestParse_LiteralBracesInHeader(t *testing.T) {
	content := "---\ntitle: \"Writing {{ .Title }} in Go templates\"\nsubtitle: \"{{name}}\"\ndate: {{ today() }}\n---\nbody\n"
	d, err := Parse("posts/templates.md", []byte(content), opts())
	require.NoError(t, err)
	assert.Equal(t, "Writing {{ .Title }} in Go templates", d.Title())
	assert.Equal(t, "{{name}}", d.Extra()["subtitle"])
	assert.Equal(t, "2025-01-02", d.Date().Format(time.DateOnly))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(file, []byte("---\ntitle: Note\n---\nhi\n"), 0o600))

	d, err := ParseFile(file, "note.md", opts())
	require.NoError(t, err)
	assert.Equal(t, "Note", d.Title())

	_, err = ParseFile(filepath.Join(dir, "missing.md"), "missing.md", opts())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestOutputDirFor(t *testing.T) {
	assert.Equal(t, "posts/my-post", OutputDirFor("posts/my-post.md"))
	assert.Equal(t, "about", OutputDirFor("/about.md"))
	assert.Equal(t, "a/b/c", OutputDirFor("a/b/c.markdown"))
}

func TestCategorySlug(t *testing.T) {
	assert.Equal(t, "go", CategorySlug("Go"))
	assert.Equal(t, "c-go", CategorySlug("C++ / Go"))
	assert.Equal(t, "web-dev", CategorySlug("  Web Dev!"))
	assert.Equal(t, "ünïcode-2", CategorySlug("Ünïcode 2"))
	assert.Equal(t, "", CategorySlug("!!!"))
}
