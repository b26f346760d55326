// Package docmodel holds the in-memory model of one content file.
package docmodel

import (
	"fmt"
	"html"
	"html/template"
	"maps"
	"path"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/victor/internal/markdown"
)

// Document is one parsed content file. It is immutable after New returns.
type Document struct {
	source string // slash-separated path relative to the content root
	title  string

	featuredImage string
	author        string
	date          time.Time
	dateDefaulted bool
	rssFullText   bool
	categories    []string
	description   string
	derivedDesc   bool
	meta          map[string]any
	extra         map[string]any

	markdown string
	bodyHTML string
	html     template.HTML

	excerptOnce sync.Once
	excerpt     string
}

// Options supplies build-wide collaborators.
type Options struct {
	// Now is the build time used when a document has no usable date.
	Now time.Time
	// Converter renders the body. Required.
	Converter markdown.Converter
}

// New builds a Document from a relative source path, the markdown body and
// the decoded front matter.
func New(source string, body string, fields map[string]any, opts Options) (*Document, error) {
	title, ok := stringField(fields, FieldTitle)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, missingField(source, FieldTitle)
	}
	if opts.Converter == nil {
		return nil, fmt.Errorf("docmodel: no converter configured")
	}

	d := &Document{
		source:   path.Clean(strings.TrimPrefix(source, "/")),
		title:    title,
		markdown: body,
		meta:     maps.Clone(fields),
		extra:    extraFields(fields),
	}
	d.featuredImage, _ = stringField(fields, FieldFeaturedImage)
	d.author, _ = stringField(fields, FieldAuthor)
	d.date, d.dateDefaulted = dateField(fields, opts.Now)
	d.rssFullText = boolField(fields, FieldRSSFullText, true)
	d.categories = listField(fields, FieldCategories)

	if desc, ok := stringField(fields, FieldDescription); ok && desc != "" {
		d.description = desc
	} else {
		d.description = DeriveDescription(body)
		d.derivedDesc = true
	}

	converted, err := opts.Converter.Convert([]byte(body))
	if err != nil {
		return nil, conversionFailed(source, err)
	}
	d.bodyHTML = converted
	d.html = template.HTML(d.header() + converted) // #nosec G203 -- converter output, raw HTML escaped unless site opts in

	return d, nil
}

func (d *Document) header() string {
	var b strings.Builder
	if d.featuredImage != "" {
		fmt.Fprintf(&b, `<img class="post-hero" src="%s" alt="%s"/>`,
			html.EscapeString(d.featuredImage), html.EscapeString(d.title))
	}
	fmt.Fprintf(&b, `<h1 class="post-title">%s</h1>`, html.EscapeString(d.title))
	return b.String()
}

// Source returns the path relative to the content root.
func (d *Document) Source() string { return d.source }

func (d *Document) Title() string         { return d.title }
func (d *Document) FeaturedImage() string { return d.featuredImage }
func (d *Document) Author() string        { return d.author }
func (d *Document) Date() time.Time       { return d.date }

// DateDefaulted reports whether Date is the build time because the document
// had no parseable date. Such documents sort ahead of dated ones.
func (d *Document) DateDefaulted() bool { return d.dateDefaulted }

func (d *Document) RSSFullText() bool { return d.rssFullText }

// Categories returns a copy of the category list.
func (d *Document) Categories() []string { return append([]string(nil), d.categories...) }

func (d *Document) Description() string { return d.description }

// DescriptionDerived reports whether Description was computed from the body.
func (d *Document) DescriptionDerived() bool { return d.derivedDesc }

// Markdown returns the body with the front matter removed.
func (d *Document) Markdown() string { return d.markdown }

// HTML returns the featured image, title banner and converted body.
func (d *Document) HTML() template.HTML { return d.html }

// BodyHTML returns only the converted markdown.
func (d *Document) BodyHTML() template.HTML { return template.HTML(d.bodyHTML) } // #nosec G203

// Meta returns a copy of every front matter field.
func (d *Document) Meta() map[string]any { return maps.Clone(d.meta) }

// Extra returns a copy of the fields that are not interpreted.
func (d *Document) Extra() map[string]any { return maps.Clone(d.extra) }

// Param looks up any front matter field by name.
func (d *Document) Param(name string) any { return d.meta[name] }

// Slug is the file stem, used as the output directory name.
func (d *Document) Slug() string {
	base := path.Base(d.source)
	return strings.TrimSuffix(base, path.Ext(base))
}

// OutputDir is the directory, relative to the output root, holding the page.
func (d *Document) OutputDir() string { return OutputDirFor(d.source) }

// OutputPath is the rendered page path relative to the output root.
func (d *Document) OutputPath() string { return path.Join(d.OutputDir(), "index.html") }

// URL is the site-relative URL of the page, always with a trailing slash.
func (d *Document) URL() string { return "/" + d.OutputDir() + "/" }

// OutputDirFor maps a content path such as posts/a.md to posts/a.
func OutputDirFor(source string) string {
	source = path.Clean(strings.TrimPrefix(source, "/"))
	dir, base := path.Split(source)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return path.Join(dir, stem)
}
