// Package markdown converts content bodies to HTML.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Converter turns markdown into an HTML fragment.
type Converter interface {
	Convert(src []byte) (string, error)
}

// Options controls conversion.
type Options struct {
	// Unsafe writes raw HTML through. When false raw HTML is escaped.
	Unsafe bool
	// Highlighter renders fenced code with a language. Nil disables
	// highlighting.
	Highlighter Highlighter
}

// GoldmarkConverter is the Converter used by builds.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// New returns a converter with GFM extensions and the site's block renderer.
func New(opts Options) *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(newNodeRenderer(opts), 100)),
		),
	)
	return &GoldmarkConverter{md: md}
}

// Convert implements Converter.
func (c *GoldmarkConverter) Convert(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Slug derives a heading anchor: lower-cased with spaces replaced by
// hyphens. Identical headings produce identical anchors.
func Slug(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "-")
}
