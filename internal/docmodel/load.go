package docmodel

import (
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/frontmatter"
)

// Parse splits raw file content and constructs the Document.
func Parse(source string, content []byte, opts Options) (*Document, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	parsed, err := frontmatter.Parser{Now: func() time.Time { return opts.Now }}.Parse(content)
	if err != nil {
		return nil, ferrors.ContentError("failed to parse front matter").
			WithCause(err).
			WithContext("path", source).
			WithHint("content files must start with a --- delimited YAML header").
			Build()
	}
	return New(source, string(parsed.Body), parsed.Fields, opts)
}

// ParseFile reads a file from disk and parses it into a Document.
func ParseFile(filename, source string, opts Options) (*Document, error) {
	// #nosec G304 -- filename comes from content discovery.
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			WithContext("path", source).
			Build()
	}
	return Parse(source, content, opts)
}
