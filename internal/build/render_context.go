package build

import (
	"bytes"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/victor/internal/config"
	"git.home.luguber.info/inful/victor/internal/docmodel"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/social"
)

// SiteContext is the part of every page context shared by the whole build.
type SiteContext struct {
	Config      *config.SiteConfig
	SocialLinks []social.Link
	BuildTime   time.Time
	// FeedURL is empty when the feed is disabled.
	FeedURL string
	// LiveReload adds the preview reload script to every page.
	LiveReload bool
}

// URL resolves a site-relative link against the configured base URL.
// Absolute URLs are returned unchanged.
func (s *SiteContext) URL(rel string) string {
	if strings.Contains(rel, "://") || strings.HasPrefix(rel, "mailto:") {
		return rel
	}
	return s.Config.URL(rel)
}

// PageContext is the data passed to a page template.
type PageContext struct {
	Site      *SiteContext
	PageTitle string
	// Post is set on document pages.
	Post *docmodel.Document
	// Posts is set on listing pages and the home page.
	Posts []*docmodel.Document

	PrevPage   string
	NextPage   string
	PageNumber int
	PageCount  int
}

// PageTitle derives a display title from a content path: "my-first_post.md"
// becomes "My First Post".
func PageTitle(rel string) string {
	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	words := strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return cases.Title(language.English).String(words)
}

// render executes a theme page into memory so a failing template never
// leaves a partial file behind.
func (bs *BuildState) render(page string, data PageContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := bs.Theme.Render(&buf, page, data); err != nil {
		return nil, ferrors.TemplateError("template execution failed").
			WithCause(err).
			WithContext(logfields.KeyTemplate, page).
			WithHint("check the template in layouts/ or remove it to use the built-in one").
			Build()
	}
	return buf.Bytes(), nil
}
