package config

// DefaultPageSize is the number of entries per listing page.
const DefaultPageSize = 16

// DefaultCodeStyle is the chroma style used for fenced code blocks.
const DefaultCodeStyle = "monokai"

// Defaults returns a configuration with every optional field populated.
func Defaults() *SiteConfig {
	return &SiteConfig{
		BaseURL:    "/",
		Pagination: PaginationConfig{PageSize: DefaultPageSize},
		Markdown:   MarkdownConfig{CodeStyle: DefaultCodeStyle},
		Build: BuildConfig{
			Feed:       true,
			Sitemap:    true,
			Categories: true,
		},
	}
}
