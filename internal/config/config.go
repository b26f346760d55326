package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteConfig is the site-wide configuration. It is loaded once per build and
// must not be mutated afterwards.
type SiteConfig struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description,omitempty"`
	Author      string           `yaml:"author,omitempty"`
	BaseURL     string           `yaml:"base_url,omitempty"`
	Navbar      []NavEntry       `yaml:"navbar,omitempty"`
	Index       IndexConfig      `yaml:"index"`
	Pagination  PaginationConfig `yaml:"pagination"`
	Markdown    MarkdownConfig   `yaml:"markdown"`
	Build       BuildConfig      `yaml:"build"`
}

// NavEntry is one navigation bar link.
type NavEntry struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// IndexConfig configures the home page.
type IndexConfig struct {
	SocialLinks SocialLinks `yaml:"socialLinks"`
}

// PaginationConfig configures listing pages.
type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

// MarkdownConfig configures markdown conversion.
type MarkdownConfig struct {
	// Unsafe lets raw HTML in content pass through unescaped.
	Unsafe    bool   `yaml:"unsafe"`
	CodeStyle string `yaml:"code_style,omitempty"`
}

// BuildConfig toggles optional outputs and excludes content.
type BuildConfig struct {
	Ignore     []string `yaml:"ignore,omitempty"`
	Feed       bool     `yaml:"feed"`
	Sitemap    bool     `yaml:"sitemap"`
	Categories bool     `yaml:"categories"`
}

// SocialLink is one configured platform handle.
type SocialLink struct {
	Platform string
	Value    string
}

// SocialLinks preserves the order in which platforms appear in the file.
type SocialLinks []SocialLink

// UnmarshalYAML reads a mapping of platform -> handle without losing order.
func (s *SocialLinks) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: index.socialLinks must be a mapping", node.Line)
	}
	links := make(SocialLinks, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var value string
		if val.Tag != "!!null" {
			if err := val.Decode(&value); err != nil {
				return fmt.Errorf("line %d: socialLinks.%s: %w", val.Line, key.Value, err)
			}
		}
		links = append(links, SocialLink{Platform: key.Value, Value: value})
	}
	*s = links
	return nil
}

// MarshalYAML writes the links back as an ordered mapping.
func (s SocialLinks) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, l := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l.Platform},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l.Value},
		)
	}
	return node, nil
}

// Load reads path, applies defaults and environment expansion, and checks
// required keys. Env files are read from the directory holding path.
func Load(path string) (*SiteConfig, error) {
	if err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes a configuration document that has already been read and
// expanded.
func Parse(data []byte) (*SiteConfig, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, invalid("failed to parse config", err)
	}
	if err := checkRequired(&root); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := root.Decode(cfg); err != nil {
		return nil, invalid("failed to decode config", err)
	}
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requiredKeys are dotted paths that must exist in every config file.
var requiredKeys = []string{"title", "index.socialLinks"}

func checkRequired(root *yaml.Node) error {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	for _, key := range requiredKeys {
		if lookup(doc, strings.Split(key, ".")) == nil {
			return fieldMissing(key)
		}
	}
	return nil
}

func lookup(node *yaml.Node, path []string) *yaml.Node {
	if len(path) == 0 {
		return node
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == path[0] {
			return lookup(node.Content[i+1], path[1:])
		}
	}
	return nil
}

func normalizeBaseURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return "/"
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// URL joins the base URL with a site-relative path.
func (c *SiteConfig) URL(rel string) string {
	return c.BaseURL + strings.TrimPrefix(rel, "/")
}

// AbsoluteBaseURL reports whether BaseURL is an absolute http(s) URL.
// Feeds and sitemaps need absolute links.
func (c *SiteConfig) AbsoluteBaseURL() bool {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// WithBaseURL returns a copy of c using base as the link prefix.
func (c *SiteConfig) WithBaseURL(base string) *SiteConfig {
	cp := *c
	cp.BaseURL = normalizeBaseURL(base)
	return &cp
}
