package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Example returns the configuration written by Init.
func Example() *SiteConfig {
	cfg := Defaults()
	cfg.Title = "My Site"
	cfg.Description = "Notes, posts and projects"
	cfg.Navbar = []NavEntry{
		{Name: "Home", URL: "/"},
		{Name: "Posts", URL: "/posts/"},
		{Name: "Projects", URL: "/projects/"},
	}
	cfg.Index.SocialLinks = SocialLinks{
		{Platform: "linkedin", Value: ""},
		{Platform: "github", Value: ""},
		{Platform: "gitlab", Value: ""},
		{Platform: "twitter", Value: ""},
	}
	return cfg
}

// Init writes the example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
