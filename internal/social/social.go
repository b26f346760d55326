// Package social turns configured platform handles into profile links for
// the home page.
package social

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/victor/internal/config"
	"git.home.luguber.info/inful/victor/internal/foundation"
)

// Platform is one of the supported social sites.
type Platform string

const (
	PlatformUnknown  Platform = ""
	PlatformLinkedIn Platform = "linkedin"
	PlatformGitHub   Platform = "github"
	PlatformGitLab   Platform = "gitlab"
	PlatformTwitter  Platform = "twitter"
)

var platforms = foundation.NewNormalizer(map[string]Platform{
	"linkedin": PlatformLinkedIn,
	"github":   PlatformGitHub,
	"gitlab":   PlatformGitLab,
	"twitter":  PlatformTwitter,
}, PlatformUnknown)

var profilePrefix = map[Platform]string{
	PlatformLinkedIn: "https://www.linkedin.com/in/",
	PlatformGitHub:   "https://github.com/",
	PlatformGitLab:   "https://gitlab.com/",
	PlatformTwitter:  "https://twitter.com/",
}

var displayName = map[Platform]string{
	PlatformLinkedIn: "LinkedIn",
	PlatformGitHub:   "GitHub",
	PlatformGitLab:   "GitLab",
	PlatformTwitter:  "Twitter",
}

// ParsePlatform resolves a config key to a Platform.
func ParsePlatform(raw string) (Platform, error) {
	return platforms.NormalizeWithError(raw)
}

// Name returns the display name, e.g. "GitHub".
func (p Platform) Name() string { return displayName[p] }

// Link is a rendered social profile link.
type Link struct {
	Platform Platform
	Handle   string
	URL      string
}

// Name returns the platform display name.
func (l Link) Name() string { return l.Platform.Name() }

// Links keeps entries with a non-empty value, in declared order. Unknown
// platforms are logged and skipped.
func Links(entries config.SocialLinks, logger *slog.Logger) []Link {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Link, 0, len(entries))
	for _, e := range entries {
		handle := strings.TrimSpace(e.Value)
		if handle == "" {
			continue
		}
		p, err := ParsePlatform(e.Platform)
		if err != nil {
			logger.Warn("Ignoring unknown social platform", slog.String("platform", e.Platform))
			continue
		}
		out = append(out, Link{Platform: p, Handle: handle, URL: profileURL(p, handle)})
	}
	return out
}

func profileURL(p Platform, handle string) string {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	return profilePrefix[p] + strings.TrimPrefix(handle, "@")
}
