package config

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/victor/internal/foundation"
)

// siteValidators checks values that parsed but cannot be used.
var siteValidators = foundation.NewValidatorChain[*SiteConfig](
	func(c *SiteConfig) foundation.ValidationResult { return foundation.NotBlank("title")(c.Title) },
	func(c *SiteConfig) foundation.ValidationResult {
		return foundation.Positive("pagination.page_size")(c.Pagination.PageSize)
	},
	func(c *SiteConfig) foundation.ValidationResult {
		return foundation.OneOf("markdown.code_style", styles.Names())(c.Markdown.CodeStyle)
	},
	validateNavbar,
	validateIgnore,
)

// Validate runs every check and reports all failures together.
func Validate(c *SiteConfig) error {
	return siteValidators.Validate(c).ToError()
}

func navEntryValidator(i int) *foundation.ValidatorChain[NavEntry] {
	name := foundation.NotBlank(fmt.Sprintf("navbar[%d].name", i))
	url := foundation.NotBlank(fmt.Sprintf("navbar[%d].url", i))
	return foundation.NewValidatorChain[NavEntry](
		func(e NavEntry) foundation.ValidationResult { return name(e.Name) },
		func(e NavEntry) foundation.ValidationResult { return url(e.URL) },
	)
}

func validateNavbar(c *SiteConfig) foundation.ValidationResult {
	result := foundation.Valid()
	for i, nav := range c.Navbar {
		result = result.Combine(navEntryValidator(i).Validate(nav))
	}
	return result
}

func validateIgnore(c *SiteConfig) foundation.ValidationResult {
	result := foundation.Valid()
	for i, pattern := range c.Build.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result = result.Combine(foundation.Invalid(foundation.NewValidationError(
				fmt.Sprintf("build.ignore[%d]", i), "pattern", fmt.Sprintf("invalid glob %q", pattern))))
		}
	}
	return result
}
