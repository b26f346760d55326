// Package errors provides classified error primitives shared by the site
// builder and its CLI.
//
// A ClassifiedError carries a category, a severity and a context map. The
// CLI adapter turns the category into an exit code and prints the "hint"
// context entry as remediation, so a missing config reads as
//
//	Error: configuration file not found: config.yaml
//	Hint: run "victor init" to create a new site
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryConfig, "configuration file not found").
//		Fatal().
//		WithContext("path", path).
//		WithHint(`run "victor init" to create a new site`).
//		Build()
package errors
