package config

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
)

var (
	// ErrConfigNotFound means no configuration file exists at the given path.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrConfigFieldMissing means a required key is absent.
	ErrConfigFieldMissing = errors.New("required configuration field missing")
)

const initHint = `run "victor init" to create a new site`

func notFound(path string, cause error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %s", ErrConfigNotFound, path), ferrors.CategoryConfig, "cannot load site configuration").
		Fatal().
		WithContext("path", path).
		WithContext("cause", cause.Error()).
		WithHint(initHint).
		Build()
}

func fieldMissing(key string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %s", ErrConfigFieldMissing, key), ferrors.CategoryConfig, "invalid site configuration").
		Fatal().
		WithContext("field", key).
		WithHint(fmt.Sprintf("add %q to config.yaml", key)).
		Build()
}

func invalid(msg string, cause error) error {
	return ferrors.WrapError(cause, ferrors.CategoryConfig, msg).Fatal().Build()
}
