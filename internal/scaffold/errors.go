package scaffold

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
)

var (
	// ErrFileExists is returned when new content would overwrite a file.
	ErrFileExists = errors.New("file already exists")
	// ErrInvalidPath is returned for content paths that leave the content
	// directory.
	ErrInvalidPath = errors.New("invalid content path")
	// ErrNotInitialized means the project has no content directory yet.
	ErrNotInitialized = errors.New("project not initialized")
)

func fileExists(path string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %s", ErrFileExists, path), ferrors.CategoryValidation, "refusing to overwrite existing file").
		WithContext("path", path).
		WithHint("choose a different path or delete the existing file").
		Build()
}

func invalidPath(path, reason string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %s: %s", ErrInvalidPath, path, reason), ferrors.CategoryValidation, "invalid content path").
		WithContext("path", path).
		WithHint(`pass a path relative to the content directory, e.g. "posts/hello.md"`).
		Build()
}

func notInitialized(dir string) error {
	return ferrors.WrapError(fmt.Errorf("%w: %s missing", ErrNotInitialized, dir), ferrors.CategoryNotFound, "no content directory").
		WithContext("path", dir).
		WithHint(`run "victor init" to create a new site`).
		Build()
}

func fsError(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, msg).
		Fatal().
		WithContext("path", path).
		Build()
}
