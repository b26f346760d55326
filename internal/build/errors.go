package build

import (
	"errors"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
)

// Sentinel errors for pipeline failures. They are always wrapped with the
// offending path at the call site.
var (
	ErrOutputWriteFailure = errors.New("output write failure")
	ErrContentRootMissing = errors.New("content root missing")
	ErrUnsafeOutputDir    = errors.New("refusing to reset output directory")
)

func outputWriteFailure(path string, cause error) error {
	return ferrors.FileSystemError("failed to write output").
		WithCause(errors.Join(ErrOutputWriteFailure, cause)).
		WithContext(logfields.KeyPath, path).
		WithHint("check permissions and free space for the output directory").
		Build()
}

func contentRootMissing(path string) error {
	return ferrors.NotFoundError("content directory not found").
		WithCause(ErrContentRootMissing).
		WithContext(logfields.KeyPath, path).
		WithHint(`run "victor init" to create a new site`).
		Build()
}

func encodeFailed(what string, cause error) error {
	return ferrors.BuildError("failed to encode " + what).WithCause(cause).Build()
}

func unsafeOutputDir(path, reason string) error {
	return ferrors.WrapError(ErrUnsafeOutputDir, ferrors.CategoryValidation, reason).
		WithContext(logfields.KeyPath, path).
		WithHint("choose a dedicated output directory such as public/").
		Fatal().
		Build()
}
