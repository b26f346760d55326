package docmodel

import (
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
)

// ErrMissingRequiredField is returned when front matter lacks a required key.
var ErrMissingRequiredField = errors.New("missing required field")

func missingField(source, field string) error {
	return ferrors.ContentError("invalid document").
		WithCause(fmt.Errorf("%w: %s", ErrMissingRequiredField, field)).
		WithContext("path", source).
		WithContext("field", field).
		WithHint(fmt.Sprintf("add %q to the front matter of %s", field, source)).
		Build()
}

func conversionFailed(source string, err error) error {
	return ferrors.ContentError("failed to convert markdown").
		WithCause(err).
		WithContext("path", source).
		Build()
}
