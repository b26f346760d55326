package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/victor/internal/foundation/errors"
)

type color int

const (
	colorUnknown color = iota
	colorRed
	colorBlue
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]color{"Red": colorRed, "blue": colorBlue}, colorUnknown)

	assert.Equal(t, colorRed, n.Normalize("  RED "))
	assert.Equal(t, colorBlue, n.Normalize("Blue"))
	assert.Equal(t, colorUnknown, n.Normalize("green"))

	_, err := n.NormalizeWithError("green")
	require.Error(t, err)
	v, err := n.NormalizeWithError("red")
	require.NoError(t, err)
	assert.Equal(t, colorRed, v)
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(Positive("pagination.page_size"))

	assert.True(t, chain.Validate(16).Valid)

	res := chain.Validate(0)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "pagination.page_size", res.Errors[0].Field)

	err := res.ToError()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidationCombine(t *testing.T) {
	res := NotBlank("title")(" ").Combine(OneOf("style", []string{"a", "b"})("c"))
	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
	assert.Contains(t, res.ToError().Error(), "field 'title'")
	assert.NoError(t, Valid().ToError())
}
