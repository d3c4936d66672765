package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorPasses(t *testing.T) {
	v := NewValidator()
	v.Field("filename", "doc.pdf", Required, MaxLength(255))
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Error())
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator()
	v.Field("filename", "", Required)
	v.Field("document_hash", "nope", SHA256Hex)

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 2)

	err := v.Error()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "filename")
	assert.Contains(t, err.Error(), "document_hash")
}

func TestRequired(t *testing.T) {
	assert.NotNil(t, Required("f", nil))
	assert.NotNil(t, Required("f", ""))
	assert.NotNil(t, Required("f", "   "))
	assert.Nil(t, Required("f", "x"))

	var p *string
	assert.NotNil(t, Required("f", p))
	s := "x"
	assert.Nil(t, Required("f", &s))
}

func TestMaxLength(t *testing.T) {
	rule := MaxLength(5)
	assert.Nil(t, rule("f", "abcde"))
	assert.NotNil(t, rule("f", "abcdef"))
	// Non-string values are someone else's problem.
	assert.Nil(t, rule("f", 42))
}

func TestSHA256Hex(t *testing.T) {
	valid := strings.Repeat("ab", 32)
	assert.Nil(t, SHA256Hex("document_hash", valid))

	assert.NotNil(t, SHA256Hex("document_hash", strings.ToUpper(valid)))
	assert.NotNil(t, SHA256Hex("document_hash", valid[:63]))
	assert.NotNil(t, SHA256Hex("document_hash", 42))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAppError("DB_QUERY", "list model logs", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DB_QUERY")
	assert.Contains(t, err.Error(), "boom")

	bare := NewAppError("REVIEW_INPUT", "extraction result is required", nil)
	assert.Equal(t, "REVIEW_INPUT: extraction result is required", bare.Error())
}
