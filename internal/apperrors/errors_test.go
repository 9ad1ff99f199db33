package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	err := Validation("role", "must be %q", "editor")
	assert.EqualError(t, err, `validation failed: role: must be "editor"`)
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(err))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "role", ve.Field)
}

func TestNotFound(t *testing.T) {
	err := NotFound("table", int64(7))
	assert.EqualError(t, err, "table not found: 7")
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(fmt.Errorf("get: %w", err), ErrNotFound))
	assert.False(t, IsValidation(err))
}

func TestValidationWithoutField(t *testing.T) {
	err := &ValidationError{Message: "bad input"}
	assert.Equal(t, "validation failed: bad input", err.Error())
}
