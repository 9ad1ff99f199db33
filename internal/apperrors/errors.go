// Package apperrors defines the error taxonomy shared by the catalog and
// insight stores and the web layer.
//
// Stores return (or wrap) these sentinels so callers can classify failures
// with errors.Is without knowing which backend produced them. Anything that
// is neither a validation failure nor a missing record is a store fault.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested identity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks input that was rejected before any state changed.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes rejected input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation returns a ValidationError for field.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the kind and identity of a missing record.
// It matches ErrNotFound.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a NotFoundError for the record of kind with id.
func NotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
