// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is usually wrapped in a *ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an identifier is missing, malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrEmptyPatch is returned when an update carries no field to change.
	ErrEmptyPatch = errors.New("no field to update")
)

// ValidationError describes why a single field was rejected.
// Field carries the wire name of the field so it can be shown to clients.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. A nil err defaults
// to ErrValidation so that errors.Is(err, ErrValidation) always holds.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes ErrValidation and the more specific sentinel to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func checkRequired(field, value string) error {
	if value == "" {
		return NewValidationError(field, "is required", nil)
	}
	return nil
}

func checkMaxLen(field, value string, max int) error {
	if len([]rune(value)) > max {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", max), nil)
	}
	return nil
}

func checkOptionalMaxLen(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return checkMaxLen(field, *value, max)
}

func checkID(field string, id int64) error {
	if id <= 0 {
		return NewValidationError(field, "must be a positive integer", ErrInvalidID)
	}
	return nil
}
