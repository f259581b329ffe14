package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the root of every "unknown id" error.
	ErrNotFound = errors.New("not found")
	// ErrConflict is the root of every delete blocked by a protecting reference.
	ErrConflict = errors.New("conflict")
)

var (
	ErrPositionNotFound = fmt.Errorf("position %w", ErrNotFound)
	ErrTaskTypeNotFound = fmt.Errorf("task type %w", ErrNotFound)
	ErrEmployeeNotFound = fmt.Errorf("employee %w", ErrNotFound)
	ErrTaskNotFound     = fmt.Errorf("task %w", ErrNotFound)

	ErrPositionInUse = fmt.Errorf("position is held by employees: %w", ErrConflict)
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a create or update payload is rejected.
// Nothing is committed when it is returned.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records another field failure.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Has reports whether field already failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
