package services

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Define common service errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict") // e.g. delete blocked by dependents
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("invalid state transition")
)

// ValidationError carries every field problem of a request at once.
// Keys are JSON field names, or "non_field_errors" for cross-field rules.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
