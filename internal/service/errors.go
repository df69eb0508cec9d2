package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"clinic-admin-backend/internal/repository"
)

var (
	// ErrNotFound matches any failed lookup by id, including references
	// named in an input (an appointment's patient_id, a doctor's specialty_id).
	ErrNotFound = repository.ErrNotFound
	// ErrUnauthorized is returned for bad credentials and unusable tokens.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries one message per offending input field so a form can be re-rendered.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for field, keeping the first message if one already exists
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Has reports whether field already failed
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Err returns e as an error, or nil when no field failed
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldError builds a single-field validation error
func fieldError(field, message string) error {
	ve := newValidationError()
	ve.Add(field, message)
	return ve
}

// listError turns an unsupported ordering into a validation error on the order parameter
func listError(err error) error {
	if errors.Is(err, repository.ErrUnknownOrder) {
		return fieldError("order", "unsupported ordering")
	}
	return err
}
