// Package apperr holds the error taxonomy shared by the domain services and
// the HTTP layer.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized is returned when a record exists but belongs to another user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAuthentication is returned for bad credentials or an invalid token.
	ErrAuthentication = errors.New("authentication failed")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a validation error with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add appends a message for field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// Empty reports whether no field messages were collected.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// OrNil returns nil when nothing was collected, so callers can write
// `return verr.OrNil()` at the end of a Validate method.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	if v.Empty() {
		return "validation failed"
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
