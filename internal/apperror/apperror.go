// Package apperror defines the error taxonomy shared by the repositories,
// services and HTTP handlers, and the mapping from that taxonomy to HTTP
// status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an item or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create or rename hits an existing name.
	ErrConflict = errors.New("already exists")

	// ErrValidation is returned when input breaks a data model invariant.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized covers missing, invalid or expired tokens and failed
	// credential checks. The message is the same for every cause.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrForbidden is returned for a valid identity whose account is inactive.
	ErrForbidden = errors.New("inactive user")

	// ErrStorage hides infrastructure failures from callers.
	ErrStorage = errors.New("a database error occurred")
)

// ValidationError carries per-field messages. It matches ErrValidation
// through errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// HTTPStatus maps an error to the status code the HTTP layer should send.
// Errors outside the taxonomy map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err belongs to the taxonomy and can be passed to
// callers unchanged.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrStorage)
}
