package domain

import (
	"errors"
	"strings"
)

var (
	// ErrModelUnavailable means the model runtime could not be reached or refused the call.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelTimeout means the model runtime did not answer within the transport timeout.
	ErrModelTimeout = errors.New("model timeout")
	// ErrNoActiveProvider means no backend has been selected in settings.
	ErrNoActiveProvider = errors.New("no active provider configured")
)

// ValidationError lists the request fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
