// Package apperror classifies the errors this service reports to clients.
// Each error carries an HTTP status code, a machine-readable kind, and a
// message safe to show to the caller. Infrastructure errors keep the
// underlying cause for logging only; it is never serialized.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindAuth       = "auth"
	KindInfra      = "infra"
)

type AppError struct {
	Code    int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed.
	Internal error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// Validation reports missing or malformed input.
func Validation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

// Conflict reports a duplicate username or email. Reported as 400 to match
// the external contract, not 409.
func Conflict(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindConflict, Message: message}
}

// Auth reports bad credentials or a missing session. The message is kept
// uniform across causes so callers cannot enumerate accounts.
func Auth(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: KindAuth, Message: message}
}

// Infra wraps a storage or network failure. Clients see a generic message;
// the cause stays in Internal for the log.
func Infra(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindInfra, Message: message, Internal: err}
}

// SafeMessage returns the client-safe message for err, or a generic one for
// anything that is not an AppError.
func SafeMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status for err, defaulting to 500.
func SafeCode(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}
