// Package domainerrors provides coded errors shared across the engine. Services
// attach a Code so transport and callers can branch on failure class without
// string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeConfig marks missing or malformed process configuration. Startup-class,
	// never retried.
	CodeConfig Code = "config_invalid"

	// CodeBadRequest marks malformed caller input.
	CodeBadRequest Code = "bad_request"

	// CodeValidation marks aggregated field-level validation failures raised
	// before any network call.
	CodeValidation Code = "validation_failed"

	// CodeInvalidState marks an operation attempted against a submission whose
	// status (or missing external identifier) forbids it.
	CodeInvalidState Code = "invalid_state"

	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"

	// CodeUpstreamRejected marks a 4xx insurer response. Not retryable.
	CodeUpstreamRejected Code = "upstream_rejected"

	// CodeUpstreamUnavailable marks a 5xx / network / timeout insurer failure
	// that survived the retry budget.
	CodeUpstreamUnavailable Code = "upstream_unavailable"

	// CodeInternal marks everything else.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidState:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamRejected:
		return http.StatusUnprocessableEntity
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
