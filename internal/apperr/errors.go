// Package apperr defines the closed set of error kinds the application
// surfaces to callers. Every domain failure is one of these kinds with a
// stable machine-readable code; transports map kinds to status codes,
// the core never emits a status itself.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindInvalidCredentials
	KindInvalidToken
	KindExpired
	KindNotFound
	KindForbidden
)

// Error is the single error type crossing the service boundary. Details
// carries field-level context (e.g. which column collided) and is safe
// to serialize to clients. Err holds the underlying cause for internal
// errors; it is logged at the transport boundary, never serialized.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause so errors.Is/As reach through
// internal wrappers.
func (e *Error) Unwrap() error { return e.Err }

// Is makes two apperr values match when their kinds match, so tests and
// handlers can compare against the sentinel constructors below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Code returns the stable wire identifier for the kind.
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindDuplicate:
		return "DUPLICATE"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindInvalidToken:
		return "INVALID_TOKEN"
	case KindExpired:
		return "TOKEN_EXPIRED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status maps the kind to its fixed HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindInvalidCredentials, KindInvalidToken, KindExpired:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Duplicate reports a uniqueness collision on a specific field.
func Duplicate(resource, field, value string) *Error {
	return &Error{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("%s with %s '%s' already exists", resource, field, value),
		Details: map[string]string{"resource": resource, "field": field, "value": value},
	}
}

// InvalidCredentials is deliberately uniform across all password-login
// failure paths so callers cannot probe which factor failed.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
}

func InvalidToken() *Error {
	return &Error{Kind: KindInvalidToken, Message: "Invalid token"}
}

func Expired() *Error {
	return &Error{Kind: KindExpired, Message: "Token has expired"}
}

func NotFound(resource string, id any) *Error {
	msg := fmt.Sprintf("%s not found", resource)
	if id != nil && fmt.Sprint(id) != "" {
		msg = fmt.Sprintf("%s with id '%v' not found", resource, id)
	}
	return &Error{
		Kind:    KindNotFound,
		Message: msg,
		Details: map[string]string{"resource": resource, "identifier": fmt.Sprint(id)},
	}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal wraps an unexpected failure. The cause stays attached for
// logging; the client-facing message is deliberately opaque.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// From extracts the application error from err, wrapping anything
// unclassified as internal so transports never leak raw store failures.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
