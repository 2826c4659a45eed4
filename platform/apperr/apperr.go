// Package apperr is the domain error vocabulary shared by services and the
// HTTP layer. Services return *Error values with a Kind; httpkit maps the
// Kind to a response status so handlers never pick status codes themselves.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	// KindUnknown covers errors that were never classified.
	KindUnknown Kind = iota
	// KindValidation rejects caller input.
	KindValidation
	// KindNotFound means the tenant has no such record.
	KindNotFound
	// KindConflict signals a duplicate or a state collision.
	KindConflict
	// KindUnauthorized covers failed or missing authentication.
	KindUnauthorized
	// KindInternal is an infrastructure failure the caller cannot fix.
	KindInternal
)

// Error carries a kind, a client-safe message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the response status for the error's kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New builds a classified error. Message is what reaches the client, so it
// must not leak internals.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified error around a cause. The cause stays reachable
// through errors.Is/As but never appears in the response body.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation rejects caller input.
func Validation(message string) *Error { return New(KindValidation, message) }

// NotFound reports a missing record.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict reports a duplicate or state collision.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Unauthorized reports failed authentication.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Internal reports an infrastructure failure.
func Internal(message string) *Error { return New(KindInternal, message) }

// GetKind reports the kind of err, unwrapping fmt.Errorf chains as needed.
// Plain errors are KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
