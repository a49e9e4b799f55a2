// Package apperr defines the error taxonomy shared by services and the HTTP layer.
//
// Every error that crosses the service boundary is either an *Error or gets
// treated as KindInternal. Controllers only ever show Message to callers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "service_unavailable"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a user-facing Title/Message pair and the underlying cause.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message}
}

func Wrap(kind Kind, err error, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, "Invalid request", message)
}

// ValidationFields reports per-field problems, keyed by the JSON field name.
func ValidationFields(fields map[string]string) *Error {
	e := New(KindValidation, "Invalid request", "validation failed")
	e.Fields = fields
	return e
}

func Authentication(message string) *Error {
	return New(KindAuthentication, "Unauthorized", message)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, "Not found", resource+" not found")
}

func Conflict(message string) *Error {
	return New(KindConflict, "Conflict", message)
}

func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, err, "Service unavailable", "service temporarily unavailable, please retry")
}

func Internal(err error) *Error {
	return Wrap(KindInternal, err, "Internal error", "internal server error")
}

// As finds the first *Error in err's chain. Unclassified errors come back
// as KindInternal so callers never leak raw error text.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	return As(err).Kind
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
