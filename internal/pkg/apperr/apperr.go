// Package apperr defines the error kinds surfaced to API clients.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

// FieldError describes a problem with a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is a domain error. Two errors match under errors.Is when their codes
// are equal, so package-level sentinels can be compared against instances
// that carry per-call field details.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WithFields returns a copy of e carrying the given field errors.
func (e *Error) WithFields(fields ...FieldError) *Error {
	cp := *e
	cp.Fields = append([]FieldError(nil), fields...)
	return &cp
}

func BadRequest(code, message string, fields ...FieldError) *Error {
	return &Error{Kind: KindBadRequest, Code: code, Message: message, Fields: fields}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Internal wraps an unexpected failure. Its message is never shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "unexpected error", Err: err}
}

// As extracts a client-facing domain error from err. Internal errors are
// reported as not found so callers treat them as opaque failures.
func As(err error) (*Error, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return nil, false
	}
	return appErr, true
}
