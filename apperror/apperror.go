// Package apperror classifies failures so every route can map them to one status code.
package apperror

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInfrastructure Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "infrastructure"
	}
}

// Status returns the HTTP status for a kind. Conflicts answer 400, not 409.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a message key for the locale catalog, and optional per-field messages.
type Error struct {
	Kind   Kind
	Code   string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code string) error {
	return &Error{Kind: kind, Code: code}
}

func Unauthenticated(code string) error { return newError(KindUnauthenticated, code) }
func Forbidden(code string) error       { return newError(KindForbidden, code) }
func NotFound(code string) error        { return newError(KindNotFound, code) }
func Conflict(code string) error        { return newError(KindConflict, code) }

// Validation builds a validation error; fields may be nil.
func Validation(code string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Code: code, Fields: fields}
}

// Internal wraps a store or collaborator failure with a stack trace.
func Internal(err error, code string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInfrastructure, Code: code, Err: errors.WithStack(err)}
}

// KindOf reports the kind of err. Unclassified errors are infrastructure failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}

// CodeOf returns the message key of err, or the generic internal key.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return CodeInternal
}

// FieldsOf returns the per-field validation messages of err, if any.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
