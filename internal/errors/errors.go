package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an AppError; each kind maps to exactly one HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindPersistence
	KindInternal
)

func (k Kind) Status() int {
	switch k {
	case KindValidation, KindPersistence:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one violated field of a validated payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error type controllers hand to the error translator.
// Message is always safe to show to clients; Err is kept for logging only.
type AppError struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int { return e.Kind.Status() }

// Is matches another AppError of the same kind and message, so sentinel
// AppErrors work with errors.Is even after being wrapped.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Validation builds the aggregate 400 error. The message joins every
// "field: message" pair in order.
func Validation(fields []FieldError) *AppError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	msg := "Validation error"
	if len(parts) > 0 {
		msg = strings.Join(parts, ", ")
	}
	return &AppError{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// BadRequest is a 400 that is not tied to a schema field.
func BadRequest(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Wrap attaches a cause to a copy of e, keeping kind and message.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

// As is errors.As specialised to *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
