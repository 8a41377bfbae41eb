// Package errors defines the typed application errors shared by services and
// the HTTP layer. Each Code maps to one HTTP status and public message.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a Code is rendered to clients.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, public string, details bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		PublicMessage:  public,
		DetailsAllowed: details,
		Retryable:      status >= http.StatusInternalServerError,
	}
}

// Metadata returns the rendering rules for c; unknown codes render as internal.
func (c Code) Metadata() Metadata {
	switch c {
	case CodeValidation:
		return meta(http.StatusBadRequest, "validation failed", true)
	case CodeUnauthorized:
		return meta(http.StatusUnauthorized, "authentication required", false)
	case CodeForbidden:
		return meta(http.StatusForbidden, "access denied", false)
	case CodeNotFound:
		return meta(http.StatusNotFound, "resource not found", false)
	case CodeConflict:
		return meta(http.StatusConflict, "conflict detected", false)
	case CodeStateConflict:
		return meta(http.StatusUnprocessableEntity, "state transition disallowed", true)
	case CodeIdempotency:
		return meta(http.StatusConflict, "idempotency key reused", true)
	case CodeRateLimit:
		return meta(http.StatusTooManyRequests, "rate limit exceeded", false)
	case CodeDependency:
		return meta(http.StatusServiceUnavailable, "dependency unavailable", true)
	default:
		return meta(http.StatusInternalServerError, "internal server error", false)
	}
}

// ClientFacing reports whether the error's own message may be shown to the
// caller instead of the generic public message.
func (c Code) ClientFacing() bool {
	status := c.Metadata().HTTPStatus
	return status >= 400 && status < 500
}

func MetadataFor(code Code) Metadata {
	return code.Metadata()
}

// Error is a coded error with an optional cause and client details.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to err, keeping err reachable through
// errors.Is / errors.As.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether the outermost typed error in err's chain has code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// FieldErrors is the details payload for validation failures, keyed by the
// JSON field name.
type FieldErrors map[string]string

// Validation builds a VALIDATION_ERROR carrying a single field detail.
func Validation(field, message string) *Error {
	return New(CodeValidation, message).WithDetails(FieldErrors{field: message})
}
