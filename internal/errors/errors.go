package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of application error categories. Every error that
// reaches a caller carries exactly one Kind; the wire code, HTTP status, and
// default message are all derived from it.
type Kind string

const (
	// KindBadRequest indicates malformed or failed-validation input.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindUnauthorized indicates a missing, invalid, or expired credential.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindForbidden indicates an authenticated but disallowed caller.
	KindForbidden Kind = "FORBIDDEN"
	// KindNotFound indicates a missing resource.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict indicates a state conflict (e.g., duplicate registration).
	KindConflict Kind = "CONFLICT"
	// KindInternal indicates anything unclassified or an upstream dependency failure.
	KindInternal Kind = "INTERNAL_SERVER_ERROR"
)

// kindStatus binds each Kind to its HTTP status code.
var kindStatus = map[Kind]int{
	KindBadRequest:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindInternal:     http.StatusInternalServerError,
}

// kindMessage binds each Kind to its default human-readable message.
var kindMessage = map[Kind]string{
	KindBadRequest:   "Invalid request",
	KindUnauthorized: "Authentication required",
	KindForbidden:    "Access denied",
	KindNotFound:     "Resource not found",
	KindConflict:     "Resource conflict",
	KindInternal:     "An internal error occurred",
}

// Status returns the HTTP status code for the kind. Unknown kinds map to 500.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the default client-safe message for the kind.
func (k Kind) DefaultMessage() string {
	if m, ok := kindMessage[k]; ok {
		return m
	}
	return kindMessage[KindInternal]
}

// Detail is a single field-level error entry, used for validation feedback.
// Field may be empty for issues that are not tied to a specific field.
type Detail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AppError is the single authored error type crossing the trust boundary.
// It pairs a Kind with an optional override message, optional field-level
// details, and an optional underlying cause. The cause is retained for logs
// only and is never serialized to the client.
type AppError struct {
	Kind    Kind
	Message string
	Details []Detail
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.clientMessage(), e.Cause)
	}
	return e.clientMessage()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Cause }

// clientMessage returns the message safe to surface to a caller.
func (e *AppError) clientMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.DefaultMessage()
}

// WithDetail returns the error with an extra field-level detail appended.
func (e *AppError) WithDetail(field, message string) *AppError {
	e.Details = append(e.Details, Detail{Field: field, Message: message})
	return e
}

// New creates an AppError of the given kind. An empty message falls back to
// the kind's default at serialization time.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// BadRequest creates a BAD_REQUEST error.
func BadRequest(message string) *AppError { return New(KindBadRequest, message) }

// Unauthorized creates an UNAUTHORIZED error.
func Unauthorized(message string) *AppError { return New(KindUnauthorized, message) }

// Forbidden creates a FORBIDDEN error.
func Forbidden(message string) *AppError { return New(KindForbidden, message) }

// NotFound creates a NOT_FOUND error.
func NotFound(message string) *AppError { return New(KindNotFound, message) }

// NotFoundf creates a NOT_FOUND error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Conflict creates a CONFLICT error.
func Conflict(message string) *AppError { return New(KindConflict, message) }

// Internal creates an INTERNAL_SERVER_ERROR error.
func Internal(message string) *AppError { return New(KindInternal, message) }

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, kind Kind, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: kind, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) *AppError {
	return Wrap(err, kind, fmt.Sprintf(format, args...))
}

// isKind checks if an error has a specific kind.
func isKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsUnauthorized checks if an error is an UNAUTHORIZED error.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsForbidden checks if an error is a FORBIDDEN error.
func IsForbidden(err error) bool { return isKind(err, KindForbidden) }

// IsNotFound checks if an error is a NOT_FOUND error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsConflict checks if an error is a CONFLICT error.
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsBadRequest checks if an error is a BAD_REQUEST error.
func IsBadRequest(err error) bool { return isKind(err, KindBadRequest) }

// GetKind returns the Kind from an error, or empty string if not an AppError.
func GetKind(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
