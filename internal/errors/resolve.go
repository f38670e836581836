package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// HTTPError is a low-level error carrying its own HTTP status, raised by
// transport plumbing before a handler can author an AppError (e.g., a body
// size limit). It resolves like an AppError of the nearest kind.
type HTTPError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// Body is the wire shape of every error response:
// {"error":{"code","message","details"?}}.
type Body struct {
	Error Payload `json:"error"`
}

// Payload carries the stable code, a display-safe message, and optional
// field-level details.
type Payload struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

// Resolution is the wire-level materialization of a failure. Resolve is the
// only place that translates errors into this shape.
type Resolution struct {
	Status    int
	Body      Body
	ShouldLog bool
	LogAttrs  []slog.Attr
}

// Resolve classifies any raised failure into a uniform error response.
// Resolution order: authored AppErrors keep their kind's status and their own
// body and are logged only at status >= 500; HTTPErrors are treated the same
// way via their status; anything else is wrapped as INTERNAL_SERVER_ERROR,
// always logged, with the original error retained for diagnostics only.
func Resolve(err error) Resolution {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return resolveAppError(appErr)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return resolveAppError(&AppError{
			Kind:    kindForStatus(httpErr.Status),
			Message: httpErr.Message,
			Cause:   httpErr,
		})
	}

	// Unclassified failure: never leak the internal message to the client.
	res := resolveAppError(&AppError{Kind: KindInternal, Cause: err})
	res.LogAttrs = append(res.LogAttrs,
		slog.String("cause_type", fmt.Sprintf("%T", err)),
		slog.String("cause", err.Error()),
	)
	return res
}

func resolveAppError(appErr *AppError) Resolution {
	status := appErr.Kind.Status()
	res := Resolution{
		Status: status,
		Body: Body{Error: Payload{
			Code:    string(appErr.Kind),
			Message: appErr.clientMessage(),
			Details: appErr.Details,
		}},
		ShouldLog: status >= http.StatusInternalServerError,
		LogAttrs: []slog.Attr{
			slog.String("error_kind", string(appErr.Kind)),
			slog.Int("status", status),
			slog.String("message", appErr.clientMessage()),
		},
	}
	if len(appErr.Details) > 0 {
		res.LogAttrs = append(res.LogAttrs, slog.Any("details", appErr.Details))
	}
	if appErr.Cause != nil {
		res.LogAttrs = append(res.LogAttrs, slog.String("cause", appErr.Cause.Error()))
	}
	return res
}

// kindForStatus maps an HTTP status to the closest Kind in the taxonomy.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			return KindBadRequest
		}
		return KindInternal
	}
}

// Issue is a single structured input-validation failure: the path to the
// offending value and a message describing the problem.
type Issue struct {
	Path    []string
	Message string
}

// FromValidationIssues converts validation failures into a BAD_REQUEST
// AppError with one detail entry per issue. Path segments are joined with
// "."; an empty path omits the field rather than rendering an empty string.
func FromValidationIssues(issues []Issue) *AppError {
	appErr := BadRequest("Validation failed")
	for _, issue := range issues {
		appErr.Details = append(appErr.Details, Detail{
			Field:   strings.Join(issue.Path, "."),
			Message: issue.Message,
		})
	}
	return appErr
}
