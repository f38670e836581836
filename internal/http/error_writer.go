package httpx

import (
	"log/slog"
	"net/http"

	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// Boundary is the top-level error boundary shared by every route. Handlers
// return errors instead of writing failure responses themselves; the boundary
// is the only place failures are translated to wire format.
//
// It runs outside the normal middleware chain: a failure may occur before the
// CORS middleware attached response headers (including inside origin or auth
// resolution), so the boundary re-derives the allowed origin from the
// request's own Origin header and reattaches the headers itself.
type Boundary struct {
	Origins []OriginPattern
}

// HandlerFunc is an http.HandlerFunc that reports failure instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts a failure-returning handler into an http.Handler routed
// through the boundary.
func (b *Boundary) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			b.WriteFailure(w, r, err)
		}
	})
}

// WriteFailure resolves any failure into the uniform error body and emits it
// with origin-aware headers. Errors at status >= 500 are logged with their
// cause attached; lower statuses represent expected client-caused conditions
// and are left to the request-completion log.
func (b *Boundary) WriteFailure(w http.ResponseWriter, r *http.Request, err error) {
	// Derive the allowed origin from the request, not from any value cached in
	// the failed flow.
	applyCORSHeaders(w, Authorize(r.Header.Get("Origin"), b.Origins))

	res := apperrors.Resolve(err)
	if res.ShouldLog {
		logger := LoggerFromContext(r.Context())
		logger.LogAttrs(r.Context(), slog.LevelError, "request failed", res.LogAttrs...)
	}
	WriteJSON(w, res.Status, res.Body)
}

// applyCORSHeaders attaches the credentialed CORS response headers for an
// authorized origin. A denied origin attaches nothing; the wildcard value is
// never emitted.
func applyCORSHeaders(w http.ResponseWriter, allowedOrigin string) {
	if allowedOrigin == "" {
		return
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Add("Vary", "Origin")
}
