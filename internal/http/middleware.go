package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
	"github.com/daybook-app/daybook-api/internal/observability/metrics"
	"github.com/daybook-app/daybook-api/internal/observability/statsd"
)

// Middleware is a standard http.Handler decorator.
type Middleware func(http.Handler) http.Handler

// RequestID returns a middleware that tags every request with an id and
// exposes it via the X-Request-Id response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type requestIDKey struct{}

// RequestIDFromContext returns the request id, or "" when middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Logging returns a middleware that builds the request-scoped logger and logs
// request completion. The completion log records the status even for
// client-caused failures that are not logged as errors.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}

			reqLogger := logger
			if id := RequestIDFromContext(r.Context()); id != "" {
				reqLogger = logger.With(slog.String("request_id", id))
			}
			r = r.WithContext(SetLoggerInContext(r.Context(), reqLogger))

			next.ServeHTTP(ww, r)
			reqLogger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Metrics returns a middleware emitting a counter and latency timing per
// completed request. A nil sink disables emission.
func Metrics(sink statsd.Sink) Middleware {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			metrics.EmitRequest(sink, metrics.RequestMetric{
				Method:   r.Method,
				Status:   ww.status,
				Duration: time.Since(start),
			})
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that converts panics into resolved internal
// errors. Routing through the boundary keeps CORS headers on the response
// even for abnormal control flow.
func Recover(logger *slog.Logger, boundary *Boundary) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", rec),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					boundary.WriteFailure(w, r, fmt.Errorf("panic: %v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS returns a middleware implementing the credentialed cross-origin
// policy. Allowed origins are echoed back verbatim with the allow-credentials
// flag; disallowed origins get no CORS headers at all. Preflight requests are
// answered here and never reach a handler.
func CORS(patterns []OriginPattern) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed := Authorize(r.Header.Get("Origin"), patterns)
			applyCORSHeaders(w, allowed)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed != "" {
					h := w.Header()
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					h.Set("Access-Control-Max-Age", "600")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator resolves a caller identity from the supported credential
// transports.
type Authenticator interface {
	Authenticate(ctx context.Context, headerValue, cookieValue string) (domainauth.Identity, error)
}

// RequireAuth returns a middleware that requires authentication on the routes
// that declare it. The authenticated identity is added to the request context;
// failures flow through the error boundary so they carry origin headers.
func RequireAuth(auth Authenticator, boundary *Boundary) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"), readCookie(r, AccessTokenCookie))
			if err != nil {
				boundary.WriteFailure(w, r, err)
				return
			}
			ctx := SetIdentityInContext(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Chain composes middlewares outermost-first around a handler.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
