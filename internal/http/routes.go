package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/daybook-app/daybook-api/internal/observability/statsd"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthService
	Entries      EntryService
	Origins      []OriginPattern
	CookieDomain string
	Logger       *slog.Logger
	// Metrics receives per-request counters and timings. Optional.
	Metrics statsd.Sink
	// Now pins the clock for cookie lifetimes in tests. Optional.
	Now func() time.Time
}

// NewRouter wires the request trust boundary around the route table. Per
// request the ordering is: request id and request-scoped logger, panic
// recovery, origin authorization, then authentication on the routes that
// declare it, then the handler. The error boundary reattaches origin headers
// independently, so failures raised at any point in that sequence still leave
// the process with correct CORS headers.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	boundary := &Boundary{Origins: services.Origins}
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Now:          services.Now,
		}
		authed := RequireAuth(services.Auth, boundary)

		mux.Handle("POST /auth/login", boundary.Handle(authHandlers.Login))
		mux.Handle("POST /auth/refresh", boundary.Handle(authHandlers.Refresh))
		mux.Handle("POST /auth/logout", boundary.Handle(authHandlers.Logout))
		mux.Handle("GET /auth/me", authed(boundary.Handle(authHandlers.Me)))

		if services.Entries != nil {
			entryHandlers := &EntryHandlers{Svc: services.Entries}
			mux.Handle("GET /api/entries", authed(boundary.Handle(entryHandlers.List)))
			mux.Handle("POST /api/entries", authed(boundary.Handle(entryHandlers.Create)))
			mux.Handle("GET /api/entries/{id}", authed(boundary.Handle(entryHandlers.Get)))
			mux.Handle("DELETE /api/entries/{id}", authed(boundary.Handle(entryHandlers.Delete)))
		}
	}

	return Chain(mux,
		RequestID(),
		Logging(logger),
		Metrics(services.Metrics),
		Recover(logger, boundary),
		CORS(services.Origins),
	)
}
