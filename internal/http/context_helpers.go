package httpx

import (
	"context"
	"log/slog"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across
// packages. Centralized in this file so all handlers/middleware use the same key.
type identityKey struct{}

type loggerKey struct{}

// SetIdentityInContext returns a child context carrying the authenticated
// identity. A zero identity leaves the context unchanged.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	if identity.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the authenticated identity and a boolean
// indicating presence.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	if identity, ok := ctx.Value(identityKey{}).(domainauth.Identity); ok && !identity.IsZero() {
		return identity, true
	}
	return domainauth.Identity{}, false
}

// SetLoggerInContext returns a child context carrying the request-scoped logger.
func SetLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the request-scoped logger, falling back to the
// process default when middleware did not run.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
