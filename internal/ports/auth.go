package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
)

// IdentityProvider is the external service of record for token validity and
// session issuance. The API itself is stateless with respect to sessions:
// every verification is delegated to the provider, since tokens can be
// revoked out-of-band.
//
// Implementations must distinguish provider rejection (invalid token) from
// provider unavailability; the two are reported as different error kinds and
// must never be conflated.
type IdentityProvider interface {
	// Verify checks an access token in a single round-trip and returns the
	// identity it belongs to.
	Verify(ctx context.Context, accessToken string) (domainauth.Identity, error)

	// Login exchanges credentials for a fresh session.
	Login(ctx context.Context, email, password string) (domainauth.Session, error)

	// Refresh rotates a refresh token into a new session, invalidating the
	// presented token.
	Refresh(ctx context.Context, refreshToken string) (domainauth.Session, error)

	// Revoke invalidates an access token server-side. Best effort.
	Revoke(ctx context.Context, accessToken string) error
}

// RotationGuard coalesces refresh-token rotations across process instances.
// Claim either records the caller as the one performing the rotation or
// returns the session another caller already rotated to.
type RotationGuard interface {
	Claim(ctx context.Context, refreshToken string) (domainauth.Session, bool, error)
	Store(ctx context.Context, refreshToken string, sess domainauth.Session) error
}
