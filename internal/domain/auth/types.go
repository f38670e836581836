package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	// UserID is the stable user identifier (e.g., sub claim).
	UserID    string
	Email     string
	CreatedAt time.Time
}

// IsZero reports whether the identity carries no principal.
func (i Identity) IsZero() bool { return i.UserID == "" }

// Session is the token bundle issued by the identity provider at login or
// refresh time. Nothing is persisted server-side; validity is delegated to
// the provider on every request.
type Session struct {
	User         Identity
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the absolute access-token expiry in seconds since epoch.
	ExpiresAt int64
}

// TTL returns the remaining access-token lifetime relative to now, floored
// at zero so an already-expired session never yields a negative duration.
func (s Session) TTL(now time.Time) time.Duration {
	remaining := s.ExpiresAt - now.Unix()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining) * time.Second
}
