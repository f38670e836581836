package service

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
	"github.com/daybook-app/daybook-api/internal/ports"
)

// Credential is a bearer token extracted from one of the supported request
// transports.
type Credential struct {
	Token string
}

// CredentialExtractor inspects one transport and reports whether it carried a
// credential. Extractors are composed left-to-right; the first hit wins.
type CredentialExtractor func(headerValue, cookieValue string) (Credential, bool)

// BearerHeaderExtractor reads "Authorization: Bearer <token>".
func BearerHeaderExtractor(headerValue, _ string) (Credential, bool) {
	token, ok := strings.CutPrefix(headerValue, "Bearer ")
	if !ok || token == "" {
		return Credential{}, false
	}
	return Credential{Token: token}, true
}

// CookieExtractor reads the access-token cookie value.
func CookieExtractor(_, cookieValue string) (Credential, bool) {
	if cookieValue == "" {
		return Credential{}, false
	}
	return Credential{Token: cookieValue}, true
}

// defaultExtractors orders the supported transports: the header always wins
// over the cookie, supporting a header-based native client and a cookie-based
// browser client against one API surface.
var defaultExtractors = []CredentialExtractor{
	BearerHeaderExtractor,
	CookieExtractor,
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	// Guard coalesces refresh rotations across instances. Optional; when nil
	// only in-process coalescing applies.
	Guard ports.RotationGuard
	// Extractors overrides the credential transport order. Optional.
	Extractors []CredentialExtractor
}

// AuthService validates caller credentials against the identity provider and
// manages the token lifecycle endpoints (login, refresh, logout).
type AuthService struct {
	provider   ports.IdentityProvider
	guard      ports.RotationGuard
	extractors []CredentialExtractor
	refreshes  singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	extractors := opts.Extractors
	if len(extractors) == 0 {
		extractors = defaultExtractors
	}
	return &AuthService{
		provider:   opts.Provider,
		guard:      opts.Guard,
		extractors: extractors,
	}
}

// Authenticate extracts a bearer credential from the request transports and
// verifies it with the identity provider. It fails with UNAUTHORIZED when no
// credential is present (before any provider call), when the provider rejects
// the token, or when the provider returns no associated identity. Provider
// unavailability surfaces as INTERNAL_SERVER_ERROR: an unreachable identity
// provider is not proof of an invalid token.
func (s *AuthService) Authenticate(
	ctx context.Context,
	headerValue, cookieValue string,
) (domainauth.Identity, error) {
	cred, ok := s.extract(headerValue, cookieValue)
	if !ok {
		return domainauth.Identity{}, apperrors.Unauthorized("Missing authorization token")
	}

	identity, err := s.provider.Verify(ctx, cred.Token)
	if err != nil {
		// Adapters author the kind: UNAUTHORIZED for rejection, INTERNAL for
		// unavailability. Anything unclassified is treated as unavailability.
		if apperrors.GetKind(err) != "" {
			return domainauth.Identity{}, err
		}
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.KindInternal, "")
	}
	if identity.IsZero() {
		return domainauth.Identity{}, apperrors.Unauthorized("Invalid or expired authorization token")
	}
	return identity, nil
}

func (s *AuthService) extract(headerValue, cookieValue string) (Credential, bool) {
	for _, extract := range s.extractors {
		if cred, ok := extract(headerValue, cookieValue); ok {
			return cred, true
		}
	}
	return Credential{}, false
}

// Login exchanges credentials for a fresh session via the identity provider.
func (s *AuthService) Login(ctx context.Context, email, password string) (domainauth.Session, error) {
	var issues []apperrors.Issue
	if email == "" {
		issues = append(issues, apperrors.Issue{Path: []string{"email"}, Message: "is required"})
	}
	if password == "" {
		issues = append(issues, apperrors.Issue{Path: []string{"password"}, Message: "is required"})
	}
	if len(issues) > 0 {
		return domainauth.Session{}, apperrors.FromValidationIssues(issues)
	}
	return s.provider.Login(ctx, email, password)
}

// RefreshSession rotates a refresh token into a new session. Concurrent calls
// for the same token are coalesced into a single in-flight rotation so a
// refresh token is never invalidated against itself; the optional guard
// extends the same protection across process instances.
func (s *AuthService) RefreshSession(
	ctx context.Context,
	refreshToken string,
) (domainauth.Session, error) {
	if refreshToken == "" {
		return domainauth.Session{}, apperrors.Unauthorized("Missing refresh token")
	}

	v, err, _ := s.refreshes.Do(refreshToken, func() (any, error) {
		return s.rotate(ctx, refreshToken)
	})
	if err != nil {
		return domainauth.Session{}, err
	}
	return v.(domainauth.Session), nil
}

func (s *AuthService) rotate(ctx context.Context, refreshToken string) (domainauth.Session, error) {
	if s.guard != nil {
		if sess, rotated, err := s.guard.Claim(ctx, refreshToken); err == nil && rotated {
			return sess, nil
		}
	}

	sess, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return domainauth.Session{}, err
	}

	if s.guard != nil {
		// Guard failures are not fatal: the rotation already succeeded.
		_ = s.guard.Store(ctx, refreshToken, sess)
	}
	return sess, nil
}

// Logout revokes the access token at the provider. Best effort; a missing
// token is not an error since there is no server-side state to unwind.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return s.provider.Revoke(ctx, accessToken)
}
