package oidc

// Package oidc implements the IdentityProvider port against an external
// OIDC/OAuth2 identity provider. Verification is a userinfo round-trip per
// request; validity is never cached because tokens can be revoked
// out-of-band.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// ProviderConfig holds configuration for the OIDC provider adapter.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	DiscoveryURL string
	Scope        string

	// Claim paths for mapping provider claims onto the application identity.
	UserIDClaim    string
	EmailClaim     string
	CreatedAtClaim string

	// Timeout bounds every provider round-trip.
	Timeout time.Duration

	HTTPClient *http.Client // Optional, defaults to a timeout-bounded client
}

// Provider implements ports.IdentityProvider using OIDC discovery plus
// OAuth2 password and refresh-token grants.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	claims     *claimMapper

	userinfoEndpoint   string
	revocationEndpoint string
}

// endpointClaims is the subset of the discovery document the adapter needs
// beyond what go-oidc exposes directly.
type endpointClaims struct {
	UserinfoEndpoint   string `json:"userinfo_endpoint"`
	RevocationEndpoint string `json:"revocation_endpoint"`
}

// NewProvider creates the adapter with a single discovery fetch.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	mapper, err := newClaimMapper(cfg)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	var endpoints endpointClaims
	if claimsErr := op.Claims(&endpoints); claimsErr != nil {
		return nil, fmt.Errorf("decode discovery document: %w", claimsErr)
	}
	if endpoints.UserinfoEndpoint == "" {
		return nil, errors.New("identity provider does not advertise a userinfo endpoint")
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:         httpClient,
		claims:             mapper,
		userinfoEndpoint:   endpoints.UserinfoEndpoint,
		revocationEndpoint: endpoints.RevocationEndpoint,
	}, nil
}

// Verify checks the access token against the provider's userinfo endpoint.
// A 401/403 from the provider is a rejection (UNAUTHORIZED); any transport
// failure or unexpected status is provider unavailability (INTERNAL), since
// an unreachable identity provider is not proof of an invalid token.
func (p *Provider) Verify(ctx context.Context, accessToken string) (domainauth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoEndpoint, nil)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.KindInternal,
			"Identity provider is unavailable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domainauth.Identity{}, apperrors.Unauthorized("Invalid or expired authorization token")
	case resp.StatusCode != http.StatusOK:
		return domainauth.Identity{}, apperrors.Wrapf(
			fmt.Errorf("userinfo returned status %d", resp.StatusCode),
			apperrors.KindInternal, "Identity provider is unavailable")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.KindInternal,
			"Identity provider is unavailable")
	}

	identity, err := p.claims.identityFromJSON(body)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.KindInternal, "")
	}
	if identity.IsZero() {
		return domainauth.Identity{}, apperrors.Unauthorized("Invalid or expired authorization token")
	}
	return identity, nil
}

// Login exchanges credentials for a session using the password grant.
func (p *Provider) Login(ctx context.Context, email, password string) (domainauth.Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return domainauth.Session{}, classifyTokenError(err, "Invalid email or password")
	}
	return p.sessionFromToken(ctx, token)
}

// Refresh rotates a refresh token into a new session.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (domainauth.Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return domainauth.Session{}, classifyTokenError(err, "Invalid or expired refresh token")
	}
	return p.sessionFromToken(ctx, token)
}

// Revoke invalidates an access token at the provider's revocation endpoint,
// when one is advertised. Best effort.
func (p *Provider) Revoke(ctx context.Context, accessToken string) error {
	if p.revocationEndpoint == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", accessToken)
	form.Set("token_type_hint", "access_token")
	form.Set("client_id", p.config.ClientID)
	if p.config.ClientSecret != "" {
		form.Set("client_secret", p.config.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revocationEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("revoke token: status %d", resp.StatusCode)
	}
	return nil
}

// sessionFromToken builds a Session from an issued token, verifying the
// access token once to resolve the identity it belongs to.
func (p *Provider) sessionFromToken(ctx context.Context, token *oauth2.Token) (domainauth.Session, error) {
	identity, err := p.Verify(ctx, token.AccessToken)
	if err != nil {
		return domainauth.Session{}, err
	}

	expiresAt := token.Expiry.Unix()
	if token.Expiry.IsZero() {
		expiresAt = time.Now().Add(time.Hour).Unix()
	}

	return domainauth.Session{
		User:         identity,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// classifyTokenError separates provider rejection of a grant (UNAUTHORIZED)
// from provider unavailability (INTERNAL).
func classifyTokenError(err error, rejectionMessage string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := retrieveErr.Response.StatusCode
		if status == http.StatusBadRequest || status == http.StatusUnauthorized ||
			status == http.StatusForbidden {
			return apperrors.Wrap(err, apperrors.KindUnauthorized, rejectionMessage)
		}
	}
	return apperrors.Wrap(err, apperrors.KindInternal, "Identity provider is unavailable")
}

// decodeClaims parses a claims document into the generic shape JMESPath
// evaluates against.
func decodeClaims(body []byte) (any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode userinfo claims: %w", err)
	}
	return data, nil
}
