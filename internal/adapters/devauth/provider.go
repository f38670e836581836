package devauth

// Package devauth provides a local IdentityProvider for development: tokens
// are HS256-signed JWTs issued and verified in-process, so no external
// provider is needed to exercise the trust boundary.

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// Config controls the dev auth provider behavior.
type Config struct {
	SigningSecret string
	UserID        string
	Email         string
	TokenLifetime time.Duration // default 1h when zero
}

// Provider implements ports.IdentityProvider with locally signed tokens. Any
// password is accepted for the configured identity; refresh tokens are JWTs
// with a dedicated use claim.
type Provider struct {
	secret   []byte
	identity domainauth.Identity
	lifetime time.Duration
	now      func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.SigningSecret == "" {
		return nil, errors.New("dev auth: SigningSecret is required")
	}
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	lifetime := cfg.TokenLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	return &Provider{
		secret: []byte(cfg.SigningSecret),
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			Email:     cfg.Email,
			CreatedAt: time.Now().UTC(),
		},
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

type devClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Use   string `json:"use"` // "access" or "refresh"
}

const (
	useAccess  = "access"
	useRefresh = "refresh"
)

// Verify parses and validates a locally issued access token.
func (p *Provider) Verify(_ context.Context, accessToken string) (domainauth.Identity, error) {
	claims, err := p.parse(accessToken, useAccess)
	if err != nil {
		return domainauth.Identity{}, err
	}
	return domainauth.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		CreatedAt: p.identity.CreatedAt,
	}, nil
}

// Login accepts any password for the configured identity and issues a session.
func (p *Provider) Login(_ context.Context, email, _ string) (domainauth.Session, error) {
	identity := p.identity
	if email != "" {
		identity.Email = email
	}
	return p.issue(identity)
}

// Refresh validates the refresh token and issues a fresh session.
func (p *Provider) Refresh(_ context.Context, refreshToken string) (domainauth.Session, error) {
	claims, err := p.parse(refreshToken, useRefresh)
	if err != nil {
		return domainauth.Session{}, err
	}
	return p.issue(domainauth.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		CreatedAt: p.identity.CreatedAt,
	})
}

// Revoke is a no-op: dev tokens expire on their own.
func (p *Provider) Revoke(context.Context, string) error { return nil }

func (p *Provider) issue(identity domainauth.Identity) (domainauth.Session, error) {
	now := p.now()
	expiresAt := now.Add(p.lifetime)

	access, err := p.sign(identity, useAccess, expiresAt)
	if err != nil {
		return domainauth.Session{}, err
	}
	refresh, err := p.sign(identity, useRefresh, now.Add(30*24*time.Hour))
	if err != nil {
		return domainauth.Session{}, err
	}

	return domainauth.Session{
		User:         identity,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.Unix(),
	}, nil
}

func (p *Provider) sign(identity domainauth.Identity, use string, expiresAt time.Time) (string, error) {
	claims := devClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: identity.Email,
		Use:   use,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Provider) parse(token, wantUse string) (*devClaims, error) {
	var claims devClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnauthorized, "Invalid or expired authorization token")
	}
	if claims.Use != wantUse {
		return nil, apperrors.Unauthorized("Invalid or expired authorization token")
	}
	return &claims, nil
}
