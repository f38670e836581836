package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the identity provider mode for the application.
type AuthMode string

const (
	// AuthModeOIDC delegates validation to an external OIDC identity provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeDev issues and verifies locally signed tokens (development only).
	AuthModeDev AuthMode = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "dev":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, dev)", v)
	}
}

// ProviderConfig contains the external identity provider settings.
type ProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"daybook"`
	ClientSecret string `env:"CLIENT_SECRET"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`

	// Claim paths are JMESPath expressions evaluated against the provider's
	// userinfo claims to build the application identity.
	UserIDClaim    string `env:"USER_ID_CLAIM"    envDefault:"sub"`
	EmailClaim     string `env:"EMAIL_CLAIM"      envDefault:"email"`
	CreatedAtClaim string `env:"CREATED_AT_CLAIM" envDefault:"created_at"`

	// Timeout bounds every provider round-trip. An unbounded validation call
	// under load is a latent availability risk.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// DevAuthConfig controls the local development identity provider.
type DevAuthConfig struct {
	SigningSecret string        `env:"SIGNING_SECRET" envDefault:"daybook-dev-secret"`
	UserID        string        `env:"USER_ID"        envDefault:"dev-user"`
	Email         string        `env:"EMAIL"          envDefault:"dev@example.com"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"1h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider adapter to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oidc"`

	// Provider configuration (used when Mode=oidc).
	Provider ProviderConfig `envPrefix:"IDP_"`

	// Dev configuration (used when Mode=dev).
	Dev DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// RotationGraceTTL is how long a completed refresh rotation is replayable
	// by concurrent callers holding the same (now-invalidated) refresh token.
	RotationGraceTTL time.Duration `env:"AUTH_ROTATION_GRACE_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Provider.Timeout <= 0 {
		a.Provider.Timeout = 10 * time.Second
	}
	if a.RotationGraceTTL <= 0 {
		a.RotationGraceTTL = 30 * time.Second
	}
	if a.Dev.TokenLifetime <= 0 {
		a.Dev.TokenLifetime = time.Hour
	}
}
