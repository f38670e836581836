package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/daybook-app/daybook-api/config"
	"github.com/daybook-app/daybook-api/internal/adapters/devauth"
	"github.com/daybook-app/daybook-api/internal/adapters/oidc"
	redisadapter "github.com/daybook-app/daybook-api/internal/adapters/redis"
	"github.com/daybook-app/daybook-api/internal/ports"
	"github.com/daybook-app/daybook-api/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service for the configured identity
// provider mode.
func BuildAuthService(ctx context.Context, deps AuthDeps) (*service.AuthService, error) {
	provider, err := buildProvider(ctx, deps)
	if err != nil {
		return nil, err
	}

	var guard ports.RotationGuard
	if deps.RedisClient != nil {
		guard = redisadapter.NewRotationGuard(deps.RedisClient, deps.Auth.RotationGraceTTL)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Guard:    guard,
	}), nil
}

//nolint:ireturn // the port is the point: callers must not know the adapter.
func buildProvider(ctx context.Context, deps AuthDeps) (ports.IdentityProvider, error) {
	switch deps.Auth.Mode {
	case config.AuthModeDev:
		if deps.Logger != nil {
			deps.Logger.Warn("using dev identity provider; tokens are signed locally")
		}
		return devauth.NewProvider(devauth.Config{
			SigningSecret: deps.Auth.Dev.SigningSecret,
			UserID:        deps.Auth.Dev.UserID,
			Email:         deps.Auth.Dev.Email,
			TokenLifetime: deps.Auth.Dev.TokenLifetime,
		})

	case config.AuthModeOIDC:
		provider, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:       deps.Auth.Provider.ClientID,
			ClientSecret:   deps.Auth.Provider.ClientSecret,
			DiscoveryURL:   deps.Auth.Provider.DiscoveryURL,
			Scope:          deps.Auth.Provider.Scope,
			UserIDClaim:    deps.Auth.Provider.UserIDClaim,
			EmailClaim:     deps.Auth.Provider.EmailClaim,
			CreatedAtClaim: deps.Auth.Provider.CreatedAtClaim,
			Timeout:        deps.Auth.Provider.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", deps.Auth.Mode)
	}
}
