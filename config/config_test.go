package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, AuthModeOIDC, cfg.Auth.Mode)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Auth.Provider.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Auth.RotationGraceTTL)
	assert.Equal(t, "sub", cfg.Auth.Provider.UserIDClaim)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("ALLOWED_ORIGINS", "*.daybook.io,https://app.daybook.io")
	t.Setenv("IDP_USER_ID_CLAIM", "user.id")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := parseConfig(t)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, AuthModeDev, cfg.Auth.Mode)
	assert.Equal(t, "*.daybook.io,https://app.daybook.io", cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "user.id", cfg.Auth.Provider.UserIDClaim)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.False(t, cfg.Redis.Enabled)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var mode AuthMode
	require.NoError(t, mode.UnmarshalText([]byte("OIDC")))
	assert.Equal(t, AuthModeOIDC, mode)

	require.NoError(t, mode.UnmarshalText([]byte("dev")))
	assert.Equal(t, AuthModeDev, mode)

	assert.Error(t, mode.UnmarshalText([]byte("saml")))
}

func TestInvalidAuthModeFailsParse(t *testing.T) {
	t.Setenv("AUTH_MODE", "ldap")
	var cfg AppConfig
	assert.Error(t, env.Parse(&cfg))
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Auth.Provider.Timeout = -1
	cfg.Auth.RotationGraceTTL = 0
	cfg.Sanitize()

	assert.Equal(t, 10*time.Second, cfg.Auth.Provider.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Auth.RotationGraceTTL)
	assert.Equal(t, time.Hour, cfg.Auth.Dev.TokenLifetime)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := AppConfig{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestDetectEnv_NodeEnvFallback(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	cfg := parseConfig(t)
	assert.Equal(t, "production", cfg.Env)
}
