package config

import (
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library, parsed once at startup, and threaded
// through constructors as an explicit value. See individual domain config
// files for details on available environment variables:
//   - auth.go: identity provider and token lifecycle configuration
//   - http.go: HTTP server, origin allow-list, and cookie configuration
//   - database.go: Postgres and Redis configuration
//   - observability.go: StatsD metrics configuration
type AppConfig struct {
	// Env names the runtime environment (development, staging, production).
	Env string `env:"APP_ENV" envDefault:"development"`

	// LogLevel controls the slog level (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Authentication configuration
	Auth AuthConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Metrics emission
	Statsd StatsdConfig `envPrefix:"STATSD_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.detectEnv()
}

// IsDev reports whether the process runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// SlogLevel maps the configured log level onto slog's leveler.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// detectEnv checks NODE_ENV as a fallback (common in frontend tooling).
func (c *AppConfig) detectEnv() {
	if c.Env != "" && c.Env != "development" {
		return
	}
	nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
	if nodeEnv == "production" {
		c.Env = "production"
	}
}
