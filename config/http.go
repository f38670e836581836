package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// AllowedOrigins is a comma-separated list of origin patterns: exact
	// origins with scheme ("https://app.example.com") or wildcard subdomain
	// patterns ("*.example.com"). Parsed once at startup; empty falls back to
	// the single development origin.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:""`

	// CookieDomain is the domain for token cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}
