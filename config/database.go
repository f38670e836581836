package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"daybook"`
	Password string `env:"PASSWORD" envDefault:"daybook"`
	Name     string `env:"NAME"     envDefault:"daybook"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// RedisConfig contains Redis configuration. Redis backs the refresh-rotation
// replay guard; when disabled, rotation coalescing is in-process only.
type RedisConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"true"`
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
