package config

// StatsdConfig controls the StatsD metrics emitter. Disabled by default so
// local development does not dial a sink that is not there.
type StatsdConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR"    envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"daybook.api"`
}
