// Package config loads runtime settings for the client. Sources are
// applied in order of increasing precedence: built-in defaults, a JSON
// file (-c/-config), then command-line flags.
package config

import "time"

// Config holds runtime settings for the client.
//
// RequestTimeout bounds each HTTP request to the auth backend; zero
// disables the client-side bound.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	SecretPath     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.yourdomain.com"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "client.db"
	c.SecretPath = "client.secret"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
