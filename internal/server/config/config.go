// Package config loads runtime configuration for the development API server.
// Sources and precedence mirror the client: defaults, then an optional JSON
// file (-c/-config), then command-line flags.
package config

import "time"

// Config holds runtime settings for the development API server.
type Config struct {
	// Addr is the host:port the HTTP server listens on.
	Addr string

	// DatabaseDSN is the SQLite DSN of the user database.
	DatabaseDSN string

	// JWTSecret signs access tokens. The default is fine for local
	// development only.
	JWTSecret string

	// JWTIssuer is the iss claim stamped into issued tokens.
	JWTIssuer string

	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration

	// SeedAdminEmail / SeedAdminPassword describe the administrator account
	// created on first start so the console has someone to log in as.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "localhost:8080"
	c.DatabaseDSN = "bannerdesk-server.db"
	c.JWTSecret = "dev-secret-do-not-use-in-production"
	c.JWTIssuer = "bannerdesk-dev"
	c.TokenTTL = 12 * time.Hour
	c.SeedAdminEmail = "admin@example.com"
	c.SeedAdminPassword = "admin12345"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
