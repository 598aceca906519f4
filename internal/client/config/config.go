package config

import "time"

// Config holds runtime settings for the admin console CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API, e.g. "http://localhost:8080".
//   - SessionDBPath: path to the SQLite file holding the shared session.
//   - WatchInterval: how often a process polls the session file for changes
//     made by other console processes.
//
// Units: WatchInterval is a time.Duration (e.g., 2*time.Second).
type Config struct {
	ServerBaseURL string
	SessionDBPath string
	WatchInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.SessionDBPath = "bannerdesk.db"
	c.WatchInterval = 2 * time.Second
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
