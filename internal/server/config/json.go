package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpovs/bannerdesk/internal/flagx"
	"github.com/akarpovs/bannerdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling; durations may
// be strings like "12h" or integer nanoseconds.
type JsonConfig struct {
	Addr              string         `json:"addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	JWTSecret         string         `json:"jwt_secret"`
	JWTIssuer         string         `json:"jwt_issuer"`
	TokenTTL          timex.Duration `json:"token_ttl"`
	SeedAdminEmail    string         `json:"seed_admin_email"`
	SeedAdminPassword string         `json:"seed_admin_password"`
}

// parseJson overlays cfg with values from the JSON file selected via -c or
// -config. Absent fields keep their current values; read or unmarshal errors
// panic (startup-time only).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.JWTSecret != "" {
		cfg.JWTSecret = jc.JWTSecret
	}
	if jc.JWTIssuer != "" {
		cfg.JWTIssuer = jc.JWTIssuer
	}
	if jc.TokenTTL.Duration != 0 {
		cfg.TokenTTL = time.Duration(jc.TokenTTL.Duration)
	}
	if jc.SeedAdminEmail != "" {
		cfg.SeedAdminEmail = jc.SeedAdminEmail
	}
	if jc.SeedAdminPassword != "" {
		cfg.SeedAdminPassword = jc.SeedAdminPassword
	}
}
