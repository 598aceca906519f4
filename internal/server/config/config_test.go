package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "localhost:8080", c.Addr)
	assert.Equal(t, "bannerdesk-server.db", c.DatabaseDSN)
	assert.NotEmpty(t, c.JWTSecret)
	assert.Equal(t, 12*time.Hour, c.TokenTTL)
	assert.Equal(t, "admin@example.com", c.SeedAdminEmail)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.Equal(t, "bannerdesk-server.db", cfg.DatabaseDSN)
}
