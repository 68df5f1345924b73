package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("MAX_MESSAGE_SIZE", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("RATE_LIMIT_INTERVAL", "")
	t.Setenv("TURN_ADVANCE_DELAY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, int64(512), cfg.MaxMessageSize)
	assert.Equal(t, 8, cfg.RateLimitBurst)
	assert.Equal(t, time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 800*time.Millisecond, cfg.TurnAdvanceDelay)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9191")
	t.Setenv("ALLOWED_ORIGINS", "https://eggs.example.com, http://localhost:3000")
	t.Setenv("MAX_MESSAGE_SIZE", "1024")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_INTERVAL", "2s")
	t.Setenv("TURN_ADVANCE_DELAY", "100ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.Port)
	assert.Equal(t, []string{"https://eggs.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 2*time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.TurnAdvanceDelay)
}

func TestSanitizeRejectsNonPositiveValues(t *testing.T) {
	cfg := &Config{
		Port:              "",
		MaxMessageSize:    -1,
		RateLimitBurst:    0,
		RateLimitInterval: -time.Second,
		TurnAdvanceDelay:  -time.Second,
	}
	cfg.sanitize()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, int64(512), cfg.MaxMessageSize)
	assert.Equal(t, 8, cfg.RateLimitBurst)
	assert.Equal(t, time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 800*time.Millisecond, cfg.TurnAdvanceDelay)
}
