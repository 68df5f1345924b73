// Package server provides configuration loading with runtime defaults and
// sanitization for the egg race service.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Port              string        `env:"SERVER_PORT" envDefault:":8080"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080"`
	MaxMessageSize    int64         `env:"MAX_MESSAGE_SIZE" envDefault:"512"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"8"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1s"`
	TurnAdvanceDelay  time.Duration `env:"TURN_ADVANCE_DELAY" envDefault:"800ms"`
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for anything unset or out of range.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}

// NewConfig returns a Config populated with defaults only.
func NewConfig() *Config {
	cfg := &Config{
		Port:              ":8080",
		AllowedOrigins:    []string{"http://localhost:8080"},
		MaxMessageSize:    512,
		RateLimitBurst:    8,
		RateLimitInterval: time.Second,
		TurnAdvanceDelay:  800 * time.Millisecond,
	}
	return cfg
}

func (c *Config) sanitize() {
	for i := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(c.AllowedOrigins[i])
	}
	if c.Port == "" {
		c.Port = ":8080"
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 512
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 8
	}
	if c.RateLimitInterval <= 0 {
		c.RateLimitInterval = time.Second
	}
	if c.TurnAdvanceDelay < 0 {
		c.TurnAdvanceDelay = 800 * time.Millisecond
	}
}
