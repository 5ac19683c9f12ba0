// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds process configuration sourced from environment variables.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"FLIPOUT_ADDR" envDefault:":3000"`

	// LogLevel is a logrus level name (trace..panic).
	LogLevel string `env:"FLIPOUT_LOG_LEVEL" envDefault:"info"`

	// RedisAddr enables action-history publishing when non-empty.
	RedisAddr string `env:"FLIPOUT_REDIS_ADDR"`

	// ResumeSecret enables resume-token verification on reconnect when
	// non-empty.
	ResumeSecret string `env:"FLIPOUT_RESUME_SECRET"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
