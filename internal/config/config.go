// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Zachkp/portfolio/internal/contact"
)

const (
	SubmitSimulate = "simulate"
	SubmitSMTP     = "smtp"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ContentPath points at a site YAML file; empty serves the built-in site.
	ContentPath  string `env:"PORTFOLIO_CONTENT_PATH"`
	WatchContent bool   `env:"PORTFOLIO_WATCH_CONTENT" envDefault:"true"`

	SubmitMode  string        `env:"PORTFOLIO_SUBMIT_MODE" envDefault:"simulate"`
	SubmitDelay time.Duration `env:"PORTFOLIO_SUBMIT_DELAY" envDefault:"2s"`

	SMTP contact.SMTPConfig
}

// Load parses the environment and checks the values that have a fixed set
// of choices.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.SubmitMode {
	case SubmitSimulate, SubmitSMTP:
	default:
		return Config{}, fmt.Errorf("PORTFOLIO_SUBMIT_MODE must be %q or %q, got %q", SubmitSimulate, SubmitSMTP, cfg.SubmitMode)
	}
	if cfg.SubmitDelay < 0 {
		return Config{}, fmt.Errorf("PORTFOLIO_SUBMIT_DELAY must not be negative, got %s", cfg.SubmitDelay)
	}
	return cfg, nil
}
