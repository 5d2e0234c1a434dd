// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/circlefund/pkg/logging"
)

// Config is the circlefund server configuration.
type Config struct {
	Addr   string `env:"CIRCLEFUND_ADDR"    envDefault:":8080"`
	DBPath string `env:"CIRCLEFUND_DB_PATH" envDefault:"./data/circlefund.db"`

	JWTSecret string        `env:"CIRCLEFUND_JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"CIRCLEFUND_TOKEN_TTL"                    envDefault:"24h"`

	// Admin owns the treasury, revenue params and automation state, and is
	// the principal the automation runner triggers as.
	Admin     string   `env:"CIRCLEFUND_ADMIN,required,notEmpty"`
	Oracles   []string `env:"CIRCLEFUND_ORACLES"                 envSeparator:","`
	Verifiers []string `env:"CIRCLEFUND_VERIFIERS"               envSeparator:","`

	AutomationEnabled     bool          `env:"CIRCLEFUND_AUTOMATION_ENABLED"      envDefault:"true"`
	AutomationSpec        string        `env:"CIRCLEFUND_AUTOMATION_SPEC"         envDefault:"@every 1m"`
	AutomationMinInterval time.Duration `env:"CIRCLEFUND_AUTOMATION_MIN_INTERVAL" envDefault:"1h"`

	RateLimit float64 `env:"CIRCLEFUND_RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"CIRCLEFUND_RATE_BURST" envDefault:"40"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("CIRCLEFUND_JWT_SECRET must be at least 32 bytes"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("CIRCLEFUND_TOKEN_TTL must be positive"))
	}
	if c.AutomationMinInterval < 0 {
		errs = append(errs, errors.New("CIRCLEFUND_AUTOMATION_MIN_INTERVAL cannot be negative"))
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("CIRCLEFUND_RATE_LIMIT and CIRCLEFUND_RATE_BURST must be positive"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
