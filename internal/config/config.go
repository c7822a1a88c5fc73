// Package config loads adhistory settings from ADHISTORY_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the store and the CLI.
type Config struct {
	DatabasePath    string        `env:"ADHISTORY_DATABASE_PATH"    envDefault:"adhistory.db"`
	RetentionPeriod time.Duration `env:"ADHISTORY_RETENTION_PERIOD" envDefault:"720h"`
	BatchSize       int           `env:"ADHISTORY_BATCH_SIZE"       envDefault:"50"`
	PurgeInterval   time.Duration `env:"ADHISTORY_PURGE_INTERVAL"   envDefault:"1h"`
	MetricsAddr     string        `env:"ADHISTORY_METRICS_ADDR"`
	LogLevel        string        `env:"ADHISTORY_LOG_LEVEL"        envDefault:"info"`
}

// Load reads the process environment and validates the result.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads from the given variables instead of the process
// environment. Used by tests.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the store cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.RetentionPeriod <= 0 {
		errs = append(errs, fmt.Errorf("retention period must be positive, got %s", c.RetentionPeriod))
	}
	if c.PurgeInterval <= 0 {
		errs = append(errs, fmt.Errorf("purge interval must be positive, got %s", c.PurgeInterval))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
