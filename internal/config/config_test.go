package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		DatabasePath:    "adhistory.db",
		RetentionPeriod: 30 * 24 * time.Hour,
		BatchSize:       50,
		PurgeInterval:   time.Hour,
		LogLevel:        "info",
	}, cfg)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ADHISTORY_DATABASE_PATH":    "/tmp/ads.db",
		"ADHISTORY_RETENTION_PERIOD": "168h",
		"ADHISTORY_BATCH_SIZE":       "10",
		"ADHISTORY_PURGE_INTERVAL":   "5m",
		"ADHISTORY_METRICS_ADDR":     ":9090",
		"ADHISTORY_LOG_LEVEL":        "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ads.db", cfg.DatabasePath)
	assert.Equal(t, 7*24*time.Hour, cfg.RetentionPeriod)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.PurgeInterval)
	assert.Equal(t, ":9090", cfg.MetricsAddr)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFrom_ParseError(t *testing.T) {
	_, err := LoadFrom(map[string]string{"ADHISTORY_BATCH_SIZE": "many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabasePath:    "ads.db",
		RetentionPeriod: time.Hour,
		BatchSize:       1,
		PurgeInterval:   time.Minute,
		LogLevel:        "warn",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"empty path", func(c *Config) { c.DatabasePath = "" }, "database path"},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "batch size"},
		{"negative retention", func(c *Config) { c.RetentionPeriod = -time.Hour }, "retention period"},
		{"zero purge interval", func(c *Config) { c.PurgeInterval = 0 }, "purge interval"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)

	for _, msg := range []string{"database path", "batch size", "retention period", "purge interval"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestLevel_EmptyIsInfo(t *testing.T) {
	level, err := Config{}.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
