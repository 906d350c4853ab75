package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/wheelsim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "tcp://*:5556", cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.PollInterval)
}

func TestLoad_File(t *testing.T) {
	cfg, err := config.Load("testdata/wheelsim.yaml")
	require.NoError(t, err)

	assert.Equal(t, config.TransportRedis, cfg.Transport)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "chair7:", cfg.RedisPrefix)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 3, cfg.ArrivalTicks)
	assert.Equal(t, 1, cfg.TicksPerNode)
	assert.True(t, cfg.AnnounceStop)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":2112", cfg.StatusAddr)
	// Untouched keys keep their defaults.
	assert.Equal(t, "tcp://*:5556", cfg.Endpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("WHEELSIM_POLL_INTERVAL", "2s")
	t.Setenv("WHEELSIM_LOG_LEVEL", "warn")

	cfg, err := config.Load("testdata/wheelsim.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.ArrivalTicks)
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv sets real process variables; clear them afterwards.
	t.Cleanup(func() {
		os.Unsetenv("WHEELSIM_ARRIVAL_TICKS")
		os.Unsetenv("WHEELSIM_DRAIN")
	})

	cfg, err := config.Load("", "testdata/test.env")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.ArrivalTicks)
	assert.True(t, cfg.Drain)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pol_interval: 1s\n"), 0o600))
		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("Missing env file", func(t *testing.T) {
		_, err := config.Load("", filepath.Join(dir, "missing.env"))
		assert.Error(t, err)
	})

	t.Run("Empty file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"Unknown transport", func(c *config.Config) { c.Transport = "carrier-pigeon" }},
		{"Zero interval", func(c *config.Config) { c.PollInterval = 0 }},
		{"Negative ticks", func(c *config.Config) { c.ArrivalTicks = -1 }},
		{"Zero arrival ticks", func(c *config.Config) { c.ArrivalTicks = 0 }},
		{"Negative ticks per node", func(c *config.Config) { c.TicksPerNode = -2 }},
		{"Unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
		{"Unknown log level", func(c *config.Config) { c.LogLevel = "chatty" }},
		{"Zero claim ttl", func(c *config.Config) { c.Transport = config.TransportRedis; c.ClaimTTL = 0 }},
		{"Empty endpoint", func(c *config.Config) { c.Endpoint = "" }},
		{"Empty redis url", func(c *config.Config) { c.Transport = config.TransportRedis; c.RedisURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}

	assert.NoError(t, config.Default().Validate())

	t.Run("Known formats", func(t *testing.T) {
		for _, format := range []string{"", "auto", "text", "JSON"} {
			cfg := config.Default()
			cfg.LogFormat = format
			assert.NoError(t, cfg.Validate(), format)
		}
	})
}
