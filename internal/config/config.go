// Package config loads the simulator's process configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then .env files and
// WHEELSIM_* environment variables. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/wheelsim/internal/logging"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport kinds.
const (
	TransportZMQ    = "zmq"
	TransportRedis  = "redis"
	TransportMemory = "memory"
)

var (
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds every externally supplied setting.
type Config struct {
	Transport   string `yaml:"transport" env:"WHEELSIM_TRANSPORT"`
	Endpoint    string `yaml:"endpoint" env:"WHEELSIM_ENDPOINT"`
	RedisURL    string `yaml:"redis_url" env:"WHEELSIM_REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" env:"WHEELSIM_REDIS_PREFIX"`

	// ClaimTTL bounds how long the redis controller claim outlives a silent simulator.
	ClaimTTL time.Duration `yaml:"claim_ttl" env:"WHEELSIM_CLAIM_TTL"`

	PollInterval time.Duration `yaml:"poll_interval" env:"WHEELSIM_POLL_INTERVAL"`
	Drain        bool          `yaml:"drain" env:"WHEELSIM_DRAIN"`

	ArrivalTicks int  `yaml:"arrival_ticks" env:"WHEELSIM_ARRIVAL_TICKS"`
	TicksPerNode int  `yaml:"ticks_per_node" env:"WHEELSIM_TICKS_PER_NODE"`
	AnnounceStop bool `yaml:"announce_stop" env:"WHEELSIM_ANNOUNCE_STOP"`

	LogLevel  string `yaml:"log_level" env:"WHEELSIM_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"WHEELSIM_LOG_FORMAT"`

	// StatusAddr enables the status/metrics HTTP server when non-empty (e.g. ":2112").
	StatusAddr string `yaml:"status_addr" env:"WHEELSIM_STATUS_ADDR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Transport:    TransportZMQ,
		Endpoint:     "tcp://*:5556",
		RedisURL:     "redis://localhost:6379/0",
		RedisPrefix:  "wheelsim:",
		ClaimTTL:     10 * time.Second,
		PollInterval: time.Second,
		ArrivalTicks: 5,
		LogLevel:     "info",
		LogFormat:    "auto",
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional) and the
// environment. envFiles are loaded into the environment first; with none, ./.env is
// loaded when present. Variables already set in the environment win over .env files.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading env files: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, cfg.Validate()
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for values the simulator cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport {
	case TransportZMQ, TransportMemory:
		if c.Transport == TransportZMQ && c.Endpoint == "" {
			errs = append(errs, errors.New("endpoint is required for the zmq transport"))
		}
	case TransportRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis_url is required for the redis transport"))
		}
		if c.ClaimTTL <= 0 {
			errs = append(errs, fmt.Errorf("claim_ttl must be positive, got %s", c.ClaimTTL))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.ArrivalTicks < 1 {
		errs = append(errs, fmt.Errorf("arrival_ticks must be at least 1, got %d", c.ArrivalTicks))
	}
	if c.TicksPerNode < 0 {
		errs = append(errs, fmt.Errorf("ticks_per_node must not be negative, got %d", c.TicksPerNode))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
