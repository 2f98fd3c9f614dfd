package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

// EnvAPIBase overrides backend.base_url when the config leaves it empty.
const EnvAPIBase = "BLOCKPHANTOM_API_BASE"

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*AppConfig, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a configuration with every default applied.
func Default() *AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return &cfg
}

func intPtr(v int) *int {
	return &v
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = os.Getenv(EnvAPIBase)
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8000"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}

	if cfg.Analysis.DefaultNetwork == "" {
		cfg.Analysis.DefaultNetwork = domain.NetworkCardano
	}

	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "ADA"
	}
	if cfg.Payment.Amount == 0 {
		cfg.Payment.Amount = 1_000_000
	}
	if cfg.Payment.PollInterval == 0 {
		cfg.Payment.PollInterval = 3 * time.Second
	}
	if cfg.Payment.PollTimeout == 0 {
		cfg.Payment.PollTimeout = 2 * time.Minute
	}
	if cfg.Payment.MaxConsecutiveErrors == nil {
		cfg.Payment.MaxConsecutiveErrors = intPtr(DefaultMaxConsecutiveErrors)
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.TTL == 0 {
		cfg.Storage.TTL = 24 * time.Hour
	}

	if cfg.MockBackend.Port == 0 {
		cfg.MockBackend.Port = 8000
	}
	if cfg.MockBackend.ConfirmAfter == nil {
		cfg.MockBackend.ConfirmAfter = intPtr(DefaultConfirmAfter)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks values that have no sensible fallback.
func (c *AppConfig) Validate() error {
	if !c.Analysis.DefaultNetwork.Valid() {
		return fmt.Errorf("analysis.default_network: unsupported network %q", c.Analysis.DefaultNetwork)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Payment.PollInterval <= 0 || c.Payment.PollTimeout <= 0 {
		return fmt.Errorf("payment poll interval and timeout must be positive")
	}
	if c.Payment.PollInterval > c.Payment.PollTimeout {
		return fmt.Errorf("payment.poll_interval (%s) exceeds payment.poll_timeout (%s)",
			c.Payment.PollInterval, c.Payment.PollTimeout)
	}
	if c.Payment.Amount < 0 {
		return fmt.Errorf("payment.amount must not be negative")
	}
	if c.Payment.MaxConsecutiveErrors != nil && *c.Payment.MaxConsecutiveErrors < 0 {
		return fmt.Errorf("payment.max_consecutive_errors must not be negative")
	}
	if c.MockBackend.ConfirmAfter != nil && *c.MockBackend.ConfirmAfter < 0 {
		return fmt.Errorf("mock_backend.confirm_after must not be negative")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Storage.Redis.URL == "" {
			return fmt.Errorf("storage.redis.url is required for the redis driver")
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	return nil
}
