package config

import (
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
	redisclient "github.com/vietddude/blockphantom/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Backend     BackendConfig     `yaml:"backend"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Payment     PaymentConfig     `yaml:"payment"`
	Storage     StorageConfig     `yaml:"storage"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	MockBackend MockBackendConfig `yaml:"mock_backend"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// BackendConfig holds settings for the risk/payment backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // per-call deadline
}

// AnalysisConfig holds analyze defaults.
type AnalysisConfig struct {
	DefaultNetwork domain.Network `yaml:"default_network"`
	DemoFallback   bool           `yaml:"demo_fallback"`
}

// PaymentConfig holds payment gateway and polling settings.
type PaymentConfig struct {
	Currency             string        `yaml:"currency"`
	Amount               int64         `yaml:"amount"` // smallest unit, lovelace for ADA
	PollInterval         time.Duration `yaml:"poll_interval"`
	PollTimeout          time.Duration `yaml:"poll_timeout"`
	MaxConsecutiveErrors *int          `yaml:"max_consecutive_errors"` // 0 = never give up on failed fetches
}

// StorageConfig selects where payment sessions are kept.
type StorageConfig struct {
	Driver string             `yaml:"driver"` // memory, redis
	TTL    time.Duration      `yaml:"ttl"`
	Redis  redisclient.Config `yaml:"redis"`
}

// MetricsConfig holds the health/metrics server settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// MockBackendConfig holds settings for the demo backend server.
type MockBackendConfig struct {
	Port         int   `yaml:"port"`
	Seed         int64 `yaml:"seed"`          // 0 = time seeded
	ConfirmAfter *int  `yaml:"confirm_after"` // status polls before a payment reads "paid"
}

// Defaults for the optional integer settings, where 0 is a meaningful value.
const (
	DefaultMaxConsecutiveErrors = 5
	DefaultConfirmAfter         = 2
)

// ErrorCap returns max_consecutive_errors, or its default when unset.
func (c PaymentConfig) ErrorCap() int {
	if c.MaxConsecutiveErrors == nil {
		return DefaultMaxConsecutiveErrors
	}
	return *c.MaxConsecutiveErrors
}

// Polls returns confirm_after, or its default when unset.
func (c MockBackendConfig) Polls() int {
	if c.ConfirmAfter == nil {
		return DefaultConfirmAfter
	}
	return *c.ConfirmAfter
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
