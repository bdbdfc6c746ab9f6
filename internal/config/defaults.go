package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for unset fields.
const (
	DefaultPort                  = "3000"
	DefaultStoreDir              = "~/.energyd/store"
	DefaultModelsDir             = "models"
	DefaultMaxBodyBytes          = 1 << 20
	DefaultPredictTimeoutSeconds = 10
	DefaultMaxQueueDepth         = 64
	DefaultMaxWait               = "5s"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultRequestLog            = "info"
)

// Defaults fills zero-valued fields.
func Defaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":" + DefaultPort
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = DefaultStoreDir
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = DefaultModelsDir
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.PredictTimeoutSeconds == nil {
		sec := int64(DefaultPredictTimeoutSeconds)
		cfg.PredictTimeoutSeconds = &sec
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = runtime.NumCPU()
	}
	if cfg.MaxQueueDepth == 0 {
		cfg.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if cfg.MaxWait == "" {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.RequestLog == "" {
		cfg.RequestLog = DefaultRequestLog
	}
}

var validate = validator.New()

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.MaxWaitDuration(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MaxWaitDuration parses MaxWait; empty means zero.
func (c Config) MaxWaitDuration() (time.Duration, error) {
	if c.MaxWait == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.MaxWait)
	if err != nil {
		return 0, fmt.Errorf("max_wait: %w", err)
	}
	return d, nil
}

// PredictTimeout returns the configured timeout in seconds, or the default.
func (c Config) PredictTimeout() int64 {
	if c.PredictTimeoutSeconds == nil {
		return DefaultPredictTimeoutSeconds
	}
	return *c.PredictTimeoutSeconds
}
