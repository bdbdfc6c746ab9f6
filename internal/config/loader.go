// Package config loads energyd runtime parameters from a file, the
// environment and built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service and the loader.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	StoreDir  string `json:"store_dir" yaml:"store_dir" toml:"store_dir"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	EnergyRef string `json:"energy_model" yaml:"energy_model" toml:"energy_model"`
	GHGRef    string `json:"ghg_model" yaml:"ghg_model" toml:"ghg_model"`

	MaxBodyBytes          int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" validate:"gte=0"`
	PredictTimeoutSeconds *int64 `json:"predict_timeout_seconds" yaml:"predict_timeout_seconds" toml:"predict_timeout_seconds" validate:"omitempty,gte=0"`
	RejectUnknownFields   bool   `json:"reject_unknown_fields" yaml:"reject_unknown_fields" toml:"reject_unknown_fields"`

	MaxConcurrent int    `json:"max_concurrent" yaml:"max_concurrent" toml:"max_concurrent" validate:"gte=0"`
	MaxQueueDepth int    `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth" validate:"gte=0"`
	MaxWait       string `json:"max_wait" yaml:"max_wait" toml:"max_wait"`
	CacheSize     int    `json:"cache_size" yaml:"cache_size" toml:"cache_size" validate:"gte=0"`

	RateLimitRPS   float64 `json:"rate_limit_rps" yaml:"rate_limit_rps" toml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst" toml:"rate_limit_burst" validate:"gte=0"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`

	LogLevel   string `json:"log_level" yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat  string `json:"log_format" yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=json console"`
	LogFile    string `json:"log_file" yaml:"log_file" toml:"log_file"`
	RequestLog string `json:"request_log" yaml:"request_log" toml:"request_log" validate:"omitempty,oneof=off error info debug"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
