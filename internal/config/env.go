package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every energyd environment variable except PORT.
const EnvPrefix = "ENERGYD_"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. ENERGYD_* values win
// over file values; PORT only applies when no address is configured.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("ADDR", &cfg.Addr)
	if cfg.Addr == "" {
		if port, ok := lookup("PORT"); ok && strings.TrimSpace(port) != "" {
			cfg.Addr = ":" + strings.TrimSpace(port)
		}
	}
	str("STORE_DIR", &cfg.StoreDir)
	str("MODELS_DIR", &cfg.ModelsDir)
	str("ENERGY_MODEL", &cfg.EnergyRef)
	str("GHG_MODEL", &cfg.GHGRef)
	str("MAX_WAIT", &cfg.MaxWait)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_FILE", &cfg.LogFile)
	str("REQUEST_LOG", &cfg.RequestLog)
	num("MAX_CONCURRENT", &cfg.MaxConcurrent)
	num("MAX_QUEUE_DEPTH", &cfg.MaxQueueDepth)
	num("CACHE_SIZE", &cfg.CacheSize)
	num("RATE_LIMIT_BURST", &cfg.RateLimitBurst)

	if v, ok := get("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err))
		} else {
			cfg.MaxBodyBytes = n
		}
	}
	if v, ok := get("PREDICT_TIMEOUT_SECONDS"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPREDICT_TIMEOUT_SECONDS: %w", EnvPrefix, err))
		} else {
			cfg.PredictTimeoutSeconds = &n
		}
	}
	if v, ok := get("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT_RPS: %w", EnvPrefix, err))
		} else {
			cfg.RateLimitRPS = f
		}
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"REJECT_UNKNOWN_FIELDS", &cfg.RejectUnknownFields},
		{"CORS_ENABLED", &cfg.CORSEnabled},
	} {
		if v, ok := get(f.name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, f.name, err))
				continue
			}
			*f.dst = b
		}
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = SplitCSV(v)
	}
	return errors.Join(errs...)
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
