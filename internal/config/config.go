// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ashita-ai/kiroku/internal/report"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	MaxRequestBodyBytes int64

	// Rate limiting, per client IP.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Report settings.
	BrandingFile string // YAML file; empty means built-in branding.

	// Run sources.
	PollInterval time.Duration
	SQLitePath   string
	DatabaseURL  string

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string
	OTELInsecure bool

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win. Every malformed variable is reported,
// not just the first.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var cfg Config
	var err error

	cfg.Port, err = envInt("KIROKU_PORT", 8080)
	collect(err)
	cfg.ReadTimeout, err = envDuration("KIROKU_READ_TIMEOUT", 30*time.Second)
	collect(err)
	cfg.WriteTimeout, err = envDuration("KIROKU_WRITE_TIMEOUT", 30*time.Second)
	collect(err)
	maxBody, err := envInt("KIROKU_MAX_REQUEST_BODY_BYTES", 4*1024*1024)
	collect(err)
	cfg.MaxRequestBodyBytes = int64(maxBody)

	cfg.RateLimitEnabled, err = envBool("KIROKU_RATE_LIMIT_ENABLED", true)
	collect(err)
	cfg.RateLimitRPS, err = envFloat("KIROKU_RATE_LIMIT_RPS", 10)
	collect(err)
	cfg.RateLimitBurst, err = envInt("KIROKU_RATE_LIMIT_BURST", 20)
	collect(err)

	cfg.BrandingFile = envStr("KIROKU_BRANDING_FILE", "")
	cfg.PollInterval, err = envDuration("KIROKU_POLL_INTERVAL", 5*time.Second)
	collect(err)
	cfg.SQLitePath = envStr("KIROKU_SQLITE_PATH", "")
	cfg.DatabaseURL = envStr("DATABASE_URL", "")

	cfg.OTELEndpoint = envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.ServiceName = envStr("OTEL_SERVICE_NAME", "kiroku")
	cfg.OTELInsecure, err = envBool("KIROKU_OTEL_INSECURE", false)
	collect(err)

	cfg.LogLevel = envStr("KIROKU_LOG_LEVEL", "info")

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are in range.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: KIROKU_PORT must be between 1 and 65535")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("config: KIROKU_MAX_REQUEST_BODY_BYTES must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: KIROKU_POLL_INTERVAL must be positive")
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		return fmt.Errorf("config: KIROKU_RATE_LIMIT_RPS and KIROKU_RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level. Validate has already rejected
// unknown names, so this falls back to info only for an unvalidated Config.
func (c Config) SlogLevel() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: KIROKU_LOG_LEVEL=%q is not one of debug, info, warn, error", s)
}

// LoadBranding reads a branding YAML file. An empty path yields the built-in
// branding. Fields missing from the file keep their defaults.
func LoadBranding(path string) (report.Branding, error) {
	b := report.DefaultBranding()
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return report.Branding{}, fmt.Errorf("config: read branding: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return report.Branding{}, fmt.Errorf("config: parse branding %s: %w", path, err)
	}
	return b, nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
