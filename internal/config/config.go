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

	"github.com/limerclaw/shared-types/contracts"
)

// Config holds all application configuration.
type Config struct {
	// Logging.
	LogLevel string

	// Database settings, used only by schema-check.
	DatabaseURL        string
	SchemaCheckTimeout time.Duration

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string
	OTELInsecure bool

	// MCP and HTTP API settings.
	MCPAddr            string // Listen address for streamable HTTP; empty serves stdio.
	RateLimitPerMinute int    // Per-client HTTP request budget; 0 disables limiting.
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	// Validation settings.
	MaxPayloadBytes     int64 // Largest document validate and the MCP tool accept.
	ValidateConcurrency int
}

// Load reads configuration from environment variables with sensible defaults.
// Every malformed variable is reported, not just the first.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{
		LogLevel:     envStr("LIMERCLAW_LOG_LEVEL", "info"),
		DatabaseURL:  envStr("DATABASE_URL", ""),
		OTELEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  envStr("OTEL_SERVICE_NAME", "limerclaw-contracts"),
		MCPAddr:      envStr("LIMERCLAW_MCP_ADDR", ""),
	}

	var err error
	cfg.SchemaCheckTimeout, err = envDuration("LIMERCLAW_SCHEMA_CHECK_TIMEOUT", 30*time.Second)
	collect(err)
	cfg.OTELInsecure, err = envBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	collect(err)
	maxPayload, err := envInt("LIMERCLAW_MAX_PAYLOAD_BYTES", 1*1024*1024) // 1 MB default
	collect(err)
	cfg.MaxPayloadBytes = int64(maxPayload)
	cfg.ValidateConcurrency, err = envInt("LIMERCLAW_VALIDATE_CONCURRENCY", 8)
	collect(err)
	cfg.RateLimitPerMinute, err = envInt("LIMERCLAW_RATE_LIMIT_PER_MINUTE", contracts.MaxMsgsPerMinute)
	collect(err)
	cfg.ReadTimeout, err = envDuration("LIMERCLAW_READ_TIMEOUT", 30*time.Second)
	collect(err)
	cfg.WriteTimeout, err = envDuration("LIMERCLAW_WRITE_TIMEOUT", 30*time.Second)
	collect(err)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxPayloadBytes <= 0 {
		return fmt.Errorf("config: LIMERCLAW_MAX_PAYLOAD_BYTES must be positive")
	}
	if c.ValidateConcurrency <= 0 {
		return fmt.Errorf("config: LIMERCLAW_VALIDATE_CONCURRENCY must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: LIMERCLAW_RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("config: LIMERCLAW_READ_TIMEOUT and LIMERCLAW_WRITE_TIMEOUT must be positive")
	}
	if c.SchemaCheckTimeout <= 0 {
		return fmt.Errorf("config: LIMERCLAW_SCHEMA_CHECK_TIMEOUT must be positive")
	}
	return nil
}

// RequireDatabase reports an error when no DATABASE_URL is configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	return nil
}

// ParseLevel maps a LIMERCLAW_LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: LIMERCLAW_LOG_LEVEL=%q is not a valid level", s)
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
