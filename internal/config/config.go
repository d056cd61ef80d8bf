// Package config loads service configuration from ECOTRACE_-prefixed
// environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the carbon service.
// Environment variables are parsed from the ECOTRACE_ prefix,
// e.g. ECOTRACE_HTTP_PORT, ECOTRACE_DB_DRIVER.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage. DBDriver "auto" picks postgres when a DSN is set,
	// sqlite otherwise.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/ecotrace.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Generative insight provider. An empty API key disables external
	// calls; analysis still completes with deterministic output.
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:""`

	ProviderTimeoutSeconds int   `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"20"`
	MaxProviderConcurrency int64 `envconfig:"MAX_PROVIDER_CONCURRENCY" default:"4"`

	// SeedDemoData controls whether new users get a starter set of
	// activities priced through the calculation engine.
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults derives DBDriver when set to "auto" or empty and
// validates the result.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("ECOTRACE_SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("ECOTRACE_POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.ProviderTimeoutSeconds <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxProviderConcurrency <= 0 {
		return fmt.Errorf("MAX_PROVIDER_CONCURRENCY must be positive")
	}
	return nil
}

// New creates a Config by parsing ECOTRACE_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ECOTRACE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("gemini_configured", cfg.GeminiAPIKey != "").
		Str("gemini_model", cfg.GeminiModel).
		Bool("seed_demo_data", cfg.SeedDemoData).
		Msg("Configuration loaded")

	return &cfg, nil
}
