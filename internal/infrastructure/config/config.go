package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
	Registry  RegistryConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration. Limits apply per client
// IP unless Global is set, in which case all clients share one bucket.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// ExportConfig holds default export rendering options.
type ExportConfig struct {
	XMLRoot        string `envconfig:"EXPORT_XML_ROOT" default:"root"`
	XMLDeclaration bool   `envconfig:"EXPORT_XML_DECLARATION" default:"true"`
	Indent         bool   `envconfig:"EXPORT_INDENT" default:"true"`
}

// RegistryConfig holds startup seeding configuration. An empty SeedDir
// disables seeding.
type RegistryConfig struct {
	SeedDir     string `envconfig:"REGISTRY_SEED_DIR"`
	SeedPattern string `envconfig:"REGISTRY_SEED_PATTERN" default:"**/*.{json,yaml,yml,toml}"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Export: ExportConfig{
			XMLRoot:        "root",
			XMLDeclaration: true,
			Indent:         true,
		},
		Registry: RegistryConfig{
			SeedPattern: "**/*.{json,yaml,yml,toml}",
		},
	}
}
