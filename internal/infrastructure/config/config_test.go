package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.RateLimit.Global)

	// Export config
	assert.Equal(t, "root", cfg.Export.XMLRoot)
	assert.True(t, cfg.Export.XMLDeclaration)
	assert.True(t, cfg.Export.Indent)

	// Registry config
	assert.Empty(t, cfg.Registry.SeedDir)
	assert.Equal(t, "**/*.{json,yaml,yml,toml}", cfg.Registry.SeedPattern)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                   "9000",
		"HOST":                   "127.0.0.1",
		"LOG_LEVEL":              "debug",
		"LOG_DEV":                "true",
		"RATE_LIMIT_RPS":         "500",
		"RATE_LIMIT_BURST":       "1000",
		"RATE_LIMIT_ENABLED":     "false",
		"RATE_LIMIT_GLOBAL":      "true",
		"EXPORT_XML_ROOT":        "data",
		"EXPORT_XML_DECLARATION": "false",
		"EXPORT_INDENT":          "false",
		"REGISTRY_SEED_DIR":      "/etc/poseidon",
		"REGISTRY_SEED_PATTERN":  "*.json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, RateLimitConfig{RequestsPerSecond: 500, Burst: 1000, Enabled: false, Global: true}, cfg.RateLimit)
	assert.Equal(t, ExportConfig{XMLRoot: "data", XMLDeclaration: false, Indent: false}, cfg.Export)
	assert.Equal(t, RegistryConfig{SeedDir: "/etc/poseidon", SeedPattern: "*.json"}, cfg.Registry)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "lots")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		dev       string
		wantLevel string
		wantDev   bool
	}{
		{
			name:      "default values",
			wantLevel: "info",
			wantDev:   false,
		},
		{
			name:      "debug level",
			level:     "debug",
			wantLevel: "debug",
			wantDev:   false,
		},
		{
			name:      "development mode",
			dev:       "true",
			wantLevel: "info",
			wantDev:   true,
		},
		{
			name:      "error level production",
			level:     "error",
			dev:       "false",
			wantLevel: "error",
			wantDev:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.level != "" {
				t.Setenv("LOG_LEVEL", tt.level)
			}
			if tt.dev != "" {
				t.Setenv("LOG_DEV", tt.dev)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantLevel, cfg.Logging.Level)
			assert.Equal(t, tt.wantDev, cfg.Logging.Development)
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantAddr string
	}{
		{name: "default values", wantAddr: "0.0.0.0:8000"},
		{name: "custom port", port: "9000", wantAddr: "0.0.0.0:9000"},
		{name: "custom host", host: "localhost", wantAddr: "localhost:8000"},
		{name: "custom port and host", port: "3000", host: "127.0.0.1", wantAddr: "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			assert.Equal(t, tt.wantAddr, LoadOrDefault().Server.Addr())
		})
	}
}
