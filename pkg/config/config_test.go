package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitropay-io/nitropay-go/pkg/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT",
		"PROVIDER_API_BASE",
		"PROVIDER_API_PUBLIC_KEY",
		"PROVIDER_API_SECRET_KEY",
		"INTENT_EXPIRES_IN_MINUTES",
		"ALLOWED_ORIGIN",
		"METRICS_API_KEY",
		"REQUEST_TIMEOUT",
		"LOG_LEVEL",
		"LOG_COLORING",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_API_SECRET_KEY", "sk_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultProviderAPIBase, cfg.ProviderAPIBase)
	assert.Equal(t, DefaultExpiresInMinutes, cfg.ExpiresInMinutes)
	assert.Equal(t, DefaultAllowedOrigin, cfg.AllowedOrigin)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, logger.InfoLevel, cfg.LoggerConfig.Level)
	assert.True(t, cfg.LoggerConfig.Coloring)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_API_SECRET_KEY")
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_API_SECRET_KEY", "sk_test")
	t.Setenv("PORT", "8080")
	t.Setenv("PROVIDER_API_BASE", "https://sandbox.example.test")
	t.Setenv("INTENT_EXPIRES_IN_MINUTES", "30")
	t.Setenv("ALLOWED_ORIGIN", "https://shop.example.test")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_COLORING", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://sandbox.example.test", cfg.ProviderAPIBase)
	assert.Equal(t, 30, cfg.ExpiresInMinutes)
	assert.Equal(t, "https://shop.example.test", cfg.AllowedOrigin)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, logger.DebugLevel, cfg.LoggerConfig.Level)
	assert.False(t, cfg.LoggerConfig.Coloring)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad port", key: "PORT", value: "not-a-port"},
		{name: "bad api base", key: "PROVIDER_API_BASE", value: "::nope"},
		{name: "bad expiry", key: "INTENT_EXPIRES_IN_MINUTES", value: "soon"},
		{name: "zero expiry", key: "INTENT_EXPIRES_IN_MINUTES", value: "0"},
		{name: "bad timeout", key: "REQUEST_TIMEOUT", value: "whenever"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "bad coloring", key: "LOG_COLORING", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PROVIDER_API_SECRET_KEY", "sk_test")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
