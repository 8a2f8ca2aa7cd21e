package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "FALLBACK_CITY", "HTTP_TIMEOUT",
		"PROVIDER_BREAKER", "SESSION_IDLE_TTL", "SESSION_MAX", "SESSION_SWEEP_INTERVAL",
		"APP_ENV", "LOG_LEVEL", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherBaseURL)
	assert.Equal(t, "New York", cfg.FallbackCity)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.ProviderBreaker)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 1000, cfg.SessionMax)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", " secret ")
	t.Setenv("FALLBACK_CITY", "London")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("PROVIDER_BREAKER", "true")
	t.Setenv("SESSION_MAX", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "London", cfg.FallbackCity)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.ProviderBreaker)
	assert.Equal(t, 5, cfg.SessionMax)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad timeout":        {"HTTP_TIMEOUT", "soon"},
		"zero timeout":       {"HTTP_TIMEOUT", "0s"},
		"bad idle ttl":       {"SESSION_IDLE_TTL", "x"},
		"bad sweep interval": {"SESSION_SWEEP_INTERVAL", "-1m"},
		"bad log level":      {"LOG_LEVEL", "loud"},
		"bad base url":       {"OPENWEATHER_BASE_URL", "not a url"},
		"bad port":           {"PORT", "http"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
