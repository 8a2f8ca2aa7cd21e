package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

type AppConfig struct {
	// OpenWeatherAPIKey is required for lookups; without it every fetch
	// fails with a configuration error instead of calling the provider.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string `validate:"required,url"`

	// FallbackCity is looked up when the browser cannot provide a position.
	FallbackCity string `validate:"required"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// ProviderBreaker wraps provider calls in a circuit breaker.
	ProviderBreaker bool

	// Widget session retention.
	SessionIdleTTL       time.Duration `validate:"gte=0"`
	SessionMax           int           `validate:"gte=0"` // 0 = unlimited
	SessionSweepInterval time.Duration `validate:"gt=0"`

	AppEnv   string `validate:"required"`
	LogLevel slog.Level

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
// Callers load any .env file first.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL)
	cfg.FallbackCity = getenvDefault("FALLBACK_CITY", widget.DefaultFallbackCity)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.ProviderBreaker = getenvBool("PROVIDER_BREAKER", false)

	if cfg.SessionIdleTTL, err = getenvDuration("SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, err
	}
	cfg.SessionMax = getenvInt("SESSION_MAX", 1000)
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
