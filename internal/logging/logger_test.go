package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/config"
)

func TestNew_jsonOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.AppConfig{AppEnv: "production", LogLevel: slog.LevelInfo}, "weather-widget")

	log.Debug("hidden")
	log.Info("weather fetched", "city", "London")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "weather fetched", rec["msg"])
	assert.Equal(t, "weather-widget", rec["app"])
	assert.Equal(t, "production", rec["env"])
	assert.Equal(t, "London", rec["city"])
}

func TestNew_textInDev(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelDebug}, "weather-widget")

	log.Debug("widget state changed", "state", "loading")
	out := buf.String()
	assert.Contains(t, out, "widget state changed")
	assert.Contains(t, out, "loading")
}
