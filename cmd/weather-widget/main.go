package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/logging"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/views"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

const appName = "weather-widget"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logging.New(os.Stdout, cfg, appName)

	if err := views.LoadTemplates(); err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}
	stylesheet, err := views.Stylesheet()
	if err != nil {
		log.Fatalf("failed to load stylesheet: %v", err)
	}

	if cfg.OpenWeatherAPIKey == "" {
		lg.Warn("OPENWEATHER_API_KEY is not set; every lookup will fail")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	opts := []providers.Option{providers.WithBaseURL(cfg.OpenWeatherBaseURL)}
	if cfg.ProviderBreaker {
		opts = append(opts, providers.WithBreaker(providers.NewBreaker("openweathermap", lg)))
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, opts...)

	// One mounted widget per browser session.
	sessions := store.NewSessionStore(cfg.SessionMax, cfg.SessionIdleTTL)
	defer sessions.Close()

	newWidget := func(id string) *widget.Widget {
		return widget.New(widget.Config{
			ID:           id,
			Provider:     provider,
			FallbackCity: cfg.FallbackCity,
			Stylesheet:   stylesheet,
			Async:        true,
			Logger:       lg,
		})
	}

	// Periodic eviction of idle sessions.
	sweeper := scheduler.New(sessions, cfg.SessionSweepInterval, lg)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  appName,
			"sessions": sessions.Len(),
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Config{
		Sessions:  sessions,
		Provider:  provider,
		NewWidget: newWidget,
		Logger:    lg,
	})

	// Start server with graceful shutdown
	go func() {
		lg.Info("listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("error during shutdown", "error", err)
	}
}
