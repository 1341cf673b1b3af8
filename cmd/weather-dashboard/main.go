package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/term"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	if err := run(); err != nil {
		slog.Error("weather-dashboard stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	metrics := observability.NewMetrics()

	// The reference table is loaded once and never mutated.
	ref, err := store.LoadCSV(cfg.CitiesCSV)
	if err != nil {
		return fmt.Errorf("load reference cities: %w", err)
	}
	log.Info("reference cities loaded", "path", cfg.CitiesCSV, "rows", ref.Len(), "countries", len(ref.Countries()))

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Metrics: metrics,
	}

	var provider weather.Provider
	switch cfg.Provider {
	case config.ProviderOpenMeteo:
		provider = providers.NewOpenMeteoProvider(cfg.OpenMeteoBaseURL, httpCfg)
	default:
		key := cfg.ClimaCellAPIKey
		if key == "" {
			if key, err = promptAPIKey(); err != nil {
				return err
			}
		}
		provider = providers.NewClimaCellProvider(cfg.ClimaCellBaseURL, key, httpCfg)
	}

	var labeler weather.Labeler
	if cfg.GeocoderAPIKey != "" {
		labeler = providers.NewGoogleLabeler(cfg.GeocoderAPIKey, time.Hour)
	}

	service := weather.NewService(provider, labeler, log.With("component", "weather"))
	resolver := location.NewResolver(ref, location.Options{
		Threshold: cfg.MatchThreshold,
		Limit:     cfg.MaxCities,
		CacheTTL:  cfg.MatchCacheTTL,
	}, metrics, log.With("component", "location"))

	keys := scheduler.New(service, cfg.KeyCheckInterval, metrics, log.With("component", "scheduler"))
	if cfg.ValidateKeyOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		st := keys.Check(ctx)
		cancel()
		if !st.Valid {
			return fmt.Errorf("api key rejected by %s: %s", service.ProviderName(), st.Error)
		}
	}
	if err := keys.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer keys.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A country lookup makes up to 25 sequential remote calls.
		WriteTimeout: 25*cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Resolver: resolver,
		Service:  service,
		Keys:     keys,
	})

	go func() {
		log.Info("http server listening", "port", cfg.Port, "provider", service.ProviderName())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// promptAPIKey reads the ClimaCell key from the terminal without echoing it.
func promptAPIKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("CLIMACELL_API_KEY is required when stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "ClimaCell API key: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("empty api key")
	}
	return key, nil
}
