package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	httpapi "github.com/climateiq/climate-aggregator/internal/api/http"
	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/climateiq/climate-aggregator/internal/climate/providers"
	"github.com/climateiq/climate-aggregator/internal/config"
	"github.com/climateiq/climate-aggregator/internal/scheduler"
	"github.com/climateiq/climate-aggregator/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Each provider gets its own limiter so one noisy upstream cannot
	// starve the others.
	clientCfg := func() providers.HTTPClientConfig {
		return providers.HTTPClientConfig{
			Client:  httpClient,
			Limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		}
	}

	weather := providers.NewOpenWeatherClient(clientCfg(), cfg.OpenWeather.BaseURL, cfg.OpenWeather.APIKey)
	resources := providers.NewNASAPowerClient(clientCfg(), cfg.NASAPower.BaseURL, cfg.NASAPower.APIKey)
	carbon := providers.NewCarbonInterfaceClient(clientCfg(), cfg.CarbonInterface.BaseURL, cfg.CarbonInterface.APIKey)
	emissions := providers.NewClimateTraceClient(clientCfg(), cfg.ClimateTrace.BaseURL)
	indicators := providers.NewWorldBankClient(clientCfg(), cfg.WorldBank.BaseURL)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service composing providers and store.
	service := climate.NewService(memStore, weather, resources, carbon, emissions, indicators)

	// Scheduler that keeps overview snapshots warm.
	sched := scheduler.New(cfg.OverviewYears, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "climate-aggregator",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "climate-aggregator",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
