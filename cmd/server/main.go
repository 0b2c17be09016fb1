package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kulbasnet/launchwatch/internal/api"
	"github.com/kulbasnet/launchwatch/internal/config"
	"github.com/kulbasnet/launchwatch/internal/mcptools"
	"github.com/kulbasnet/launchwatch/internal/scheduler"
	"github.com/kulbasnet/launchwatch/internal/services"
	"github.com/kulbasnet/launchwatch/pkg/client"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting LaunchWatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.OpenWeather.APIKey == "" {
		logger.Fatal("OPENWEATHER_API_KEY is required")
	}

	clientConfig := client.ClientConfig{
		Timeout:        cfg.Retry.Timeout,
		MaxAttempts:    cfg.Retry.MaxAttempts,
		BackoffFactor:  cfg.Retry.BackoffFactor,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	weatherClient := client.NewOpenWeatherClient(
		cfg.OpenWeather.APIKey,
		cfg.OpenWeather.BaseURL,
		cfg.OpenWeather.GeoURL,
		clientConfig,
		logger,
	)
	launchClient := client.NewLaunchLibraryClient(cfg.LaunchLibrary.BaseURL, clientConfig, logger)

	correlator := services.NewCorrelator(weatherClient, launchClient, logger)
	launchCache := services.NewLaunchCache(cfg.Cache.Duration, logger)

	// Initialize launch feed refresher
	refresher := scheduler.NewRefresher(launchClient, launchCache, cfg.Refresh.Schedule, cfg.Refresh.Limit, logger)
	if err := refresher.Start(); err != nil {
		logger.Fatal("Failed to start refresher", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(correlator, launchCache, logger)
	api.SetupRoutes(app, handler, logger)

	// MCP tool transport
	mcpServer := mcptools.NewServer(correlator)
	mcpMux := http.NewServeMux()
	mcpMux.Handle(cfg.MCP.Path, mcptools.Handler(mcpServer))
	mcpHTTP := &http.Server{
		Addr:    cfg.MCP.Addr,
		Handler: mcpMux,
	}

	go func() {
		logger.Info("Starting MCP server",
			zap.String("address", cfg.MCP.Addr),
			zap.String("path", cfg.MCP.Path))

		if err := mcpHTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start MCP server", zap.Error(err))
		}
	}()

	// Start REST server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refresher.Stop()

	if err := mcpHTTP.Shutdown(ctx); err != nil {
		logger.Error("MCP server shutdown failed", zap.Error(err))
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
