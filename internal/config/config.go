package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	MCP struct {
		Addr string
		Path string
	}

	OpenWeather struct {
		APIKey  string
		BaseURL string
		GeoURL  string
	}

	LaunchLibrary struct {
		BaseURL string
	}

	Cache struct {
		Duration time.Duration
	}

	Refresh struct {
		Schedule string
		Limit    int
	}

	CircuitBreaker struct {
		Timeout time.Duration
	}

	Retry struct {
		Timeout       time.Duration
		MaxAttempts   int
		BackoffFactor float64
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("SERVER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// MCP transport configuration
	cfg.MCP.Addr = getEnv("MCP_ADDR", ":3000")
	cfg.MCP.Path = getEnv("MCP_PATH", "/mcp")

	// Upstream API configuration
	cfg.OpenWeather.APIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.OpenWeather.BaseURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5")
	cfg.OpenWeather.GeoURL = getEnv("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0")
	cfg.LaunchLibrary.BaseURL = getEnv("LAUNCH_LIBRARY_URL", "https://ll.thespacedevs.com/2.2.0")

	// Launch snapshot cache configuration
	cfg.Cache.Duration = parseDuration(getEnv("CACHE_DURATION", "10m"))
	cfg.Refresh.Schedule = getEnv("REFRESH_SCHEDULE", "@every 15m")
	cfg.Refresh.Limit = parseInt(getEnv("REFRESH_LIMIT", "50"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Retry configuration
	cfg.Retry.Timeout = parseDuration(getEnv("UPSTREAM_TIMEOUT", "10s"))
	cfg.Retry.MaxAttempts = parseInt(getEnv("MAX_ATTEMPTS", "3"))
	cfg.Retry.BackoffFactor = parseFloat(getEnv("BACKOFF_FACTOR", "2"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
