// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ibarry/covoiturage/internal/service"
)

// Config holds all configuration values for the API server and the
// archiver command. Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// AMQPURL is the RabbitMQ connection string for driver notifications.
	// Optional; when empty, notifications go to the structured log instead.
	AMQPURL string

	// RedisAddr is the redis host:port used by the reservation rate
	// limiter. Optional; when empty the limiter is disabled.
	RedisAddr string

	// RateLimitCapacity is the token bucket size per client IP.
	// Defaults to 10.
	RateLimitCapacity int

	// RateLimitRefill is how many tokens are restored per refill interval
	// (one second). Defaults to 5.
	RateLimitRefill int

	// ArchiveInterval is how often the in-process archival sweep runs.
	// Zero (the default) disables the in-process sweep; run cmd/archiver
	// from cron instead.
	ArchiveInterval time.Duration

	// RetentionDays is how long archived statistics are kept, measured
	// from the trip's departure. Defaults to service.DefaultRetentionDays.
	RetentionDays int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AMQPURL:           os.Getenv("AMQP_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RateLimitCapacity: getEnvInt("RATE_LIMIT_CAPACITY", 10),
		RateLimitRefill:   getEnvInt("RATE_LIMIT_REFILL", 5),
		RetentionDays:     getEnvInt("RETENTION_DAYS", service.DefaultRetentionDays),
	}

	if v := os.Getenv("ARCHIVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ARCHIVE_INTERVAL: %w", err)
		}
		cfg.ArchiveInterval = d
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses the environment variable named by key as an int,
// falling back when unset or unparsable.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
