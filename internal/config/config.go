package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate.
type Config struct {
	// DatabaseURL is the PostgreSQL URL of the production data warehouse.
	// The warehouse is read-only from this service's perspective.
	DatabaseURL string

	ListenAddr string

	// DefaultMonth is the reference month ("YYYY-MM") the period resolver
	// falls back to when a month descriptor is missing or malformed.
	DefaultMonth string

	// CatalogRefresh is how often the available days/weeks catalog is
	// re-read from the warehouse.
	CatalogRefresh time.Duration

	LogLevel string
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:    os.Getenv("APP_DATABASE_URL"),
		ListenAddr:     getenv("APP_LISTEN_ADDR", ":8080"),
		DefaultMonth:   getenv("APP_DEFAULT_MONTH", "2025-08"),
		CatalogRefresh: 15 * time.Minute,
		LogLevel:       getenv("APP_LOG_LEVEL", "info"),
	}

	if v := os.Getenv("APP_CATALOG_REFRESH_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			cfg.CatalogRefresh = time.Duration(mins) * time.Minute
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
