// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MapsConfig provides settings for the mapping API collaborators
// (places autocomplete, reverse geocoding, device geolocation). One
// credential keys all three.
type MapsConfig interface {
	GetMapsAPIKey() string
	GetSearchCountry() string
}

// HistoryConfig provides settings for the recent-locations store.
type HistoryConfig interface {
	GetRedisURL() string
	GetHistoryKey() string
	GetHistoryLimit() int
}

// LocateConfig provides settings for device location requests.
type LocateConfig interface {
	GetLocateTimeout() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	HTTPAddr       string
	MapsAPIKey     string
	SearchCountry  string
	RedisURL       string
	HistoryKey     string
	HistoryLimit   int
	LocateTimeout  time.Duration
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// MapsConfig implementation
func (c *Config) GetMapsAPIKey() string    { return c.MapsAPIKey }
func (c *Config) GetSearchCountry() string { return c.SearchCountry }

// HistoryConfig implementation
func (c *Config) GetRedisURL() string   { return c.RedisURL }
func (c *Config) GetHistoryKey() string { return c.HistoryKey }
func (c *Config) GetHistoryLimit() int  { return c.HistoryLimit }

// LocateConfig implementation
func (c *Config) GetLocateTimeout() time.Duration { return c.LocateTimeout }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		MapsAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		SearchCountry:  strings.ToLower(getEnv("SEARCH_COUNTRY", "us")),
		RedisURL:       getEnv("REDIS_URL", ""),
		HistoryKey:     getEnv("HISTORY_KEY", "locator:recent_locations"),
		HistoryLimit:   mustInt(getEnv("HISTORY_LIMIT", "5")),
		LocateTimeout:  mustDuration(getEnv("LOCATE_TIMEOUT", "10s")),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
	}

	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be at least 1")
	}
	if cfg.LocateTimeout <= 0 {
		return nil, fmt.Errorf("LOCATE_TIMEOUT must be a positive duration")
	}
	if len(cfg.SearchCountry) != 2 {
		return nil, fmt.Errorf("SEARCH_COUNTRY must be a two-letter country code")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
