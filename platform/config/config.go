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

// RateLimitConfig provides per-IP request limits.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// RecordStoreConfig provides settings for the upstream record store client.
type RecordStoreConfig interface {
	GetRecordStoreURL() string
	GetRecordStoreCollection() string
	GetRecordStoreTimeout() time.Duration
}

// BatchConfig provides settings for batch operations.
type BatchConfig interface {
	GetDeleteConcurrency() int
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// StoreServerConfig provides settings for the record store server.
type StoreServerConfig interface {
	DatabaseConfig
	GetStoreHTTPAddr() string
	GetStoreDelay() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	RecordStoreURL        string
	RecordStoreCollection string
	RecordStoreTimeout    time.Duration
	DeleteConcurrency     int
	DatabaseURL           string
	StoreHTTPAddr         string
	StoreDelay            time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// RecordStoreConfig implementation
func (c *Config) GetRecordStoreURL() string            { return c.RecordStoreURL }
func (c *Config) GetRecordStoreCollection() string     { return c.RecordStoreCollection }
func (c *Config) GetRecordStoreTimeout() time.Duration { return c.RecordStoreTimeout }

// BatchConfig implementation
func (c *Config) GetDeleteConcurrency() int { return c.DeleteConcurrency }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// StoreServerConfig implementation
func (c *Config) GetStoreHTTPAddr() string      { return c.StoreHTTPAddr }
func (c *Config) GetStoreDelay() time.Duration { return c.StoreDelay }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:        mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RecordStoreURL:        strings.TrimRight(getEnv("RECORD_STORE_URL", "http://localhost:3001"), "/"),
		RecordStoreCollection: getEnv("RECORD_STORE_COLLECTION", "transactions"),
		RecordStoreTimeout:    mustDuration(getEnv("RECORD_STORE_TIMEOUT", "10s")),
		DeleteConcurrency:     mustInt(getEnv("DELETE_CONCURRENCY", "8")),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		StoreHTTPAddr:         getEnv("STORE_HTTP_ADDR", ":3001"),
		StoreDelay:            mustDuration(getEnv("STORE_DELAY", "0s")),
	}

	if cfg.RecordStoreURL == "" {
		return nil, fmt.Errorf("RECORD_STORE_URL is required")
	}
	if cfg.RecordStoreCollection == "" {
		return nil, fmt.Errorf("RECORD_STORE_COLLECTION is required")
	}
	if cfg.RecordStoreTimeout <= 0 {
		return nil, fmt.Errorf("RECORD_STORE_TIMEOUT must be a positive duration")
	}
	if cfg.DeleteConcurrency < 0 {
		return nil, fmt.Errorf("DELETE_CONCURRENCY cannot be negative")
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
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
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
