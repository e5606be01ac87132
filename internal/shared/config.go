package shared

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig general application configurations
type AppConfig struct {
	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	// Response Cache
	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig

	// HTTPS Enforcement
	EnforceHTTPS bool

	// Demo data seeding on startup
	SeedDemoData bool

	// Environment
	Environment string
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"/auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/api/lists": {
				Requests: 100,
				Window:   time.Minute,
			},
			"/api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/api/lists": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
		EnforceHTTPS: false,
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") != "false",
		Environment:  "development",
	}
}

// LoadEnv loads variables from .env when present. Missing files are fine;
// deployed environments inject real env vars instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded", "error", err)
	}
}
