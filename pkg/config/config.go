package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote admin API
	APIBaseURL     string // e.g. https://api.example.com/api/admin
	AdminToken     string // bearer token; empty means unauthenticated
	TokenFile      string // optional file the token is persisted in
	RequestTimeout time.Duration

	// Local dashboard
	DashboardPort int

	// Local snapshot/audit store
	DBPath string

	// Background refresh
	StatsRefreshSpec string // cron spec for the stats snapshot job
	HealthProbeSpec  string // cron spec for the backend health probe
	StatsPeriod      string // period param for dashboard stats ("7d", "30d", ...)

	// List behaviour
	PageSize       int
	SearchDebounce time.Duration

	// Fallback mining cycle length when mining settings are unavailable
	DefaultCycleHours float64

	// Diagnostics (direct MongoDB access, read-only)
	MongoURI      string
	MongoDatabase string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     envOr("API_BASE_URL", "http://localhost:5000/api/admin"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		TokenFile:      envOr("ADMIN_TOKEN_FILE", ""),
		RequestTimeout: time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,

		DashboardPort: envInt("DASHBOARD_PORT", 8090),
		DBPath:        envOr("DB_PATH", "minedash.db"),

		StatsRefreshSpec: envOr("STATS_REFRESH_SPEC", "@every 2m"),
		HealthProbeSpec:  envOr("HEALTH_PROBE_SPEC", "@every 5m"),
		StatsPeriod:      envOr("STATS_PERIOD", "7d"),

		PageSize:       envInt("PAGE_SIZE", 10),
		SearchDebounce: time.Duration(envInt("SEARCH_DEBOUNCE_MS", 500)) * time.Millisecond,

		DefaultCycleHours: envFloat("DEFAULT_CYCLE_HOURS", 24),

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: envOr("MONGO_DATABASE", "mining_app"),
	}

	// Token file wins over env so a refreshed login survives restarts.
	if cfg.TokenFile != "" {
		if b, err := os.ReadFile(cfg.TokenFile); err == nil {
			if tok := strings.TrimSpace(string(b)); tok != "" {
				cfg.AdminToken = tok
			}
		}
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must be set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.DefaultCycleHours <= 0 {
		return fmt.Errorf("DEFAULT_CYCLE_HOURS must be positive, got %v", c.DefaultCycleHours)
	}
	return nil
}

// ValidateDiag checks the extra settings the diagnostics binary needs.
// The connection string is never hardcoded; it must come from the environment.
func (c *Config) ValidateDiag() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI must be set for diagnostics")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE must be set for diagnostics")
	}
	return nil
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
