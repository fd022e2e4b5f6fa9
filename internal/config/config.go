// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	StatsTable    = "lottery_stats"
	MetadataTable = "lottery_metadata"

	// StatKindNumber is the only stat_type written by the aggregator.
	StatKindNumber = "numero"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// FDJ open-data source
	FDJBaseURL           string
	FDJRows              int
	FDJRequestsPerMinute int

	// Sync
	SyncWorkers  int
	SyncInterval time.Duration // 0 disables scheduled sync
	SyncLockTTL  time.Duration

	// StatsRefreshInterval recomputes stats from stored draws; 0 disables.
	StatsRefreshInterval time.Duration

	// Redis (optional: distributed sync lock + event stream)
	RedisURL string

	// Telegram (optional: sync reports)
	TelegramBotToken string
	TelegramChatID   int64

	// Game registry overrides (YAML)
	GamesFile string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SUPABASE_DB_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		FDJBaseURL:           envOr("FDJ_BASE_URL", "https://data.fdj.fr/api/records/1.0/search/"),
		FDJRows:              envInt("FDJ_ROWS", 1000),
		FDJRequestsPerMinute: envInt("FDJ_REQUESTS_PER_MINUTE", 30),

		SyncWorkers:  envInt("SYNC_WORKERS", 1),
		SyncInterval: time.Duration(envInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,
		SyncLockTTL:  time.Duration(envInt("SYNC_LOCK_TTL_SECONDS", 300)) * time.Second,

		StatsRefreshInterval: time.Duration(envInt("STATS_REFRESH_MINUTES", 0)) * time.Minute,

		RedisURL: envOr("REDIS_URL", ""),

		TelegramBotToken: envOr("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   envInt64("TELEGRAM_CHAT_ID", 0),

		GamesFile: envOr("GAMES_FILE", ""),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}

	if cfg.FDJRows < 1 || cfg.FDJRows > 10000 {
		return nil, fmt.Errorf("FDJ_ROWS must be between 1 and 10000, got %d", cfg.FDJRows)
	}
	if cfg.SyncWorkers < 1 {
		cfg.SyncWorkers = 1
	}

	if cfg.GamesFile != "" {
		if err := LoadGames(cfg.GamesFile); err != nil {
			return nil, fmt.Errorf("load games file: %w", err)
		}
	}
	return cfg, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
