// Command api is the Lottery Data API server.
//
// Usage:
//
//	lottery-api
//	API_PORT=8080 SYNC_INTERVAL_MINUTES=60 lottery-api

// @title Lottery Data API
// @version 1.0.0
// @description French lottery draws (Loto, EuroMillions, EuroDreams, Crescendo) synced from the FDJ open-data API, with per-number frequency stats. Stats and metadata responses are JSON-passthrough from Postgres.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Lottery Data
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/lottery-data/internal/api"
	"github.com/albapepper/lottery-data/internal/api/handler"
	"github.com/albapepper/lottery-data/internal/cache"
	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/db"
	"github.com/albapepper/lottery-data/internal/ingest"
	"github.com/albapepper/lottery-data/internal/maintenance"
	"github.com/albapepper/lottery-data/internal/notifications"
	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/provider/fdj"
	"github.com/albapepper/lottery-data/internal/publisher"
	"github.com/albapepper/lottery-data/internal/store"

	_ "github.com/albapepper/lottery-data/docs" // swagger docs
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	st := store.New(pool.Pool)
	fetcher := fdj.NewClient(cfg.FDJBaseURL, cfg.FDJRows, cfg.FDJRequestsPerMinute, logger)

	opts := ingest.Options{Workers: cfg.SyncWorkers}
	opts.Hooks = append(opts.Hooks,
		ingest.MetadataHook(st),
		ingest.CacheHook(func(g provider.Game) int { return appCache.DeleteGame(string(g)) }),
	)

	// Redis: cross-instance sync lock and sync-completed stream (optional)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		opts.Locker = ingest.NewRedisLocker(rdb, cfg.SyncLockTTL, logger)
		opts.Hooks = append(opts.Hooks, ingest.EventHook(publisher.NewRedisStreamPublisher(rdb)))
		logger.Info("Redis connected", "stream", publisher.SyncCompletedStream)
	} else {
		logger.Info("Redis disabled (no REDIS_URL), sync lock is process-local")
	}

	// Telegram sync reports (optional)
	sender, err := notifications.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	if err != nil {
		logger.Warn("Telegram reports disabled", "error", err)
	} else if sender != nil {
		opts.Hooks = append(opts.Hooks, ingest.ReportHook(sender))
		logger.Info("Telegram sync reports enabled")
	}

	syncer := ingest.NewSyncer(fetcher, st, opts, logger)

	// Start maintenance tickers (scheduled sync, stats refresh)
	go maintenance.Start(ctx, maintenance.Deps{
		Syncer:     syncer,
		Store:      st,
		Invalidate: func(g provider.Game) int { return appCache.DeleteGame(string(g)) },
	}, maintenance.Config{
		SyncInterval:    cfg.SyncInterval,
		RefreshInterval: cfg.StatsRefreshInterval,
		Workers:         cfg.SyncWorkers,
	}, logger)

	// Create router
	h := handler.New(pool, st, syncer, appCache, cfg, logger)
	router := api.NewRouter(h, cfg)

	// Create HTTP server. POST /lottery-sync runs the whole sync in-request.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Lottery Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
