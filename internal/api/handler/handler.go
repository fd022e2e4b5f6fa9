// Package handler provides HTTP handlers for all API endpoints.
// Stats and metadata come back from Postgres as complete JSON and are passed
// through; draws are marshalled from the store's canonical rows.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/lottery-data/internal/api/respond"
	"github.com/albapepper/lottery-data/internal/cache"
	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/ingest"
	"github.com/albapepper/lottery-data/internal/provider"
)

// Reader is the read side of the store.
type Reader interface {
	ListDraws(ctx context.Context, game provider.Game, limit int) ([]provider.Draw, error)
	StatsJSON(ctx context.Context, game provider.Game) ([]byte, error)
	MetadataJSON(ctx context.Context, game provider.Game) ([]byte, error)
}

// SyncRunner executes inbound sync triggers.
type SyncRunner interface {
	Handle(ctx context.Context, req ingest.Request) (ingest.Result, error)
}

// HealthChecker reports database reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db     HealthChecker
	reader Reader
	syncer SyncRunner
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(db HealthChecker, reader Reader, syncer SyncRunner, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:     db,
		reader: reader,
		syncer: syncer,
		cache:  c,
		cfg:    cfg,
		logger: logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and supported games.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Lottery Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"games":   config.GameIDs,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
