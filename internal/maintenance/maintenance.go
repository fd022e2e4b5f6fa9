// Package maintenance runs periodic background tasks as Go tickers: the
// scheduled sync of every game and an optional full stats refresh. The API
// server is long-running, so scheduling lives here instead of in cron.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/lottery-data/internal/ingest"
	"github.com/albapepper/lottery-data/internal/provider"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	SyncInterval    time.Duration // Sync every game from the FDJ API
	RefreshInterval time.Duration // Recompute stats and metadata from stored draws
	Workers         int           // Games synced concurrently
}

// Deps are the collaborators the tasks run against.
type Deps struct {
	Syncer     *ingest.Syncer
	Store      StatsStore
	Invalidate func(game provider.Game) int // optional cache drop after refresh
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"sync", cfg.SyncInterval,
		"refresh", cfg.RefreshInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.SyncInterval > 0 && deps.Syncer != nil {
		t := time.NewTicker(cfg.SyncInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "sync", func() {
			ingest.SyncAll(ctx, deps.Syncer, ingest.AllGames(), cfg.Workers, logger)
		})
	}

	if cfg.RefreshInterval > 0 && deps.Syncer != nil && deps.Store != nil {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "refresh", func() {
			games := ingest.AllGames()
			if err := RefreshStats(ctx, deps.Syncer, deps.Store, games, logger); err != nil {
				logger.Warn("Scheduled stats refresh incomplete", "error", err)
			}
			if deps.Invalidate != nil {
				for _, g := range games {
					deps.Invalidate(g)
				}
			}
		})
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

// runLoop runs fn on every tick until ctx is done. Ticks are not queued
// while fn runs, so a slow task skips rather than stacks.
func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
