package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/stats"
)

// StatsStore is what a stats refresh reads and writes.
type StatsStore interface {
	stats.Store
	UpsertMetadata(ctx context.Context, m provider.Metadata) error
}

// Guard runs fn with exclusive access to a game's draws and stats.
// *ingest.Syncer implements it with its sync locks.
type Guard interface {
	Exclusive(ctx context.Context, game provider.Game, fn func(ctx context.Context) error) error
}

// RefreshStats recomputes stats and metadata of every game from stored
// draws, without touching the FDJ API. Each game is refreshed under guard so
// a concurrent sync of that game waits for it (or, across processes, the
// refresh fails fast). A failing game does not stop the others; all failures
// are joined into the returned error.
func RefreshStats(ctx context.Context, guard Guard, store StatsStore, games []provider.Game, logger *slog.Logger) error {
	var errs []error
	for _, game := range games {
		err := guard.Exclusive(ctx, game, func(ctx context.Context) error {
			return refreshGame(ctx, store, game, logger)
		})
		if err != nil {
			logger.Warn("Failed to refresh stats", "game", game, "error", err)
			errs = append(errs, fmt.Errorf("refresh %s: %w", game, err))
		}
	}
	return errors.Join(errs...)
}

func refreshGame(ctx context.Context, store StatsStore, game provider.Game, logger *slog.Logger) error {
	start := time.Now()
	out, err := stats.Recompute(ctx, store, game, logger)
	if err != nil {
		return err
	}
	if out.Skipped {
		return nil
	}

	if err := store.UpsertMetadata(ctx, provider.Metadata{
		Game:       game,
		LatestDraw: out.Latest,
		TotalDraws: out.Draws,
		UpdatedAt:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	logger.Info("Refreshed stats", "game", game, "draws", out.Draws,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}
