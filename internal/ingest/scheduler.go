package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/provider"
)

// SyncAll syncs every game with a worker pool across games. A failed game is
// recorded in the batch and does not stop the others.
func SyncAll(ctx context.Context, syncer *Syncer, games []provider.Game, workers int, logger *slog.Logger) BatchResult {
	start := time.Now()
	var batch BatchResult

	if len(games) == 0 {
		logger.Info("No games to sync")
		return batch
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(games) {
		workers = len(games)
	}

	ch := make(chan provider.Game, len(games))
	for _, g := range games {
		ch <- g
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range ch {
				res, err := syncer.Sync(ctx, game)
				if res.Game == "" {
					res.Game = game
				}

				mu.Lock()
				if err != nil {
					batch.Failed++
					batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", game, err))
					logger.Error("Sync failed", "game", game, "error", err)
				} else {
					batch.Succeeded++
					batch.Inserted += res.Inserted
				}
				batch.Results = append(batch.Results, res)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	batch.Duration = time.Since(start)

	logger.Info("Sync batch complete", "summary", batch.Summary(), "duration", batch.Duration.Round(time.Millisecond))
	return batch
}

// AllGames returns every registered game in display order.
func AllGames() []provider.Game {
	games := make([]provider.Game, 0, len(config.GameIDs))
	for _, id := range config.GameIDs {
		games = append(games, provider.Game(id))
	}
	return games
}
