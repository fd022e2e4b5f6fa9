// Package stats recomputes per-number frequency statistics from a game's full
// draw history. Every run rebuilds the whole stat set; nothing is patched
// incrementally.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/provider"
)

// Temperature thresholds relative to the mean occurrence count.
const (
	hotFactor  = 1.1
	coldFactor = 0.9
)

// Store is the slice of the draw store the aggregator needs.
type Store interface {
	ListDraws(ctx context.Context, game provider.Game, limit int) ([]provider.Draw, error)
	UpsertStat(ctx context.Context, stat provider.NumberStat) error
}

// Outcome reports what a Recompute pass did.
type Outcome struct {
	Draws    int
	Latest   *time.Time
	Upserted int
	Failed   int
	Skipped  bool // no draws stored yet
}

// Compute derives one NumberStat per number in 1..MaxNumber from draws.
// Draws are ranked most-recent-first regardless of input order; an empty
// history yields no stats.
func Compute(game provider.Game, draws []provider.Draw) []provider.NumberStat {
	total := len(draws)
	maxNumber := game.MaxNumber()
	if total == 0 || maxNumber == 0 {
		return nil
	}

	ordered := slices.Clone(draws)
	slices.SortStableFunc(ordered, func(a, b provider.Draw) int {
		return b.Date.Compare(a.Date)
	})

	occurrences := make([]int, maxNumber+1)
	recency := make([]int, maxNumber+1)
	for n := 1; n <= maxNumber; n++ {
		recency[n] = total
	}

	for idx, d := range ordered {
		for _, n := range d.Numbers {
			if n < 1 || n > maxNumber {
				continue
			}
			occurrences[n]++
			if recency[n] == total {
				recency[n] = idx
			}
		}
	}

	sum := 0
	for n := 1; n <= maxNumber; n++ {
		sum += occurrences[n]
	}
	mean := float64(sum) / float64(maxNumber)

	out := make([]provider.NumberStat, 0, maxNumber)
	for n := 1; n <= maxNumber; n++ {
		out = append(out, provider.NumberStat{
			Game:         game,
			Kind:         config.StatKindNumber,
			Number:       n,
			Occurrences:  occurrences[n],
			RecencyIndex: recency[n],
			AverageGap:   AverageGap(total, occurrences[n]),
			Temperature:  Classify(occurrences[n], mean),
		})
	}
	return out
}

// Classify buckets an occurrence count against the mean. Both thresholds are
// strict, so a count sitting exactly on 1.1×mean or 0.9×mean is neutral.
func Classify(occurrences int, mean float64) provider.Temperature {
	occ := float64(occurrences)
	switch {
	case occ > mean*hotFactor:
		return provider.Hot
	case occ < mean*coldFactor:
		return provider.Cold
	default:
		return provider.Neutral
	}
}

// AverageGap is round(totalDraws / max(occurrences, 1)).
func AverageGap(totalDraws, occurrences int) int {
	return int(math.Round(float64(totalDraws) / float64(max(occurrences, 1))))
}

// Recompute reads the full history of game, computes its stats and upserts
// every row. A failed row upsert is logged and counted; the remaining rows
// are still written. With no stored draws it is a no-op.
func Recompute(ctx context.Context, store Store, game provider.Game, logger *slog.Logger) (Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}

	draws, err := store.ListDraws(ctx, game, 0)
	if err != nil {
		return Outcome{}, fmt.Errorf("list %s draws: %w", game, err)
	}

	outcome := Outcome{Draws: len(draws)}
	if len(draws) == 0 {
		logger.Info("No draws to compute stats", "game", game)
		outcome.Skipped = true
		return outcome, nil
	}

	for _, d := range draws {
		if outcome.Latest == nil || d.Date.After(*outcome.Latest) {
			latest := d.Date
			outcome.Latest = &latest
		}
	}

	for _, s := range Compute(game, draws) {
		if err := store.UpsertStat(ctx, s); err != nil {
			logger.Warn("Stat upsert failed", "game", game, "numero", s.Number, "error", err)
			outcome.Failed++
			continue
		}
		outcome.Upserted++
	}

	logger.Info("Updated stats", "game", game, "draws", outcome.Draws,
		"upserted", outcome.Upserted, "failed", outcome.Failed)
	return outcome, nil
}
