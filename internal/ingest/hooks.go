package ingest

import (
	"context"
	"time"

	"github.com/albapepper/lottery-data/internal/notifications"
	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/publisher"
)

// --------------------------------------------------------------------------
// Post-sync hooks, registered in this order by the commands:
// metadata → cache invalidation → stream event → Telegram report.
// --------------------------------------------------------------------------

// MetadataWriter persists a game's metadata row.
type MetadataWriter interface {
	UpsertMetadata(ctx context.Context, m provider.Metadata) error
}

// MetadataHook records the history size and newest draw date the stats pass
// saw. It does nothing when the stats pass did not run.
func MetadataHook(w MetadataWriter) Hook {
	return Hook{Name: "metadata", Fn: func(ctx context.Context, res *Result) error {
		if res.Draws == 0 {
			return nil
		}
		return w.UpsertMetadata(ctx, provider.Metadata{
			Game:       res.Game,
			LatestDraw: res.LatestDraw,
			TotalDraws: res.Draws,
			UpdatedAt:  time.Now().UTC(),
		})
	}}
}

// CacheHook drops cached API responses for the synced game.
func CacheHook(invalidate func(game provider.Game) int) Hook {
	return Hook{Name: "cache", Fn: func(ctx context.Context, res *Result) error {
		invalidate(res.Game)
		return nil
	}}
}

// EventPublisher announces completed syncs.
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, ev publisher.SyncEvent) error
}

// EventHook publishes a sync-completed event.
func EventHook(p EventPublisher) Hook {
	return Hook{Name: "event", Fn: func(ctx context.Context, res *Result) error {
		ev := publisher.SyncEvent{
			RunID:        res.RunID.String(),
			Game:         string(res.Game),
			Inserted:     res.Inserted,
			Total:        res.Total,
			StatsUpdated: res.StatsUpdated,
			CompletedAt:  res.StartedAt.Add(res.Duration).UTC(),
		}
		if res.LatestDraw != nil {
			ev.LatestDraw = res.LatestDraw.Format(provider.DateLayout)
		}
		return p.PublishSyncCompleted(ctx, ev)
	}}
}

// MessageSender delivers a plain-text message.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// ReportHook sends a sync report.
func ReportHook(s MessageSender) Hook {
	return Hook{Name: "report", Fn: func(ctx context.Context, res *Result) error {
		return s.Send(ctx, notifications.BuildMessage(notifications.Report{
			Game:         string(res.Game),
			GameName:     res.Game.Config().Name,
			Inserted:     res.Inserted,
			Total:        res.Total,
			Skipped:      res.Skipped,
			Failed:       res.Failed,
			StatsUpdated: res.StatsUpdated,
			LatestDraw:   res.LatestDraw,
			Duration:     res.Duration,
			Errors:       len(res.Errors),
		}))
	}}
}
