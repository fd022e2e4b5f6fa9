package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/lottery-data/internal/provider"
)

// Result tracks counts and non-fatal errors from one sync run.
type Result struct {
	RunID uuid.UUID
	Game  provider.Game

	Total    int // records fetched
	Parsed   int
	Skipped  int // records the parser rejected
	Inserted int // draws whose date was new
	Updated  int // draws that replaced an existing date
	Failed   int // draw upserts that errored

	StatsUpdated int
	StatsFailed  int
	Draws        int        // stored history size seen by the stats pass
	LatestDraw   *time.Time // newest stored draw date

	StartedAt time.Time
	Duration  time.Duration
	Errors    []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the sync.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"game=%s fetched=%d parsed=%d skipped=%d inserted=%d updated=%d failed=%d stats=%d errors=%d",
		r.Game, r.Total, r.Parsed, r.Skipped, r.Inserted, r.Updated, r.Failed,
		r.StatsUpdated, len(r.Errors),
	)
}

// BatchResult aggregates the per-game results of a SyncAll run.
type BatchResult struct {
	Results   []Result
	Succeeded int
	Failed    int
	Inserted  int
	Duration  time.Duration
	Errors    []string
}

// Summary returns a human-readable summary of the batch.
func (b *BatchResult) Summary() string {
	return fmt.Sprintf("games=%d succeeded=%d failed=%d inserted=%d errors=%d",
		len(b.Results), b.Succeeded, b.Failed, b.Inserted, len(b.Errors))
}
