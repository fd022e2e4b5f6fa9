// Package notifications sends sync reports to an operator Telegram chat.
//
// A report is built from a completed sync and sent through TelegramSender,
// which is nil-safe: without a bot token every send is a no-op.
package notifications

import (
	"fmt"
	"strings"
	"time"
)

// Report is the part of a sync outcome worth telling an operator about.
type Report struct {
	Game         string
	GameName     string
	Inserted     int
	Total        int
	Skipped      int
	Failed       int
	StatsUpdated int
	LatestDraw   *time.Time
	Duration     time.Duration
	Errors       int
}

// BuildMessage formats a report as a short plain-text message.
func BuildMessage(r Report) string {
	name := r.GameName
	if name == "" {
		name = r.Game
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s sync: %d new %s out of %d fetched\n",
		name, r.Inserted, plural(r.Inserted, "draw", "draws"), r.Total)
	if r.Skipped > 0 || r.Failed > 0 {
		fmt.Fprintf(&b, "Skipped %d, failed %d\n", r.Skipped, r.Failed)
	}
	fmt.Fprintf(&b, "Stats updated for %d numbers\n", r.StatsUpdated)
	if r.LatestDraw != nil {
		fmt.Fprintf(&b, "Latest draw: %s\n", r.LatestDraw.Format("2006-01-02"))
	}
	if r.Errors > 0 {
		fmt.Fprintf(&b, "Errors: %d\n", r.Errors)
	}
	fmt.Fprintf(&b, "Took %s", r.Duration.Round(time.Millisecond))
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
