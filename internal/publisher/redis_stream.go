// Package publisher emits lottery events on Redis streams.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SyncCompletedStream receives one entry per successful sync.
const SyncCompletedStream = "lottery.sync.completed"

// streamMaxLen caps the stream; older entries are trimmed approximately.
const streamMaxLen = 1000

// SyncEvent is the payload of a SyncCompletedStream entry.
type SyncEvent struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	Game         string    `json:"game"`
	Inserted     int       `json:"inserted"`
	Total        int       `json:"total"`
	StatsUpdated int       `json:"stats_updated"`
	LatestDraw   string    `json:"latest_draw,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// RedisStreamPublisher publishes events to Redis streams.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client}
}

// PublishSyncCompleted appends ev to SyncCompletedStream.
func (p *RedisStreamPublisher) PublishSyncCompleted(ctx context.Context, ev SyncEvent) error {
	values, err := eventValues(ev)
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: SyncCompletedStream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", SyncCompletedStream, err)
	}
	return nil
}

// eventValues renders the stream entry fields, filling the id and time when
// unset.
func eventValues(ev SyncEvent) (map[string]interface{}, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CompletedAt.IsZero() {
		ev.CompletedAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal sync event: %w", err)
	}
	return map[string]interface{}{
		"game":      ev.Game,
		"data":      string(data),
		"timestamp": ev.CompletedAt.Unix(),
	}, nil
}
