package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/albapepper/lottery-data/internal/provider"
)

// Locker serializes syncs of one game across processes. Acquire returns
// ErrSyncInProgress when the game is already locked elsewhere.
type Locker interface {
	Acquire(ctx context.Context, game provider.Game) (release func(), err error)
}

// gameMutexes serializes syncs of one game inside this process. Different
// games never block each other.
type gameMutexes struct {
	mu    sync.Mutex
	locks map[provider.Game]*sync.Mutex
}

func (g *gameMutexes) lock(game provider.Game) (unlock func()) {
	g.mu.Lock()
	if g.locks == nil {
		g.locks = make(map[provider.Game]*sync.Mutex)
	}
	m, ok := g.locks[game]
	if !ok {
		m = &sync.Mutex{}
		g.locks[game] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-taken by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a SET NX lock per game with a TTL bounding how long a
// crashed holder can block others.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewRedisLocker creates a lock on keys "<prefix><game>".
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, ttl: ttl, prefix: "lottery:sync:lock:", logger: logger}
}

// Acquire takes the game's lock without waiting.
func (l *RedisLocker) Acquire(ctx context.Context, game provider.Game) (func(), error) {
	key := l.prefix + string(game)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", game, ErrSyncInProgress)
	}

	return func() {
		// The sync's context may already be cancelled; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("Failed to release sync lock", "key", key, "error", err)
		}
	}, nil
}
