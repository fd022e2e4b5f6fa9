package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/albapepper/lottery-data/internal/provider"
)

const lockTTL = time.Minute

func newTestClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2, MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisLocker(newTestClient(t, mr), lockTTL, nil), mr
}

func TestRedisLockerContention(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLocker(t)
	key := "lottery:sync:lock:loto"

	release, err := l.Acquire(ctx, provider.Loto)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatalf("lock key %s not set", key)
	}
	if ttl := mr.TTL(key); ttl != lockTTL {
		t.Errorf("lock TTL = %s, want %s", ttl, lockTTL)
	}

	if _, err := l.Acquire(ctx, provider.Loto); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("second Acquire err = %v, want ErrSyncInProgress", err)
	}

	// Other games have their own key.
	releaseEuro, err := l.Acquire(ctx, provider.EuroMillions)
	if err != nil {
		t.Fatalf("Acquire(euromillions): %v", err)
	}
	releaseEuro()

	release()
	if mr.Exists(key) {
		t.Fatal("lock key still set after release")
	}
	again, err := l.Acquire(ctx, provider.Loto)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

func TestRedisLockerReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLocker(t)
	key := "lottery:sync:lock:crescendo"

	stale, err := l.Acquire(ctx, provider.Crescendo)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// The first holder overruns its TTL and another process takes the lock.
	mr.FastForward(lockTTL + time.Second)
	if mr.Exists(key) {
		t.Fatal("lock key survived its TTL")
	}
	current, err := l.Acquire(ctx, provider.Crescendo)
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}
	token, _ := mr.Get(key)

	stale()
	if got, _ := mr.Get(key); got != token {
		t.Fatalf("stale release changed the lock: %q, want %q", got, token)
	}
	if _, err := l.Acquire(ctx, provider.Crescendo); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("Acquire err = %v, want ErrSyncInProgress", err)
	}

	current()
	if mr.Exists(key) {
		t.Error("lock key still set after the holder released it")
	}
}

func TestRedisLockerReleaseAfterExpiry(t *testing.T) {
	l, mr := newTestLocker(t)

	release, err := l.Acquire(context.Background(), provider.EuroDreams)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mr.FastForward(lockTTL + time.Second)
	release() // nothing to delete; must not panic or recreate the key

	if mr.Exists("lottery:sync:lock:eurodreams") {
		t.Error("release recreated an expired lock")
	}
}

func TestRedisLockerUnavailable(t *testing.T) {
	l, mr := newTestLocker(t)
	mr.Close()

	_, err := l.Acquire(context.Background(), provider.Loto)
	if err == nil {
		t.Fatal("Acquire succeeded with Redis down")
	}
	if errors.Is(err, ErrSyncInProgress) {
		t.Errorf("connection failure reported as contention: %v", err)
	}
}

func TestSyncersShareRedisLock(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	newSyncer := func(f *fakeFetcher) *Syncer {
		locker := NewRedisLocker(newTestClient(t, mr), lockTTL, nil)
		return NewSyncer(f, newMemStore(), Options{Locker: locker}, nil)
	}

	first, second := &fakeFetcher{}, &fakeFetcher{}
	a, b := newSyncer(first), newSyncer(second)

	// a holds loto while b, standing in for another process, tries to sync it.
	err := a.Exclusive(ctx, provider.Loto, func(ctx context.Context) error {
		if _, err := b.Sync(ctx, provider.Loto); !errors.Is(err, ErrSyncInProgress) {
			t.Errorf("Sync on second instance err = %v, want ErrSyncInProgress", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Exclusive: %v", err)
	}
	if second.calls != 0 {
		t.Errorf("second instance fetched %d times while locked out", second.calls)
	}

	if _, err := b.Sync(ctx, provider.Loto); err != nil {
		t.Fatalf("Sync after release: %v", err)
	}
	if second.calls != 1 {
		t.Errorf("second instance fetch calls = %d, want 1", second.calls)
	}
}
