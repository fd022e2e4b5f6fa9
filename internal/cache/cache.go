// Package cache provides an in-memory TTL cache with ETag support for API
// responses, plus the shared Redis connection.
//
// Responses that belong to one game are stored under GameKey so a sync of
// that game can drop them all with DeleteGame.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// TTLs per response family. A sync invalidates its game's keys early.
const (
	TTLGames    = 24 * time.Hour   // Game registry, changes only on deploy
	TTLDraws    = 30 * time.Minute // Draw history
	TTLStats    = 30 * time.Minute // Number stats
	TTLMetadata = 30 * time.Minute
)

const gamePrefix = "game:"

// GameKey builds the cache key of a per-game response, e.g.
// GameKey("loto", "draws", "50") is "game:loto:draws:50".
func GameKey(game string, parts ...string) string {
	return gamePrefix + game + ":" + strings.Join(parts, ":")
}

// gameOf returns the game a key was built for by GameKey, or "".
func gameOf(key string) string {
	rest, ok := strings.CutPrefix(key, gamePrefix)
	if !ok {
		return ""
	}
	game, _, ok := strings.Cut(rest, ":")
	if !ok {
		return ""
	}
	return game
}

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache with a per-game key index.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	games   map[string]map[string]struct{} // game -> keys
	enabled bool

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		games:   make(map[string]map[string]struct{}),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		c.misses.Add(1)
		return nil, "", false
	}
	c.hits.Add(1)
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag. The ETag is computed
// even when the cache is disabled so conditional requests still work.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, etag: etag, expiresAt: time.Now().Add(ttl)}
	if game := gameOf(key); game != "" {
		keys := c.games[game]
		if keys == nil {
			keys = make(map[string]struct{})
			c.games[game] = keys
		}
		keys[key] = struct{}{}
	}
	return etag
}

// DeleteGame drops every cached response of game and returns how many were
// removed. Keys not built with GameKey are left alone.
func (c *Cache) DeleteGame(game string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.games[game]
	for key := range keys {
		delete(c.entries, key)
	}
	delete(c.games, game)
	return len(keys)
}

// Stats reports key counts, hit ratio counters and live keys per game.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	active := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	perGame := make(map[string]int, len(c.games))
	for game, keys := range c.games {
		perGame[game] = len(keys)
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
		"game_keys":    perGame,
		"hits":         c.hits.Load(),
		"misses":       c.misses.Load(),
	}
}

func (c *Cache) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.evict(time.Now())
	}
}

func (c *Cache) evict(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if !now.After(e.expiresAt) {
			continue
		}
		delete(c.entries, key)
		n++
		if game := gameOf(key); game != "" {
			delete(c.games[game], key)
			if len(c.games[game]) == 0 {
				delete(c.games, game)
			}
		}
	}
	return n
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch reports whether an If-None-Match header (a comma-separated
// list, or "*") matches etag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
