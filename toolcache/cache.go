// Package toolcache provides TTL-bounded memoization of tool results.
//
// Entries are keyed by a hash of the tool name plus its canonicalized
// arguments, so logically identical calls hit the same entry regardless of
// argument key order. The cache is advisory: a miss only costs a redundant
// tool call, while staleness is prevented by strict TTL checks on read.
package toolcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sharkdev/cidinha/internal/canonjson"
)

// DefaultTTL applies when Set is called with a zero TTL.
const DefaultTTL = 10 * time.Minute

type entry struct {
	value     string
	createdAt time.Time
	ttl       time.Duration
}

// Stats holds cache counters.
type Stats struct {
	Size           int
	Hits           uint64
	Misses         uint64
	TotalStored    uint64
	ExpiredCleaned uint64
}

// HitRate returns the fraction of lookups served from cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a thread-safe TTL cache for tool outputs.
// The zero value is not usable; construct with New.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	logger     *slog.Logger

	hits           uint64
	misses         uint64
	totalStored    uint64
	expiredCleaned uint64

	// now is swappable for tests.
	now func() time.Time
}

// New creates a cache with the given default TTL (DefaultTTL if zero).
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// WithLogger sets the logger used for hit/miss diagnostics.
func (c *Cache) WithLogger(logger *slog.Logger) *Cache {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithClock overrides the time source. Intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	if now != nil {
		c.now = now
	}
	return c
}

// Key derives the cache key for a tool call. Arguments with identical
// logical content yield the same key regardless of key order.
func Key(toolName string, args json.RawMessage) (string, error) {
	canonical, err := canonjson.Canonicalize(args)
	if err != nil {
		return "", fmt.Errorf("cache key for %s: %w", toolName, err)
	}
	payload := fmt.Sprintf(`{"args":%s,"tool":%q}`, canonical, toolName)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached value for a tool call, or false if absent or
// expired. Expired entries are removed lazily on read.
func (c *Cache) Get(toolName string, args json.RawMessage) (string, bool) {
	key, err := Key(toolName, args)
	if err != nil {
		// Uncacheable arguments degrade to a miss, never an error.
		c.logger.Warn("cache key derivation failed", "tool", toolName, "error", err)
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}

	if c.now().Sub(e.createdAt) >= e.ttl {
		delete(c.entries, key)
		c.misses++
		c.logger.Debug("cache entry expired", "tool", toolName)
		return "", false
	}

	c.hits++
	c.logger.Debug("cache hit", "tool", toolName)
	return e.value, true
}

// Set stores a tool result. A zero ttl uses the cache default.
func (c *Cache) Set(toolName string, args json.RawMessage, value string, ttl time.Duration) {
	key, err := Key(toolName, args)
	if err != nil {
		c.logger.Warn("cache set skipped", "tool", toolName, "error", err)
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, createdAt: c.now(), ttl: ttl}
	c.totalStored++
}

// CleanupExpired removes all expired entries and returns how many were removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.createdAt) >= e.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.expiredCleaned += uint64(removed)
	if removed > 0 {
		c.logger.Debug("cache cleanup", "removed", removed)
	}
	return removed
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.entries)
	c.entries = make(map[string]entry)
	return count
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:           len(c.entries),
		Hits:           c.hits,
		Misses:         c.misses,
		TotalStored:    c.totalStored,
		ExpiredCleaned: c.expiredCleaned,
	}
}
