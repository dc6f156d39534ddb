package trackx

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Abraxas-365/orquesta/pkg/logx"
)

// ─── Cache ────────────────────────────────────────────────────────────────────

// Cache is a bounded TTL map. Entries expire on read past their deadline,
// and inserting into a full cache evicts the entry closest to expiry.
type Cache[T any] struct {
	maxSize int
	ttl     time.Duration
	clock   clockwork.Clock
	janitor time.Duration

	mu    sync.Mutex
	items map[string]cacheItem[T]
}

type cacheItem[T any] struct {
	val       T
	expiresAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	clock   clockwork.Clock
	janitor time.Duration
}

// WithCacheClock injects the clock used for TTL decisions.
func WithCacheClock(c clockwork.Clock) CacheOption {
	return func(cfg *cacheConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithJanitorInterval sets how often Janitor evicts expired entries.
func WithJanitorInterval(d time.Duration) CacheOption {
	return func(cfg *cacheConfig) {
		if d > 0 {
			cfg.janitor = d
		}
	}
}

// NewCache creates a Cache holding at most maxSize entries, each living
// for defaultTTL unless SetTTL says otherwise.
func NewCache[T any](maxSize int, defaultTTL time.Duration, opts ...CacheOption) *Cache[T] {
	cfg := cacheConfig{
		clock:   clockwork.NewRealClock(),
		janitor: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if maxSize < 1 {
		maxSize = 1
	}

	return &Cache[T]{
		maxSize: maxSize,
		ttl:     defaultTTL,
		clock:   cfg.clock,
		janitor: cfg.janitor,
		items:   make(map[string]cacheItem[T]),
	}
}

// Set stores val under key with the default TTL.
func (c *Cache[T]) Set(key string, val T) {
	c.SetTTL(key, val, c.ttl)
}

// SetTTL stores val under key with its own TTL. When the cache is full and
// key is new, the entry expiring soonest is evicted to make room.
func (c *Cache[T]) SetTTL(key string, val T, ttl time.Duration) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictSoonestLocked()
	}
	c.items[key] = cacheItem[T]{val: val, expiresAt: now.Add(ttl)}
}

// Get returns the live value under key. An expired entry is deleted and
// reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if now.After(item.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return item.val, true
}

// Delete removes key, reporting whether it was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// Len returns the number of stored entries, expired ones included until
// they are read or swept.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge drops every entry.
func (c *Cache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem[T])
}

// Janitor evicts expired entries on a fixed cadence until ctx is
// cancelled. Run it in its own goroutine.
func (c *Cache[T]) Janitor(ctx context.Context) {
	ticker := c.clock.NewTicker(c.janitor)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if evicted := c.evictExpired(); evicted > 0 {
				logx.Component("trackx").
					WithField("evicted", evicted).
					Debug("cache janitor evicted expired entries")
			}
		}
	}
}

func (c *Cache[T]) evictExpired() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			evicted++
		}
	}
	for len(c.items) > c.maxSize {
		c.evictSoonestLocked()
		evicted++
	}
	return evicted
}

// evictSoonestLocked removes the entry with the nearest expiry.
// Caller holds the lock.
func (c *Cache[T]) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	first := true

	for key, item := range c.items {
		if first || item.expiresAt.Before(soonest) {
			victim = key
			soonest = item.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, victim)
	}
}
