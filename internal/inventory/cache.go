package inventory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"foc-inventory-api/internal/models"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a snapshot is served before re-reading.
const DefaultCacheTTL = 30 * time.Second

// Cache events reported to a CacheObserver.
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheInvalidate = "invalidate"
	CacheError      = "error"
)

// Loader produces a fresh snapshot from the backing store.
type Loader func(ctx context.Context) (models.Snapshot, error)

// CacheObserver receives cache events, typically for metrics.
type CacheObserver interface {
	ObserveCache(event string)
}

// Cache memoizes the materialized snapshot for a TTL. Concurrent misses
// share one load. A load that started before Invalidate is returned to its
// callers but never stored.
type Cache struct {
	load     Loader
	ttl      time.Duration
	now      func() time.Time
	observer CacheObserver
	group    singleflight.Group

	mu      sync.Mutex
	snap    *models.Snapshot
	expires time.Time
	gen     uint64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithObserver reports cache events to o.
func WithObserver(o CacheObserver) CacheOption {
	return func(c *Cache) { c.observer = o }
}

// NewCache wraps load with a TTL cache. A non-positive ttl uses DefaultCacheTTL.
func NewCache(load Loader, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache{load: load, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached snapshot or loads a new one. Errors are not cached.
func (c *Cache) Get(ctx context.Context) (models.Snapshot, error) {
	c.mu.Lock()
	if c.snap != nil && c.now().Before(c.expires) {
		snap := *c.snap
		c.mu.Unlock()
		c.observe(CacheHit)
		return snap, nil
	}
	gen := c.gen
	c.mu.Unlock()
	c.observe(CacheMiss)

	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		snap, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			c.observe(CacheError)
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.snap = &snap
			c.expires = c.now().Add(c.ttl)
		}
		c.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Snapshot{}, res.Err
		}
		return res.Val.(models.Snapshot), nil
	}
}

// Invalidate drops the cached snapshot so the next Get re-reads the store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.gen++
	c.mu.Unlock()
	c.observe(CacheInvalidate)
}

func (c *Cache) observe(event string) {
	if c.observer != nil {
		c.observer.ObserveCache(event)
	}
}
