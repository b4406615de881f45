// Package cache keeps recently fetched content for a fixed time window so
// repeated page loads do not re-read the document store.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry stays fresh.
const DefaultTTL = 5 * time.Minute

// Backend stores raw entries. Implementations may evict entries after ttl on
// their own; freshness is still decided by Cache from the entry timestamp.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

type entry struct {
	Value    json.RawMessage `json:"value"`
	StoredAt time.Time       `json:"storedAt"`
}

// Stats are counters since the cache was created.
type Stats struct {
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
	Loads  int64  `json:"loads"`
	Errors int64  `json:"errors"`
	TTL    string `json:"ttl"`
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

type Cache struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time

	// mu guards the eviction generations and the load group. Writes from
	// loads hold it shared so an eviction cannot slip between the
	// generation check and the backend write.
	mu     sync.RWMutex
	group  *singleflight.Group
	gen    uint64
	keyGen map[string]uint64

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
	errors atomic.Int64
}

func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttl:     DefaultTTL,
		now:     time.Now,
		group:   &singleflight.Group{},
		keyGen:  map[string]uint64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get decodes the entry for key into out and reports whether it was a fresh
// hit. Backend failures and undecodable entries count as misses.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.errors.Add(1)
		slog.WarnContext(
			ctx, "Cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
	if err != nil || !ok {
		c.misses.Add(1)
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.misses.Add(1)
		return false
	}
	if c.now().Sub(e.StoredAt) >= c.ttl {
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		c.misses.Add(1)
		return false
	}

	c.hits.Add(1)
	return true
}

// Set stores value under key stamped with the current time, overwriting any
// previous entry.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(entry{Value: payload, StoredAt: c.now()})
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, key, raw, c.ttl)
}

// ClearEntry evicts a single key. A load for key that is still running
// returns its result to its callers but does not write it back, and the
// next Fetch starts a new load.
func (c *Cache) ClearEntry(ctx context.Context, key string) error {
	c.mu.Lock()
	c.keyGen[key]++
	c.group.Forget(key)
	c.mu.Unlock()
	return c.backend.Delete(ctx, key)
}

// Clear evicts everything, with the same effect on running loads as
// ClearEntry.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	c.group = &singleflight.Group{}
	c.mu.Unlock()
	return c.backend.Flush(ctx)
}

// generation changes whenever key is evicted. Callers hold mu.
func (c *Cache) generation(key string) uint64 {
	return c.gen + c.keyGen[key]
}

// loadGroup returns the current load group and the generation of key.
func (c *Cache) loadGroup(key string) (*singleflight.Group, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.group, c.generation(key)
}

// setIfCurrent writes value unless key was evicted after gen was read.
func (c *Cache) setIfCurrent(ctx context.Context, key string, gen uint64, value any) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.generation(key) != gen {
		return false, nil
	}
	return true, c.Set(ctx, key, value)
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Loads:  c.loads.Load(),
		Errors: c.errors.Load(),
		TTL:    c.ttl.String(),
	}
}
