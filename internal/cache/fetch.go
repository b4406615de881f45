package cache

import (
	"context"
	"log/slog"
)

// Fetch returns the fresh cached value for key, or calls fn, caches its
// result and returns it. Concurrent calls for the same key share one fn
// call. Errors from fn are returned and never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	return fetch(ctx, c, key, fn, nil)
}

// FetchIf is Fetch but only caches results for which keep returns true.
func FetchIf[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error), keep func(T) bool) (T, error) {
	return fetch(ctx, c, key, fn, keep)
}

func fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error), keep func(T) bool) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	// The shared call outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	group, gen := c.loadGroup(key)
	v, err, _ := group.Do(key, func() (any, error) {
		c.loads.Add(1)
		value, err := fn(shared)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(value) {
			stored, err := c.setIfCurrent(shared, key, gen, value)
			if !stored && err == nil {
				slog.DebugContext(
					shared, "Dropped load result for evicted entry",
					slog.String("key", key),
					slog.String("module", "cache"),
				)
			}
			if err != nil {
				c.errors.Add(1)
				slog.WarnContext(
					shared, "Cache write failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
					slog.String("module", "cache"),
				)
			}
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
