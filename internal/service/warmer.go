package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashtagchobi/chobi-site/internal/loader"
)

type warmEntry struct {
	summary func() loader.Summary
	mount   func(context.Context) string
	refetch func(context.Context) string
	unmount func()
}

// Warmer keeps a set of loaders fresh in the background so that page
// requests find the cache populated.
type Warmer struct {
	mu      sync.Mutex
	entries []warmEntry
	kick    chan struct{}
}

func NewWarmer() *Warmer {
	return &Warmer{kick: make(chan struct{}, 1)}
}

// Warm registers l with w.
func Warm[T any](w *Warmer, l *loader.Loader[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, warmEntry{
		summary: l.Summary,
		mount: func(ctx context.Context) string {
			return l.Mount(ctx).Error
		},
		refetch: func(ctx context.Context) string {
			return l.Refetch(ctx).Error
		},
		unmount: l.Unmount,
	})
}

// Status reports every registered loader.
func (w *Warmer) Status() []loader.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	result := make([]loader.Summary, 0, len(w.entries))
	for _, e := range w.entries {
		result = append(result, e.summary())
	}
	return result
}

// Trigger asks a running warmer to refresh now. Repeated triggers before
// the refresh starts collapse into one.
func (w *Warmer) Trigger() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Refresh refetches every mounted loader once.
func (w *Warmer) Refresh(ctx context.Context) {
	w.each(ctx, func(e warmEntry) func(context.Context) string { return e.refetch })
}

func (w *Warmer) each(ctx context.Context, pick func(warmEntry) func(context.Context) string) {
	w.mu.Lock()
	entries := append([]warmEntry(nil), w.entries...)
	w.mu.Unlock()

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if msg := pick(e)(ctx); msg != "" {
				slog.WarnContext(
					ctx, "Background refresh failed",
					slog.String("loader", e.summary().Name),
					slog.String("error", msg),
					slog.String("module", "warmer"),
				)
			}
		}()
	}
	wg.Wait()
}

// Run mounts every loader, then refreshes every interval and on Trigger
// until ctx is done. A zero interval refreshes only on Trigger.
func (w *Warmer) Run(ctx context.Context, interval time.Duration) {
	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for _, e := range w.entries {
			e.unmount()
		}
	}()

	w.each(ctx, func(e warmEntry) func(context.Context) string { return e.mount })

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			w.Refresh(ctx)
		case <-w.kick:
			w.Refresh(ctx)
		}
	}
}
