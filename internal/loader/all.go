package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source is one named fetch of a combined load.
type Source struct {
	Name  string
	Fetch func(ctx context.Context) (any, error)
}

// SourceOf adapts a typed fetch function to a Source.
func SourceOf[T any](name string, fetch FetchFunc[T]) Source {
	return Source{
		Name: name,
		Fetch: func(ctx context.Context) (any, error) {
			return fetch(ctx)
		},
	}
}

// All runs every source concurrently and returns the results by name. The
// first failure cancels the rest and is returned alone.
func All(ctx context.Context, sources ...Source) (map[string]any, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]any, len(sources))
	for _, src := range sources {
		g.Go(func() error {
			v, err := src.Fetch(gctx)
			if err != nil {
				return err
			}
			mu.Lock()
			results[src.Name] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
