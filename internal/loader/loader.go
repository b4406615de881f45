// Package loader binds a fetch function to a mount/update/unmount lifecycle
// and exposes its progress as a uniform State.
package loader

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/hashtagchobi/chobi-site/internal/cache"
)

// State is the observable result of a Loader. Data keeps the last successful
// result and is nil until the first one.
type State[T any] struct {
	Data    *T     `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cached routes fetch through c under key, sharing in-flight reads with
// every other caller of the same key.
func Cached[T any](c *cache.Cache, key string, fetch FetchFunc[T]) FetchFunc[T] {
	return func(ctx context.Context) (T, error) {
		return cache.Fetch(ctx, c, key, fetch)
	}
}

type Option[T any] func(*Loader[T])

// WithObserver registers fn to receive every state transition. fn runs with
// the loader locked and must not call back into it.
func WithObserver[T any](fn func(State[T])) Option[T] {
	return func(l *Loader[T]) {
		l.observers = append(l.observers, fn)
	}
}

type Loader[T any] struct {
	name  string
	fetch FetchFunc[T]

	mu        sync.Mutex
	state     State[T]
	deps      []any
	mounted   bool
	run       uint64
	cancel    context.CancelFunc
	observers []func(State[T])
	updatedAt time.Time
}

func New[T any](name string, fetch FetchFunc[T], opts ...Option[T]) *Loader[T] {
	l := &Loader[T]{name: name, fetch: fetch}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader[T]) Name() string {
	return l.name
}

// State returns a snapshot of the current state.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Summary is a type-erased view of a loader's state.
type Summary struct {
	Name      string    `json:"name"`
	Loading   bool      `json:"loading"`
	Loaded    bool      `json:"loaded"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (l *Loader[T]) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summary{
		Name:      l.name,
		Loading:   l.state.Loading,
		Loaded:    l.state.Data != nil,
		Error:     l.state.Error,
		UpdatedAt: l.updatedAt,
	}
}

// Mount activates the loader with the given dependencies and runs the fetch.
// It blocks until the run settles and returns the resulting state.
func (l *Loader[T]) Mount(ctx context.Context, deps ...any) State[T] {
	l.mu.Lock()
	l.mounted = true
	l.deps = deps
	l.mu.Unlock()
	return l.load(ctx)
}

// Update re-runs the fetch only when deps differ from the previous ones.
// ran reports whether a fetch happened.
func (l *Loader[T]) Update(ctx context.Context, deps ...any) (state State[T], ran bool) {
	l.mu.Lock()
	if !l.mounted {
		state = l.state
		l.mu.Unlock()
		return state, false
	}
	if reflect.DeepEqual(l.deps, deps) {
		state = l.state
		l.mu.Unlock()
		return state, false
	}
	l.deps = deps
	l.mu.Unlock()
	return l.load(ctx), true
}

// Refetch re-runs the fetch with the current dependencies.
func (l *Loader[T]) Refetch(ctx context.Context) State[T] {
	l.mu.Lock()
	mounted := l.mounted
	state := l.state
	l.mu.Unlock()
	if !mounted {
		return state
	}
	return l.load(ctx)
}

// Unmount cancels the in-flight run. Results arriving afterwards are dropped.
func (l *Loader[T]) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mounted = false
	l.run++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader[T]) load(ctx context.Context) State[T] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.run++
	run := l.run
	l.cancel = cancel
	l.state.Loading = true
	l.state.Error = ""
	l.notify()
	l.mu.Unlock()

	value, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if run != l.run {
		// a newer run or an unmount superseded this one
		return l.state
	}
	l.cancel = nil
	l.state.Loading = false
	if err != nil {
		l.state.Error = err.Error()
		if l.state.Error == "" {
			l.state.Error = "unknown error"
		}
	} else {
		l.state.Data = &value
		l.updatedAt = time.Now()
	}
	l.notify()
	return l.state
}

// notify must be called with mu held.
func (l *Loader[T]) notify() {
	for _, fn := range l.observers {
		fn(l.state)
	}
}
