package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(NewMemory(DefaultTTL), WithClock(clock.Now)), clock
}

type item struct {
	Name string `json:"name"`
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache()
	var out item
	if c.Get(context.Background(), "missing", &out) {
		t.Fatalf("expected miss")
	}
}

func TestSetThenGetWithinTTL(t *testing.T) {
	c, clock := newTestCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", item{Name: "a"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	clock.Advance(DefaultTTL - time.Second)

	var out item
	if !c.Get(ctx, "k", &out) {
		t.Fatalf("expected hit within ttl")
	}
	if out.Name != "a" {
		t.Fatalf("unexpected value %+v", out)
	}
}

func TestGetExpiresAtTTL(t *testing.T) {
	c, clock := newTestCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", item{Name: "a"})
	clock.Advance(DefaultTTL)

	var out item
	if c.Get(ctx, "k", &out) {
		t.Fatalf("entry must be stale once ttl elapsed")
	}
}

func TestSetOverwrites(t *testing.T) {
	c, clock := newTestCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", item{Name: "a"})
	clock.Advance(4 * time.Minute)
	_ = c.Set(ctx, "k", item{Name: "b"})
	clock.Advance(4 * time.Minute)

	var out item
	if !c.Get(ctx, "k", &out) || out.Name != "b" {
		t.Fatalf("overwrite must refresh value and timestamp, got %+v", out)
	}
}

func TestClearAndClearEntry(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	_ = c.Set(ctx, "a", item{Name: "a"})
	_ = c.Set(ctx, "b", item{Name: "b"})

	if err := c.ClearEntry(ctx, "a"); err != nil {
		t.Fatalf("clear entry: %v", err)
	}
	var out item
	if c.Get(ctx, "a", &out) {
		t.Fatalf("a must be evicted")
	}
	if !c.Get(ctx, "b", &out) {
		t.Fatalf("b must survive ClearEntry(a)")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c.Get(ctx, "b", &out) {
		t.Fatalf("b must be evicted by Clear")
	}
}

func TestFetchReadsOnceWithinTTL(t *testing.T) {
	c, clock := newTestCache()
	ctx := context.Background()

	var calls atomic.Int32
	fn := func(context.Context) ([]item, error) {
		calls.Add(1)
		return []item{{Name: "x"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, "list", fn)
		if err != nil || len(got) != 1 || got[0].Name != "x" {
			t.Fatalf("unexpected fetch result %v %v", got, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one underlying read, got %d", calls.Load())
	}

	clock.Advance(DefaultTTL + time.Second)
	if _, err := Fetch(ctx, c, "list", fn); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a second read after ttl, got %d", calls.Load())
	}

	stats := c.Stats()
	if stats.Loads != 2 || stats.Hits != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	boom := errors.New("boom")
	var calls int
	fn := func(context.Context) (item, error) {
		calls++
		if calls == 1 {
			return item{}, boom
		}
		return item{Name: "ok"}, nil
	}

	if _, err := Fetch(ctx, c, "k", fn); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := Fetch(ctx, c, "k", fn)
	if err != nil || got.Name != "ok" {
		t.Fatalf("expected retry to succeed, got %v %v", got, err)
	}
}

func TestFetchIfSkipsUnwantedValues(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	var calls int
	fn := func(context.Context) (*item, error) {
		calls++
		return nil, nil
	}
	keep := func(v *item) bool { return v != nil }

	_, _ = FetchIf(ctx, c, "home", fn, keep)
	_, _ = FetchIf(ctx, c, "home", fn, keep)
	if calls != 2 {
		t.Fatalf("nil results must not be cached, got %d calls", calls)
	}
}

func TestFetchDeduplicatesInFlight(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	fn := func(context.Context) (item, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return item{Name: "shared"}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan item, workers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, _ := Fetch(ctx, c, "k", fn)
		results <- v
	}()
	<-started
	for i := 1; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := Fetch(ctx, c, "k", fn)
			results <- v
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		if v.Name != "shared" {
			t.Fatalf("unexpected value %+v", v)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one in-flight read, got %d", calls.Load())
	}
}

func TestClearEntryDropsRunningLoad(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan item, 1)
	go func() {
		v, _ := Fetch(ctx, c, "hero-data", func(context.Context) (item, error) {
			close(started)
			<-release
			return item{Name: "old"}, nil
		})
		done <- v
	}()
	<-started

	if err := c.ClearEntry(ctx, "hero-data"); err != nil {
		t.Fatalf("clear entry: %v", err)
	}
	fresh, err := Fetch(ctx, c, "hero-data", func(context.Context) (item, error) {
		return item{Name: "new"}, nil
	})
	if err != nil || fresh.Name != "new" {
		t.Fatalf("fetch after eviction must reload, got %+v %v", fresh, err)
	}

	close(release)
	if v := <-done; v.Name != "old" {
		t.Fatalf("running load must still return its own result, got %+v", v)
	}

	var out item
	if !c.Get(ctx, "hero-data", &out) || out.Name != "new" {
		t.Fatalf("evicted load must not overwrite the reloaded entry, got %+v", out)
	}
}

func TestClearDropsRunningLoads(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(ctx, c, "gallery-data", func(context.Context) (item, error) {
			close(started)
			<-release
			return item{Name: "old"}, nil
		})
	}()
	<-started

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	var calls atomic.Int32
	fresh, err := Fetch(ctx, c, "gallery-data", func(context.Context) (item, error) {
		calls.Add(1)
		return item{Name: "new"}, nil
	})
	if err != nil || fresh.Name != "new" || calls.Load() != 1 {
		t.Fatalf("fetch after Clear must start a new load, got %+v %v calls=%d", fresh, err, calls.Load())
	}

	close(release)
	<-done

	var out item
	if !c.Get(ctx, "gallery-data", &out) || out.Name != "new" {
		t.Fatalf("load started before Clear must not be written back, got %+v", out)
	}
}
