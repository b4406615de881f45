package carousel

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestCarousel(scrollWidth, clientWidth, initial float64) (*Carousel, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(DefaultConfig(), scrollWidth, clientWidth, initial, WithClock(clock.Now)), clock
}

func TestTickAdvancesRight(t *testing.T) {
	c, _ := newTestCarousel(1000, 400, 0)
	if c.State().Mode != ScrollingRight {
		t.Fatalf("expected to start scrolling right, got %s", c.State().Mode)
	}
	c.Tick()
	c.Tick()
	if got := c.State().Offset; got != 2 {
		t.Fatalf("expected offset 2, got %v", got)
	}
}

func TestTickReversesNearEnds(t *testing.T) {
	// max offset is 600, slack is 10
	c, _ := newTestCarousel(1000, 400, 589)

	c.Tick()
	if s := c.State(); s.Offset != 590 || s.Mode != ScrollingRight {
		t.Fatalf("expected a final step to 590, got %+v", s)
	}
	c.Tick()
	if s := c.State(); s.Offset != 590 || s.Mode != ScrollingLeft {
		t.Fatalf("expected direction flip without moving, got %+v", s)
	}
	c.Tick()
	if got := c.State().Offset; got != 589 {
		t.Fatalf("expected to move left, got %v", got)
	}

	c.Scroll(10)
	c.Tick()
	if s := c.State(); s.Offset != 10 || s.Mode != ScrollingRight {
		t.Fatalf("expected flip back to right at the start, got %+v", s)
	}
}

func TestHoverPausesAndResumesDirection(t *testing.T) {
	c, _ := newTestCarousel(1000, 400, 300)
	c.Scroll(595)
	c.Tick() // flips left

	c.PointerEnter()
	if c.Tick() {
		t.Fatalf("tick must be a no-op while hovered")
	}
	if c.State().Mode != PausedHover {
		t.Fatalf("expected paused-hover, got %s", c.State().Mode)
	}

	c.PointerLeave()
	if c.State().Mode != ScrollingLeft {
		t.Fatalf("expected to resume scrolling left, got %s", c.State().Mode)
	}
}

func TestNavigatePausesForResumeDelay(t *testing.T) {
	c, clock := newTestCarousel(2000, 400, 100)

	c.Navigate(Right)
	s := c.State()
	if s.Offset != 400 || s.Mode != PausedManual {
		t.Fatalf("unexpected state after navigate %+v", s)
	}
	if c.Tick() {
		t.Fatalf("tick must be a no-op during manual pause")
	}

	clock.now = clock.now.Add(999 * time.Millisecond)
	if c.State().Mode != PausedManual {
		t.Fatalf("expected still paused before the delay elapsed")
	}
	clock.now = clock.now.Add(time.Millisecond)
	if c.State().Mode != ScrollingRight {
		t.Fatalf("expected auto-scroll to resume, got %s", c.State().Mode)
	}

	c.Navigate(Left)
	c.Navigate(Left)
	if got := c.State().Offset; got != 0 {
		t.Fatalf("navigation must clamp at the start, got %v", got)
	}
}

func TestCloseCard(t *testing.T) {
	c, _ := newTestCarousel(5000, 1200, 0)
	c.CloseCard(2, DesktopLayout)
	s := c.State()
	if s.Offset != (384+8)*3 || s.CurrentIndex != 2 || s.Mode != PausedManual {
		t.Fatalf("unexpected state %+v", s)
	}

	c.CloseCard(1, LayoutFor(500))
	if got := c.State().Offset; got != (230+4)*2 {
		t.Fatalf("expected mobile geometry, got %v", got)
	}
}

func TestScrollability(t *testing.T) {
	c, _ := newTestCarousel(1000, 400, 0)
	if c.CanScrollLeft() || !c.CanScrollRight() {
		t.Fatalf("at start only right scrolling is possible")
	}
	c.Scroll(600)
	if !c.CanScrollLeft() || c.CanScrollRight() {
		t.Fatalf("at end only left scrolling is possible")
	}

	narrow, _ := newTestCarousel(300, 400, 50)
	if narrow.CanScrollLeft() || narrow.CanScrollRight() || narrow.State().Offset != 0 {
		t.Fatalf("content narrower than the viewport cannot scroll")
	}
}

func TestResizeClampsOffset(t *testing.T) {
	c, _ := newTestCarousel(2000, 400, 1500)
	c.Resize(1000, 400)
	if got := c.State().Offset; got != 600 {
		t.Fatalf("expected offset clamped to 600, got %v", got)
	}
}

func TestRunTicks(t *testing.T) {
	c := New(DefaultConfig(), 1000, 400, 0)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan State, 16)
	go c.Run(ctx, time.Millisecond, func(s State) {
		select {
		case ticks <- s:
		default:
		}
	})

	select {
	case s := <-ticks:
		if s.Offset <= 0 {
			t.Fatalf("expected progress, got %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatalf("no tick observed")
	}
	cancel()
}

func TestPlanFor(t *testing.T) {
	plan := PlanFor(Config{}, 5, 1280)
	if plan.Layout != DesktopLayout {
		t.Fatalf("expected desktop layout, got %+v", plan.Layout)
	}
	if plan.ScrollWidth != 5*384+4*8 {
		t.Fatalf("unexpected scroll width %v", plan.ScrollWidth)
	}
	if plan.IntervalMs != 30 || plan.ResumeDelayMs != 1000 || plan.NavigateStep != 300 {
		t.Fatalf("defaults must fill an empty config, got %+v", plan)
	}
	if plan.Initial.ModeName != "scrolling-right" || plan.Initial.CanScrollLeft || !plan.Initial.CanScrollRight {
		t.Fatalf("unexpected initial state %+v", plan.Initial)
	}

	mobile := PlanFor(DefaultConfig(), 2, 375)
	if mobile.Layout != MobileLayout || mobile.ScrollWidth != 2*230+4 {
		t.Fatalf("unexpected mobile plan %+v", mobile)
	}
	if mobile.Initial.CanScrollLeft || mobile.Initial.CanScrollRight {
		t.Fatalf("a strip narrower than the viewport cannot scroll, got %+v", mobile.Initial)
	}

	empty := PlanFor(DefaultConfig(), 0, 1280)
	if empty.ScrollWidth != 0 || empty.Initial.CanScrollRight {
		t.Fatalf("unexpected empty plan %+v", empty)
	}
}
