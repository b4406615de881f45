// Package carousel models an auto-scrolling strip of cards that bounces
// between its ends and pauses while hovered or after manual navigation.
package carousel

import (
	"context"
	"sync"
	"time"
)

type Mode int

const (
	ScrollingRight Mode = iota
	ScrollingLeft
	PausedHover
	PausedManual
)

func (m Mode) String() string {
	switch m {
	case ScrollingRight:
		return "scrolling-right"
	case ScrollingLeft:
		return "scrolling-left"
	case PausedHover:
		return "paused-hover"
	case PausedManual:
		return "paused-manual"
	default:
		return "unknown"
	}
}

type Direction int

const (
	Right Direction = iota
	Left
)

// Layout is the card geometry used to compute jump targets.
type Layout struct {
	CardWidth float64 `json:"cardWidth"`
	Gap       float64 `json:"gap"`
}

var (
	DesktopLayout = Layout{CardWidth: 384, Gap: 8}
	MobileLayout  = Layout{CardWidth: 230, Gap: 4}
)

// MobileBreakpoint is the viewport width below which MobileLayout applies.
const MobileBreakpoint = 768

func LayoutFor(viewportWidth float64) Layout {
	if viewportWidth < MobileBreakpoint {
		return MobileLayout
	}
	return DesktopLayout
}

type Config struct {
	Interval     time.Duration
	Step         float64
	EdgeSlack    float64
	NavigateStep float64
	ResumeDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:     30 * time.Millisecond,
		Step:         1,
		EdgeSlack:    10,
		NavigateStep: 300,
		ResumeDelay:  time.Second,
	}
}

// State is a snapshot of the carousel.
type State struct {
	Mode           Mode    `json:"-"`
	ModeName       string  `json:"mode"`
	Offset         float64 `json:"offset"`
	CurrentIndex   int     `json:"currentIndex"`
	CanScrollLeft  bool    `json:"canScrollLeft"`
	CanScrollRight bool    `json:"canScrollRight"`
}

type Option func(*Carousel)

// WithClock replaces time.Now for the manual-pause timer.
func WithClock(now func() time.Time) Option {
	return func(c *Carousel) {
		if now != nil {
			c.now = now
		}
	}
}

type Carousel struct {
	cfg Config
	now func() time.Time

	mu           sync.Mutex
	offset       float64
	scrollWidth  float64
	clientWidth  float64
	direction    Direction
	hovered      bool
	manualUntil  time.Time
	currentIndex int
}

// New creates a carousel whose content is scrollWidth wide inside a
// clientWidth viewport, scrolled to initialScroll.
func New(cfg Config, scrollWidth, clientWidth, initialScroll float64, opts ...Option) *Carousel {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.EdgeSlack < 0 {
		cfg.EdgeSlack = def.EdgeSlack
	}
	if cfg.NavigateStep <= 0 {
		cfg.NavigateStep = def.NavigateStep
	}
	if cfg.ResumeDelay <= 0 {
		cfg.ResumeDelay = def.ResumeDelay
	}

	c := &Carousel{
		cfg:         cfg,
		now:         time.Now,
		scrollWidth: scrollWidth,
		clientWidth: clientWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.offset = c.clamp(initialScroll)
	return c
}

func (c *Carousel) maxOffset() float64 {
	if m := c.scrollWidth - c.clientWidth; m > 0 {
		return m
	}
	return 0
}

func (c *Carousel) clamp(offset float64) float64 {
	if offset < 0 {
		return 0
	}
	if m := c.maxOffset(); offset > m {
		return m
	}
	return offset
}

func (c *Carousel) mode() Mode {
	if c.now().Before(c.manualUntil) {
		return PausedManual
	}
	if c.hovered {
		return PausedHover
	}
	if c.direction == Left {
		return ScrollingLeft
	}
	return ScrollingRight
}

func (c *Carousel) snapshot() State {
	mode := c.mode()
	return State{
		Mode:           mode,
		ModeName:       mode.String(),
		Offset:         c.offset,
		CurrentIndex:   c.currentIndex,
		CanScrollLeft:  c.offset > 0,
		CanScrollRight: c.offset < c.maxOffset(),
	}
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Carousel) CanScrollLeft() bool {
	return c.State().CanScrollLeft
}

func (c *Carousel) CanScrollRight() bool {
	return c.State().CanScrollRight
}

// Tick advances one auto-scroll step. Near an end the tick reverses the
// direction instead of moving. It reports whether anything changed.
func (c *Carousel) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode() {
	case PausedHover, PausedManual:
		return false
	}

	if c.direction == Right {
		if c.offset >= c.maxOffset()-c.cfg.EdgeSlack {
			c.direction = Left
			return true
		}
		c.offset = c.clamp(c.offset + c.cfg.Step)
		return true
	}

	if c.offset <= c.cfg.EdgeSlack {
		c.direction = Right
		return true
	}
	c.offset = c.clamp(c.offset - c.cfg.Step)
	return true
}

func (c *Carousel) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = true
}

// PointerLeave resumes scrolling in the direction it had before the hover.
func (c *Carousel) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = false
}

// Navigate jumps one NavigateStep toward dir and pauses auto-scroll for
// ResumeDelay.
func (c *Carousel) Navigate(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delta := c.cfg.NavigateStep
	if dir == Left {
		delta = -delta
	}
	c.offset = c.clamp(c.offset + delta)
	c.manualUntil = c.now().Add(c.cfg.ResumeDelay)
}

// CloseCard scrolls to the card after index, as happens when an expanded
// card is dismissed, and pauses auto-scroll for ResumeDelay.
func (c *Carousel) CloseCard(index int, layout Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.offset = c.clamp((layout.CardWidth + layout.Gap) * float64(index+1))
	c.currentIndex = index
	c.manualUntil = c.now().Add(c.cfg.ResumeDelay)
}

// Scroll records an offset set by the user, for example by dragging.
func (c *Carousel) Scroll(offset float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = c.clamp(offset)
}

// Resize updates the content and viewport widths.
func (c *Carousel) Resize(scrollWidth, clientWidth float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollWidth = scrollWidth
	c.clientWidth = clientWidth
	c.offset = c.clamp(c.offset)
}

// Run ticks every interval until ctx is done, calling onTick after each
// tick that changed the state. A non-positive interval uses Config.Interval.
func (c *Carousel) Run(ctx context.Context, interval time.Duration, onTick func(State)) {
	if interval <= 0 {
		interval = c.cfg.Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.Tick() && onTick != nil {
				onTick(c.State())
			}
		}
	}
}

// Plan is what a client needs to render a strip of cards and drive it.
type Plan struct {
	Layout        Layout  `json:"layout"`
	Cards         int     `json:"cards"`
	ScrollWidth   float64 `json:"scrollWidth"`
	ClientWidth   float64 `json:"clientWidth"`
	IntervalMs    int64   `json:"intervalMs"`
	Step          float64 `json:"step"`
	EdgeSlack     float64 `json:"edgeSlack"`
	NavigateStep  float64 `json:"navigateStep"`
	ResumeDelayMs int64   `json:"resumeDelayMs"`
	Initial       State   `json:"initial"`
}

// PlanFor lays out cards inside a viewport of the given width and reports
// the state the strip starts in.
func PlanFor(cfg Config, cards int, viewportWidth float64) Plan {
	layout := LayoutFor(viewportWidth)
	var scrollWidth float64
	if cards > 0 {
		scrollWidth = float64(cards)*layout.CardWidth + float64(cards-1)*layout.Gap
	}
	c := New(cfg, scrollWidth, viewportWidth, 0)
	return Plan{
		Layout:        layout,
		Cards:         cards,
		ScrollWidth:   scrollWidth,
		ClientWidth:   viewportWidth,
		IntervalMs:    c.cfg.Interval.Milliseconds(),
		Step:          c.cfg.Step,
		EdgeSlack:     c.cfg.EdgeSlack,
		NavigateStep:  c.cfg.NavigateStep,
		ResumeDelayMs: c.cfg.ResumeDelay.Milliseconds(),
		Initial:       c.State(),
	}
}
