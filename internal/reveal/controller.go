// Package reveal decides when scroll-animated page elements are revealed.
//
// A Controller tracks every registered Target through
// Unobserved → Observed → PendingReveal → Revealed. Revealed is terminal:
// once a target is revealed it is never hidden again and it is no longer
// observed. When viewport observation is unavailable (nil Observer) or the
// visitor prefers reduced motion, every target is revealed during Register.
package reveal

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/clock"
)

type State int

const (
	Unobserved State = iota
	Observed
	PendingReveal
	Revealed
)

func (s State) String() string {
	switch s {
	case Observed:
		return "observed"
	case PendingReveal:
		return "pending"
	case Revealed:
		return "revealed"
	default:
		return "unobserved"
	}
}

// Target is a reveal-eligible element.
type Target struct {
	ID           string
	StaggerDelay time.Duration
}

// Observer is the viewport-observation capability. Implementations notify
// the controller via OnIntersect whenever an observed element's visibility
// crosses the intersection threshold.
type Observer interface {
	Observe(id string)
	Unobserve(id string)
}

type Options struct {
	// Observer is nil when the host cannot observe visibility.
	Observer      Observer
	ReducedMotion bool
	Clock         clock.Clock
	// OnReveal is called once per target, after its state becomes Revealed.
	OnReveal func(id string)
	Logger   *zap.Logger
}

type entry struct {
	target     Target
	state      State
	detectedAt time.Time
	revealedAt time.Time
	timer      clock.Timer
}

type Controller struct {
	mu       sync.Mutex
	opts     Options
	fallback bool
	entries  map[string]*entry
	order    []string
	closed   bool
}

func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		opts:     opts,
		fallback: opts.Observer == nil || opts.ReducedMotion,
		entries:  make(map[string]*entry),
	}
}

// Fallback reports whether the controller reveals everything at
// registration instead of observing.
func (c *Controller) Fallback() bool { return c.fallback }

// Register records targets and starts observing them, or reveals them
// immediately in fallback mode. Already known IDs are ignored.
func (c *Controller) Register(targets ...Target) {
	var observe, revealed []string

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	now := c.opts.Clock.Now()
	for _, t := range targets {
		if _, ok := c.entries[t.ID]; ok {
			continue
		}
		if t.StaggerDelay < 0 {
			t.StaggerDelay = 0
		}
		e := &entry{target: t}
		c.entries[t.ID] = e
		c.order = append(c.order, t.ID)

		if c.fallback {
			e.state = Revealed
			e.revealedAt = now
			revealed = append(revealed, t.ID)
			continue
		}
		e.state = Observed
		observe = append(observe, t.ID)
	}
	c.mu.Unlock()

	if c.fallback && len(revealed) > 0 {
		c.opts.Logger.Debug("reveal fallback",
			zap.Int("targets", len(revealed)),
			zap.Bool("reduced_motion", c.opts.ReducedMotion))
	}
	for _, id := range revealed {
		c.notify(id)
	}
	for _, id := range observe {
		c.opts.Observer.Observe(id)
	}
}

// OnIntersect handles a visibility crossing for id. Only the first visible
// crossing of an observed target has any effect.
func (c *Controller) OnIntersect(id string, visible bool) {
	if !visible {
		return
	}

	c.mu.Lock()
	e, ok := c.entries[id]
	if c.closed || !ok || e.state != Observed {
		c.mu.Unlock()
		return
	}
	e.state = PendingReveal
	e.detectedAt = c.opts.Clock.Now()
	delay := e.target.StaggerDelay
	if delay > 0 {
		e.timer = c.opts.Clock.AfterFunc(delay, func() { c.reveal(id) })
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.reveal(id)
}

func (c *Controller) reveal(id string) {
	c.mu.Lock()
	e := c.entries[id]
	if c.closed || e.state != PendingReveal {
		c.mu.Unlock()
		return
	}
	e.state = Revealed
	e.revealedAt = c.opts.Clock.Now()
	e.timer = nil
	c.mu.Unlock()

	c.opts.Observer.Unobserve(id)
	c.notify(id)
}

func (c *Controller) notify(id string) {
	if c.opts.OnReveal != nil {
		c.opts.OnReveal(id)
	}
}

func (c *Controller) State(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.state
	}
	return Unobserved
}

func (c *Controller) Revealed(id string) bool {
	return c.State(id) == Revealed
}

// DetectedAt returns when the first visible intersection of id was seen.
func (c *Controller) DetectedAt(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || e.detectedAt.IsZero() {
		return time.Time{}, false
	}
	return e.detectedAt, true
}

func (c *Controller) RevealedAt(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || e.state != Revealed {
		return time.Time{}, false
	}
	return e.revealedAt, true
}

// Targets returns the registered targets in registration order.
func (c *Controller) Targets() []Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Target, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id].target)
	}
	return out
}

// Close cancels pending reveals and stops observing. Targets already
// revealed stay revealed; pending ones stay pending forever.
func (c *Controller) Close() {
	var unobserve []string

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, id := range c.order {
		e := c.entries[id]
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		if e.state == Observed || e.state == PendingReveal {
			unobserve = append(unobserve, id)
		}
	}
	c.mu.Unlock()

	if c.fallback {
		return
	}
	for _, id := range unobserve {
		c.opts.Observer.Unobserve(id)
	}
}
