// Package page ties the portfolio's behaviors into one page session with
// explicit event subscriptions and guaranteed teardown.
package page

import "sync"

// Scope collects release funcs and runs them, newest first, on Close.
// Anything added after Close is released immediately.
type Scope struct {
	mu       sync.Mutex
	releases []func()
	closed   bool
}

func (s *Scope) Add(release func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		release()
		return
	}
	s.releases = append(s.releases, release)
	s.mu.Unlock()
}

// Len reports how many releases are held.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

// Close releases everything once. Later calls are no-ops.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

type EventKind int

const (
	Scroll EventKind = iota
	Resize
	Key
)

type Event struct {
	Kind    EventKind
	ScrollY float64
	Key     string
}

// Bus dispatches page events to subscribers synchronously, in subscription
// order.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[EventKind][]subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for kind and returns its release func.
func (b *Bus) Subscribe(kind EventKind, fn func(Event)) (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[EventKind][]subscriber)
	}
	b.next++
	id := b.next
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[kind]
			for i, s := range subs {
				if s.id == id {
					b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := append([]subscriber(nil), b.subs[e.Kind]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(e)
	}
}

// Subscribers reports how many subscribers kind has.
func (b *Bus) Subscribers(kind EventKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}
