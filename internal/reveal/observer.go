package reveal

import "sync"

// Rect is an element's vertical extent in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Viewport is the visible window onto the document.
type Viewport struct {
	ScrollY float64
	Height  float64
}

// Policy is the intersection threshold and root margin. A negative
// BottomMargin shrinks the viewport from below.
type Policy struct {
	Threshold    float64
	BottomMargin float64
}

// DefaultPolicy requires 10% of an element to be visible inside a viewport
// shrunk by 50px at the bottom.
var DefaultPolicy = Policy{Threshold: 0.1, BottomMargin: -50}

// Intersecting reports whether r satisfies the policy within v.
func (p Policy) Intersecting(r Rect, v Viewport) bool {
	rootTop := v.ScrollY
	rootBottom := v.ScrollY + v.Height + p.BottomMargin
	if rootBottom <= rootTop {
		return false
	}
	if r.Height <= 0 {
		return r.Top >= rootTop && r.Top <= rootBottom
	}
	overlap := min(r.Top+r.Height, rootBottom) - max(r.Top, rootTop)
	if overlap <= 0 {
		return false
	}
	return overlap/r.Height >= p.Threshold
}

// Handler receives intersection notifications; *Controller implements it.
type Handler interface {
	OnIntersect(id string, visible bool)
}

// PollingObserver implements Observer by re-checking element geometry on
// each Scan. It emits one notification per visibility crossing.
type PollingObserver struct {
	mu       sync.Mutex
	policy   Policy
	rects    map[string]Rect
	observed map[string]bool
	visible  map[string]bool
	order    []string
}

func NewPollingObserver(p Policy) *PollingObserver {
	return &PollingObserver{
		policy:   p,
		rects:    make(map[string]Rect),
		observed: make(map[string]bool),
		visible:  make(map[string]bool),
	}
}

// Place records the layout of an element; call again after layout changes.
func (o *PollingObserver) Place(id string, r Rect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.rects[id]; !ok {
		o.order = append(o.order, id)
	}
	o.rects[id] = r
}

func (o *PollingObserver) Observe(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed[id] = true
	o.visible[id] = false
}

func (o *PollingObserver) Unobserve(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.observed, id)
	delete(o.visible, id)
}

// Observing reports whether id is currently observed.
func (o *PollingObserver) Observing(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.observed[id]
}

// Scan evaluates every observed, placed element against v and notifies h of
// crossings in document placement order.
func (o *PollingObserver) Scan(v Viewport, h Handler) {
	type change struct {
		id      string
		visible bool
	}
	var changes []change

	o.mu.Lock()
	for _, id := range o.order {
		if !o.observed[id] {
			continue
		}
		now := o.policy.Intersecting(o.rects[id], v)
		if now != o.visible[id] {
			o.visible[id] = now
			changes = append(changes, change{id, now})
		}
	}
	o.mu.Unlock()

	for _, c := range changes {
		h.OnIntersect(c.id, c.visible)
	}
}

// Recorder is an Observer that only remembers what is being observed. The
// server uses it to hand the observation set to the browser.
type Recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *Recorder) Observe(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *Recorder) Unobserve(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			return
		}
	}
}

// Observed returns the observed IDs in the order observation began.
func (r *Recorder) Observed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}
