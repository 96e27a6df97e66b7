// Package navigation models in-page navigation: smooth scrolling to
// sections, active link tracking and the mobile menu.
package navigation

// HeaderClearance keeps scrolled-to sections clear of the fixed header.
const HeaderClearance = 80.0

type Behavior int

const (
	Smooth Behavior = iota
	Instant
)

func (b Behavior) String() string {
	if b == Instant {
		return "instant"
	}
	return "smooth"
}

// Viewport is the scrollable window.
type Viewport interface {
	ScrollY() float64
	ScrollTo(y float64, b Behavior)
}

// Element reports its top edge relative to the viewport, like a bounding
// client rect.
type Element interface {
	BoundingTop() float64
}

// Destination returns the document offset that places an element whose
// viewport-relative top is rectTop just below the header:
// rectTop + scrollY - HeaderClearance, clamped at the top of the page.
func Destination(rectTop, scrollY float64) float64 {
	y := rectTop + scrollY - HeaderClearance
	if y < 0 {
		return 0
	}
	return y
}

type Scroller struct {
	Viewport      Viewport
	ReducedMotion bool
}

// ScrollToElement scrolls el into place, jumping instead of animating when
// reduced motion is preferred. A nil element is ignored.
func (s Scroller) ScrollToElement(el Element) {
	if el == nil {
		return
	}
	b := Smooth
	if s.ReducedMotion {
		b = Instant
	}
	s.Viewport.ScrollTo(Destination(el.BoundingTop(), s.Viewport.ScrollY()), b)
}
