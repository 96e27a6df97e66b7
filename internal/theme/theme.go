// Package theme holds the visitor-facing display state that outlives a
// single render: the color theme and the loading screen.
package theme

import (
	"fmt"
	"strings"
	"time"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"

	Default = Dark
)

// Parse reads a persisted preference, falling back to Default for anything
// unrecognised.
func Parse(persisted string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(persisted))) {
	case Light:
		return Light
	case Dark:
		return Dark
	default:
		return Default
	}
}

func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

func (t Theme) String() string { return string(t) }

// Announcement is the live-region text read out after a switch.
func (t Theme) Announcement() string {
	return fmt.Sprintf("Switched to %s theme", t)
}

// LoadingMinimum is how long the loading screen stays up after load.
const LoadingMinimum = 2500 * time.Millisecond

// LoadingScreen is shown from page load until at least MinDuration has
// passed. Visitors preferring reduced motion never see it.
type LoadingScreen struct {
	MinDuration time.Duration

	started time.Time
	hidden  bool
	skipped bool
}

func NewLoadingScreen(reducedMotion bool) *LoadingScreen {
	return &LoadingScreen{MinDuration: LoadingMinimum, skipped: reducedMotion}
}

// Start marks the page load time.
func (l *LoadingScreen) Start(now time.Time) {
	l.started = now
}

// Visible reports whether the screen is still up at now: started, not yet
// hidden, and inside its minimum display time.
func (l *LoadingScreen) Visible(now time.Time) bool {
	if l.skipped || l.hidden || l.started.IsZero() {
		return false
	}
	return now.Before(l.HideAt())
}

// HideAt is the earliest time Hide succeeds.
func (l *LoadingScreen) HideAt() time.Time {
	return l.started.Add(l.MinDuration)
}

// Hide takes the screen down if the minimum display time has elapsed and
// reports whether it is now hidden.
func (l *LoadingScreen) Hide(now time.Time) bool {
	if l.hidden || l.skipped {
		return true
	}
	if l.started.IsZero() || now.Before(l.HideAt()) {
		return false
	}
	l.hidden = true
	return true
}
