package page

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/navigation"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSite() *content.Site {
	return &content.Site{
		Hero: content.Hero{Name: "Test Person"},
		Projects: content.Projects{Items: []content.Project{
			{Title: "One"}, {Title: "Two"},
		}},
	}
}

// testLayout stacks the sections 1000px apart with a 800px viewport.
func testLayout() *Layout {
	return &Layout{
		ViewportHeight: 800,
		Sections: []navigation.Section{
			{ID: content.SectionHome, Top: 0, Height: 1000},
			{ID: content.SectionProjects, Top: 1000, Height: 1000},
			{ID: content.SectionContact, Top: 2000, Height: 1000},
		},
		Elements: map[string]reveal.Rect{
			content.HeaderID(content.SectionProjects): {Top: 1000, Height: 100},
			content.ProjectID(0):                      {Top: 1200, Height: 300},
			content.ProjectID(1):                      {Top: 1200, Height: 300},
			content.HeaderID(content.SectionContact):  {Top: 2000, Height: 100},
		},
	}
}

func TestScopeReleasesInReverseOnce(t *testing.T) {
	var s Scope
	var order []int
	s.Add(func() { order = append(order, 1) })
	s.Add(func() { order = append(order, 2) })
	assert.Equal(t, 2, s.Len())

	s.Close()
	s.Close()
	assert.Equal(t, []int{2, 1}, order)

	s.Add(func() { order = append(order, 3) })
	assert.Equal(t, []int{2, 1, 3}, order)
}

func TestBusSubscribeRelease(t *testing.T) {
	var b Bus
	var got []float64
	release := b.Subscribe(Scroll, func(e Event) { got = append(got, e.ScrollY) })
	b.Publish(Event{Kind: Scroll, ScrollY: 10})
	b.Publish(Event{Kind: Key, Key: "Escape"})
	release()
	release()
	b.Publish(Event{Kind: Scroll, ScrollY: 20})

	assert.Equal(t, []float64{10}, got)
	assert.Zero(t, b.Subscribers(Scroll))
}

func TestSessionReducedMotionRevealsBeforeScroll(t *testing.T) {
	s := NewSession(testSite(), Env{ReducedMotion: true, Layout: testLayout(), Clock: clock.NewFake(time.Unix(0, 0))})
	defer s.Close()
	s.Mount()

	for _, tg := range s.Reveal().Targets() {
		assert.True(t, s.Reveal().Revealed(tg.ID), tg.ID)
	}
	assert.False(t, s.View().LoadingScreen)

	s.ScrollToSection(content.SectionProjects)
	assert.Equal(t, navigation.Instant, s.LastScrollBehavior())
	assert.Equal(t, 920.0, s.ScrollY())
}

func TestSessionScrollDrivesRevealAndTracker(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	s := NewSession(testSite(), Env{Layout: testLayout(), Clock: fake})
	s.Mount()

	assert.True(t, s.View().LoadingScreen)
	assert.Equal(t, reveal.Observed, s.Reveal().State(content.ProjectID(0)))

	s.ScrollToSection(content.SectionProjects)
	assert.Equal(t, navigation.Smooth, s.LastScrollBehavior())
	assert.Equal(t, content.SectionProjects, s.ActiveSection())

	assert.True(t, s.Reveal().Revealed(content.HeaderID(content.SectionProjects)))
	assert.True(t, s.Reveal().Revealed(content.ProjectID(0)))
	assert.Equal(t, reveal.PendingReveal, s.Reveal().State(content.ProjectID(1)))

	fake.Advance(200 * time.Millisecond)
	assert.True(t, s.Reveal().Revealed(content.ProjectID(1)))

	// Elements the layout never placed stay observed but unrevealed.
	assert.Equal(t, reveal.Observed, s.Reveal().State(content.HeaderID(content.SectionAbout)))

	s.Close()
	assert.Zero(t, fake.Pending())
	assert.Zero(t, s.bus.Subscribers(Scroll))
	assert.Zero(t, s.bus.Subscribers(Key))
}

func TestSessionCloseCancelsPendingReveal(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	s := NewSession(testSite(), Env{Layout: testLayout(), Clock: fake})
	s.Mount()
	s.Scroll(1000)
	require.Equal(t, reveal.PendingReveal, s.Reveal().State(content.ProjectID(1)))

	s.Close()
	fake.Advance(time.Second)
	assert.Equal(t, reveal.PendingReveal, s.Reveal().State(content.ProjectID(1)))

	// Events after teardown reach nobody.
	s.Scroll(2000)
	assert.Equal(t, content.SectionProjects, s.ActiveSection())
}

func TestSessionMenuAndTheme(t *testing.T) {
	s := NewSession(testSite(), Env{Theme: theme.Light, Clock: clock.NewFake(time.Unix(0, 0))})
	defer s.Close()
	s.Mount()

	s.ToggleMenu()
	assert.True(t, s.MenuOpen())
	s.Key("Escape")
	assert.False(t, s.MenuOpen())

	assert.Equal(t, "Switched to dark theme", s.ToggleTheme())
	assert.Equal(t, theme.Dark, s.Theme())
}

func TestSessionWithoutLayoutDelegatesObservation(t *testing.T) {
	s := NewSession(testSite(), Env{Clock: clock.NewFake(time.Unix(0, 0))})
	defer s.Close()
	s.Mount()

	assert.Len(t, s.Observed(), len(content.Targets(testSite())))
	v := s.View()
	assert.Equal(t, 200*time.Millisecond, v.Delays[content.ProjectID(1)])

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	assert.Contains(t, buf.String(), `data-reveal-id="project-1" data-stagger-delay="200" data-observe`)
	assert.Contains(t, buf.String(), `data-reveal-id="project-0" data-observe`)
}

func TestSessionNoObserverFallback(t *testing.T) {
	s := NewSession(testSite(), Env{NoObserver: true, Clock: clock.NewFake(time.Unix(0, 0))})
	defer s.Close()
	s.Mount()

	assert.True(t, s.Reveal().Fallback())
	assert.Empty(t, s.Observed())
	assert.Nil(t, s.View().Delays)
	assert.Nil(t, s.View().Observed)
}

func TestSessionContactSubmission(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	s := NewSession(testSite(), Env{Clock: fake, Submitter: contact.Simulated{Delay: time.Second, Clock: fake}})
	defer s.Close()
	s.Mount()

	done := make(chan error, 1)
	go func() {
		done <- s.SubmitContact(context.Background(), contact.Payload{
			Name: "Ada", Email: "ada@example.com", Message: "Let's work together!",
		})
	}()
	require.Eventually(t, func() bool { return s.Form().SubmitDisabled() }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return fake.Pending() == 1 }, time.Second, time.Millisecond)
	assert.True(t, s.View().Form.Disabled)

	fake.Advance(time.Second)
	require.NoError(t, <-done)
	assert.True(t, s.Form().Values().IsZero())
}
