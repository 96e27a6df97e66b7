package page

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/navigation"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

// Layout is the measured geometry of a rendered page. Without one the
// session cannot observe visibility itself and leaves it to the browser.
type Layout struct {
	ViewportHeight float64
	Sections       []navigation.Section
	Elements       map[string]reveal.Rect
}

type Env struct {
	ReducedMotion bool
	// NoObserver reports that the host cannot observe visibility.
	NoObserver bool
	Theme      theme.Theme
	Layout     *Layout
	Clock      clock.Clock
	Submitter  contact.Submitter
	Logger     *zap.Logger
}

// Session is one visitor's page: reveal state, navigation, menu, theme and
// contact form, all torn down together by Close.
type Session struct {
	site *content.Site
	env  Env
	log  *zap.Logger

	bus   Bus
	scope Scope

	reveal   *reveal.Controller
	polling  *reveal.PollingObserver
	recorder *reveal.Recorder
	tracker  *navigation.Tracker
	viewport *viewport
	scroller navigation.Scroller
	form     *contact.Form
	loading  *theme.LoadingScreen

	mu    sync.Mutex
	menu  navigation.Menu
	theme theme.Theme
}

func NewSession(site *content.Site, env Env) *Session {
	if env.Clock == nil {
		env.Clock = clock.Real()
	}
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	if env.Submitter == nil {
		env.Submitter = contact.Simulated{Delay: contact.DefaultSimulatedDelay, Clock: env.Clock}
	}
	s := &Session{
		site:    site,
		env:     env,
		log:     env.Logger,
		theme:   env.Theme,
		loading: theme.NewLoadingScreen(env.ReducedMotion),
		form:    contact.NewForm(env.Submitter, env.Clock),
	}
	if s.theme == "" {
		s.theme = theme.Default
	}
	s.viewport = &viewport{bus: &s.bus}
	s.scroller = navigation.Scroller{Viewport: s.viewport, ReducedMotion: env.ReducedMotion}

	var observer reveal.Observer
	switch {
	case env.NoObserver:
	case env.Layout != nil:
		s.polling = reveal.NewPollingObserver(reveal.DefaultPolicy)
		for id, r := range env.Layout.Elements {
			s.polling.Place(id, r)
		}
		observer = s.polling
		s.viewport.setHeight(env.Layout.ViewportHeight)
	default:
		s.recorder = &reveal.Recorder{}
		observer = s.recorder
	}
	s.reveal = reveal.New(reveal.Options{
		Observer:      observer,
		ReducedMotion: env.ReducedMotion,
		Clock:         env.Clock,
		Logger:        env.Logger,
	})

	var sections []navigation.Section
	if env.Layout != nil {
		sections = env.Layout.Sections
	}
	s.tracker = navigation.NewTracker(sections)
	return s
}

// Mount registers the page's reveal targets and subscribes the scroll,
// resize and key handlers. Everything acquired here is released by Close.
func (s *Session) Mount() {
	s.scope.Add(s.form.Close)
	s.scope.Add(s.reveal.Close)

	s.loading.Start(s.env.Clock.Now())
	s.reveal.Register(content.Targets(s.site)...)

	s.scope.Add(s.bus.Subscribe(Scroll, s.onScroll))
	s.scope.Add(s.bus.Subscribe(Resize, s.onScroll))
	s.scope.Add(s.bus.Subscribe(Key, func(e Event) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.menu.HandleKey(e.Key)
	}))

	s.log.Debug("page session mounted",
		zap.Bool("fallback", s.reveal.Fallback()),
		zap.Bool("self_observing", s.polling != nil))

	// Elements already on screen at load are picked up without a scroll.
	s.scan()
}

func (s *Session) onScroll(e Event) {
	s.mu.Lock()
	s.tracker.Update(e.ScrollY)
	s.mu.Unlock()
	s.scan()
}

func (s *Session) scan() {
	if s.polling == nil {
		return
	}
	y, h := s.viewport.geometry()
	s.polling.Scan(reveal.Viewport{ScrollY: y, Height: h}, s.reveal)
}

// Scroll moves the viewport to y as the visitor would by scrolling.
func (s *Session) Scroll(y float64) {
	s.viewport.ScrollTo(y, navigation.Instant)
}

// Resize changes the viewport height and re-evaluates visibility.
func (s *Session) Resize(height float64) {
	s.viewport.setHeight(height)
	s.bus.Publish(Event{Kind: Resize, ScrollY: s.viewport.ScrollY()})
}

func (s *Session) Key(key string) {
	s.bus.Publish(Event{Kind: Key, Key: key})
}

// ScrollToSection smooth-scrolls to a section by ID and closes the mobile
// menu. Unknown sections are ignored.
func (s *Session) ScrollToSection(id string) {
	for _, sec := range s.sections() {
		if sec.ID == id {
			s.mu.Lock()
			s.menu.Close()
			s.mu.Unlock()
			s.scroller.ScrollToElement(sectionElement{top: sec.Top, vp: s.viewport})
			return
		}
	}
}

func (s *Session) sections() []navigation.Section {
	if s.env.Layout == nil {
		return nil
	}
	return s.env.Layout.Sections
}

func (s *Session) ToggleMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu.Toggle()
}

func (s *Session) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu.IsOpen()
}

// ToggleTheme switches the theme and returns the announcement text.
func (s *Session) ToggleTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	return s.theme.Announcement()
}

func (s *Session) Theme() theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// HideLoadingScreen takes the loading screen down once its minimum display
// time has passed.
func (s *Session) HideLoadingScreen() bool {
	return s.loading.Hide(s.env.Clock.Now())
}

func (s *Session) SubmitContact(ctx context.Context, p contact.Payload) error {
	return s.form.SubmitWith(ctx, p)
}

func (s *Session) Reveal() *reveal.Controller { return s.reveal }
func (s *Session) Form() *contact.Form        { return s.form }
func (s *Session) ScrollY() float64           { return s.viewport.ScrollY() }

// LastScrollBehavior reports how the most recent scroll moved the viewport.
func (s *Session) LastScrollBehavior() navigation.Behavior {
	s.viewport.mu.Lock()
	defer s.viewport.mu.Unlock()
	return s.viewport.last
}

func (s *Session) ActiveSection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Active()
}

// Observed lists the reveal targets left for the browser to observe. It is
// empty when the session observes layout itself or revealed everything.
func (s *Session) Observed() []string {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Observed()
}

// View snapshots the session for rendering.
func (s *Session) View() content.View {
	v := content.View{
		Theme:         s.Theme().String(),
		ReducedMotion: s.env.ReducedMotion,
		LoadingScreen: s.loading.Visible(s.env.Clock.Now()),
		Revealed:      s.reveal.Revealed,
		ActiveSection: s.ActiveSection(),
		Form: content.FormView{
			Values:   s.form.Values(),
			Errors:   s.form.FieldErrors(),
			Status:   s.form.Status(),
			Disabled: s.form.SubmitDisabled(),
		},
	}
	if observed := s.Observed(); len(observed) > 0 {
		set := make(map[string]bool, len(observed))
		for _, id := range observed {
			set[id] = true
		}
		v.Observed = func(id string) bool { return set[id] }
	}
	if !s.reveal.Fallback() {
		v.Delays = make(map[string]time.Duration)
		for _, t := range s.reveal.Targets() {
			v.Delays[t.ID] = t.StaggerDelay
		}
	}
	return v
}

func (s *Session) Render(w io.Writer) error {
	return content.Render(w, s.site, s.View())
}

// Close tears down every subscription, timer and observation.
func (s *Session) Close() {
	s.scope.Close()
}

type viewport struct {
	bus    *Bus
	mu     sync.Mutex
	y      float64
	height float64
	last   navigation.Behavior
}

func (v *viewport) ScrollY() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.y
}

func (v *viewport) geometry() (y, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.y, v.height
}

func (v *viewport) setHeight(h float64) {
	v.mu.Lock()
	v.height = h
	v.mu.Unlock()
}

func (v *viewport) ScrollTo(y float64, b navigation.Behavior) {
	v.mu.Lock()
	v.y = y
	v.last = b
	v.mu.Unlock()
	v.bus.Publish(Event{Kind: Scroll, ScrollY: y})
}

type sectionElement struct {
	top float64
	vp  *viewport
}

func (e sectionElement) BoundingTop() float64 { return e.top - e.vp.ScrollY() }
