package navigation

// Section is a navigable page section in document coordinates.
type Section struct {
	ID     string
	Top    float64
	Height float64
}

// TieBreak picks the winner when several sections match one offset.
type TieBreak int

const (
	// LastMatch lets the later section in document order win.
	LastMatch TieBreak = iota
	FirstMatch
)

// DefaultLead starts a section's active range this far above its top.
const DefaultLead = 100.0

// CondensedAfter is the scroll offset past which the navbar condenses.
const CondensedAfter = 100.0

// Condensed reports whether the navbar uses its condensed style at scrollY.
func Condensed(scrollY float64) bool {
	return scrollY > CondensedAfter
}

// Link is the active state of one section's navigation link.
type Link struct {
	Section string
	Active  bool
}

// Tracker marks the navigation link of the section under the scroll offset.
type Tracker struct {
	Lead     float64
	TieBreak TieBreak

	sections []Section
	active   string
}

func NewTracker(sections []Section) *Tracker {
	return &Tracker{
		Lead:     DefaultLead,
		sections: append([]Section(nil), sections...),
	}
}

// SetSections replaces the layout, e.g. after a resize.
func (t *Tracker) SetSections(sections []Section) {
	t.sections = append(t.sections[:0], sections...)
}

// Update recomputes the active section for scrollY and returns its ID, or
// "" when no section contains the offset.
func (t *Tracker) Update(scrollY float64) string {
	t.active = ""
	for _, s := range t.sections {
		if s.ID == "" {
			continue
		}
		if scrollY >= s.Top-t.Lead && scrollY < s.Top+s.Height {
			t.active = s.ID
			if t.TieBreak == FirstMatch {
				break
			}
		}
	}
	return t.active
}

func (t *Tracker) Active() string { return t.active }

// Links returns every section's link state in document order.
func (t *Tracker) Links() []Link {
	links := make([]Link, 0, len(t.sections))
	for _, s := range t.sections {
		if s.ID == "" {
			continue
		}
		links = append(links, Link{Section: s.ID, Active: s.ID == t.active})
	}
	return links
}
