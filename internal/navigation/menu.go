package navigation

// Menu is the mobile navigation drawer. While open, the page behind it does
// not scroll.
type Menu struct {
	open bool
}

func (m *Menu) Open()  { m.open = true }
func (m *Menu) Close() { m.open = false }

func (m *Menu) Toggle() {
	m.open = !m.open
}

func (m *Menu) IsOpen() bool { return m.open }

// HandleKey closes the menu on Escape and reports whether the key was used.
func (m *Menu) HandleKey(key string) bool {
	if key != "Escape" || !m.open {
		return false
	}
	m.open = false
	return true
}

// AriaExpanded is the aria-expanded value for the menu toggle button.
func (m *Menu) AriaExpanded() string {
	if m.open {
		return "true"
	}
	return "false"
}

func (m *Menu) ScrollLocked() bool { return m.open }
