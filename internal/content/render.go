package content

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/navigation"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"headerID":  HeaderID,
	"skillID":   SkillGroupID,
	"expID":     ExperienceID,
	"projectID": ProjectID,
	"year":      func() int { return time.Now().Year() },
	"markup":    Markup,

	"headerClearance": func() float64 { return navigation.HeaderClearance },
	"activeLead":      func() float64 { return navigation.DefaultLead },
	"condensedAfter":  func() float64 { return navigation.CondensedAfter },
	"revealThreshold": func() float64 { return reveal.DefaultPolicy.Threshold },
	"revealMargin":    func() float64 { return reveal.DefaultPolicy.BottomMargin },
	"loadingMinimum":  func() int64 { return theme.LoadingMinimum.Milliseconds() },
}).ParseFS(templateFS, "templates/*.html"))

// Template names for Templates.
const (
	PageTemplate        = "page"
	ContactFormTemplate = "contact-form"
	PrivacyTemplate     = "privacy"
)

// Templates returns the parsed page templates, for handing to an HTML
// renderer. Execute them with PageData or FormData.
func Templates() *template.Template { return templates }

// PageData is the template data for rendering s as seen through v.
func PageData(s *Site, v View) any { return pageData{Site: s, View: v} }

// FormData is the template data for rendering only the contact form.
func FormData(s *Site, form FormView) any { return pageData{Site: s, View: View{Form: form}} }

// View is the per-visitor state a render depends on.
type View struct {
	Theme         string
	ReducedMotion bool
	LoadingScreen bool
	// Revealed reports whether a reveal target is already revealed. Nil
	// means nothing is.
	Revealed func(id string) bool
	// Observed reports whether the browser should observe a target and
	// reveal it on intersection.
	Observed      func(id string) bool
	Delays        map[string]time.Duration
	ActiveSection string
	Form          FormView
}

// FormView is the contact form as the visitor last left it.
type FormView struct {
	Values   contact.Payload
	Errors   contact.FieldErrors
	Status   contact.Status
	Disabled bool
}

type pageData struct {
	Site *Site
	View View
}

// Reveal renders the attributes of a reveal target: its class, ID and
// stagger delay in milliseconds.
func (d pageData) Reveal(id string) template.HTMLAttr {
	class := "animate-on-scroll"
	if d.View.Revealed != nil && d.View.Revealed(id) {
		class += " animated"
	}
	attr := fmt.Sprintf(`class="%s" data-reveal-id="%s"`, class, template.HTMLEscapeString(id))
	if delay := d.View.Delays[id]; delay > 0 {
		attr += fmt.Sprintf(` data-stagger-delay="%d"`, delay.Milliseconds())
	}
	if d.View.Observed != nil && d.View.Observed(id) {
		attr += " data-observe"
	}
	return template.HTMLAttr(attr)
}

func (d pageData) Active(section string) bool {
	return d.View.ActiveSection == section
}

func (d pageData) FieldError(field string) string {
	return d.View.Form.Errors[field]
}

// Render writes the full page for s as seen through v.
func Render(w io.Writer, s *Site, v View) error {
	if err := templates.ExecuteTemplate(w, PageTemplate, PageData(s, v)); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderContactForm writes only the contact form, for partial updates.
func RenderContactForm(w io.Writer, s *Site, form FormView) error {
	if err := templates.ExecuteTemplate(w, ContactFormTemplate, FormData(s, form)); err != nil {
		return fmt.Errorf("render contact form: %w", err)
	}
	return nil
}

// RenderPrivacy writes the privacy notice page.
func RenderPrivacy(w io.Writer, s *Site, v View) error {
	if err := templates.ExecuteTemplate(w, PrivacyTemplate, PageData(s, v)); err != nil {
		return fmt.Errorf("render privacy: %w", err)
	}
	return nil
}
