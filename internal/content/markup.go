package content

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// inline is the markup allowed in prose fields such as the bio: emphasis,
// code and links. Everything else is stripped.
var inline = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em", "b", "i", "code", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// Markup sanitizes author-supplied prose for rendering as HTML.
func Markup(s string) template.HTML {
	return template.HTML(inline.Sanitize(s))
}
