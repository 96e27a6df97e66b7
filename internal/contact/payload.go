// Package contact handles the portfolio contact form: validation, the
// submission boundary, and the per-form state shown to the visitor.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload is what a visitor typed into the contact form.
type Payload struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Company string `form:"company" json:"company,omitempty"`
	Message string `form:"message" json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLength    = 2
	minMessageLength = 10
)

// Normalize trims surrounding whitespace from every field. Fields are plain
// text and are kept verbatim otherwise; escaping is left to whoever renders
// them.
func (p Payload) Normalize() Payload {
	return Payload{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Company: strings.TrimSpace(p.Company),
		Message: strings.TrimSpace(p.Message),
	}
}

// IsZero reports whether every field is empty.
func (p Payload) IsZero() bool {
	return p == Payload{}
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Validate checks the required fields. The returned map is empty when the
// payload is acceptable.
func (p Payload) Validate() FieldErrors {
	errs := FieldErrors{}
	if utf8.RuneCountInString(strings.TrimSpace(p.Name)) < minNameLength {
		errs["name"] = "Name must be at least 2 characters long"
	}
	if !emailPattern.MatchString(strings.TrimSpace(p.Email)) {
		errs["email"] = "Please enter a valid email address"
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Message)) < minMessageLength {
		errs["message"] = "Message must be at least 10 characters long"
	}
	return errs
}
