// Package content defines the portfolio's section configuration and renders
// the page from it. Every section is plain data; rendering is a pure
// function of the Site and a View.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Section IDs double as in-page anchors and navigation targets.
const (
	SectionHome      = "home"
	SectionAbout     = "about"
	SectionEducation = "education"
	SectionProjects  = "projects"
	SectionContact   = "contact"
)

// Sections lists the page sections in document order.
var Sections = []string{SectionHome, SectionAbout, SectionEducation, SectionProjects, SectionContact}

type Site struct {
	Meta      Meta      `yaml:"meta"`
	Nav       []NavLink `yaml:"nav"`
	Hero      Hero      `yaml:"hero"`
	About     About     `yaml:"about"`
	Education Education `yaml:"education"`
	Projects  Projects  `yaml:"projects"`
	Contact   Contact   `yaml:"contact"`
	Footer    Footer    `yaml:"footer"`
}

type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

type NavLink struct {
	Label   string `yaml:"label"`
	Section string `yaml:"section"`
}

type Hero struct {
	Greeting string   `yaml:"greeting"`
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Tagline  string   `yaml:"tagline"`
	Location string   `yaml:"location"`
	Buttons  []Button `yaml:"buttons"`
	Stats    []Stat   `yaml:"stats"`
}

// Button scrolls to ScrollTo when it names a section, otherwise links to Href.
type Button struct {
	Label    string `yaml:"label"`
	ScrollTo string `yaml:"scroll_to"`
	Href     string `yaml:"href"`
	Primary  bool   `yaml:"primary"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type About struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	// Bio paragraphs may carry inline markup; see Markup.
	Bio         []string     `yaml:"bio"`
	SkillGroups []SkillGroup `yaml:"skill_groups"`
}

type SkillGroup struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

type Education struct {
	Title       string       `yaml:"title"`
	Subtitle    string       `yaml:"subtitle"`
	University  University   `yaml:"university"`
	Experiences []Experience `yaml:"experiences"`
}

type University struct {
	Name       string   `yaml:"name"`
	Degree     string   `yaml:"degree"`
	Period     string   `yaml:"period"`
	Location   string   `yaml:"location"`
	Highlights []string `yaml:"highlights"`
}

type Experience struct {
	Title        string   `yaml:"title"`
	Organization string   `yaml:"organization"`
	Period       string   `yaml:"period"`
	Location     string   `yaml:"location"`
	Description  string   `yaml:"description"`
	Tags         []string `yaml:"tags"`
}

type Projects struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle"`
	Items    []Project `yaml:"items"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	DemoURL     string   `yaml:"demo_url"`
	SourceURL   string   `yaml:"source_url"`
	Featured    bool     `yaml:"featured"`
}

type Contact struct {
	Title    string     `yaml:"title"`
	Subtitle string     `yaml:"subtitle"`
	Methods  []Method   `yaml:"methods"`
	Info     []InfoItem `yaml:"info"`
}

type Method struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

type InfoItem struct {
	Title     string `yaml:"title"`
	Value     string `yaml:"value"`
	Highlight bool   `yaml:"highlight"`
}

type Footer struct {
	Name      string `yaml:"name"`
	Tagline   string `yaml:"tagline"`
	Links     []Link `yaml:"links"`
	Copyright string `yaml:"copyright"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalidSite = errors.New("content: invalid site")

// Default returns the built-in site content.
func Default() *Site {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded default.yaml: %v", err))
	}
	return s
}

// Load reads and validates a site file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load site %s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the fields the page cannot render without.
func (s *Site) Validate() error {
	if s.Hero.Name == "" {
		return fmt.Errorf("%w: hero.name is required", ErrInvalidSite)
	}
	known := make(map[string]bool, len(Sections))
	for _, id := range Sections {
		known[id] = true
	}
	seen := map[string]bool{}
	for _, l := range s.Nav {
		if !known[l.Section] {
			return fmt.Errorf("%w: nav link %q targets unknown section %q", ErrInvalidSite, l.Label, l.Section)
		}
		if seen[l.Section] {
			return fmt.Errorf("%w: duplicate nav section %q", ErrInvalidSite, l.Section)
		}
		seen[l.Section] = true
	}
	for _, b := range s.Hero.Buttons {
		if b.ScrollTo != "" && !known[b.ScrollTo] {
			return fmt.Errorf("%w: hero button %q scrolls to unknown section %q", ErrInvalidSite, b.Label, b.ScrollTo)
		}
	}
	return nil
}
