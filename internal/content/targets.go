package content

import (
	"fmt"
	"time"

	"github.com/Zachkp/portfolio/internal/reveal"
)

const (
	skillStagger      = 100 * time.Millisecond
	experienceStagger = 100 * time.Millisecond
	projectStagger    = 200 * time.Millisecond
)

// Reveal target IDs used by the templates.
func HeaderID(section string) string { return section + "-header" }
func SkillGroupID(i int) string      { return fmt.Sprintf("about-skills-%d", i) }
func ExperienceID(i int) string      { return fmt.Sprintf("education-exp-%d", i) }
func ProjectID(i int) string         { return fmt.Sprintf("project-%d", i) }

const (
	UniversityID  = "education-university"
	ContactFormID = "contact-form"
	ContactInfoID = "contact-info"
	FooterID      = "footer"
)

// Targets lists every reveal-eligible element of s in document order, with
// list items staggered by their position.
func Targets(s *Site) []reveal.Target {
	var ts []reveal.Target
	add := func(id string, d time.Duration) {
		ts = append(ts, reveal.Target{ID: id, StaggerDelay: d})
	}

	add(HeaderID(SectionAbout), 0)
	for i := range s.About.SkillGroups {
		add(SkillGroupID(i), time.Duration(i)*skillStagger)
	}

	add(HeaderID(SectionEducation), 0)
	add(UniversityID, 0)
	for i := range s.Education.Experiences {
		add(ExperienceID(i), time.Duration(i)*experienceStagger)
	}

	add(HeaderID(SectionProjects), 0)
	for i := range s.Projects.Items {
		add(ProjectID(i), time.Duration(i)*projectStagger)
	}

	add(HeaderID(SectionContact), 0)
	add(ContactFormID, 0)
	add(ContactInfoID, 100*time.Millisecond)
	add(FooterID, 0)
	return ts
}
