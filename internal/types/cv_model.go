// Package types provides type definitions for structured data used throughout the cv-generator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// PersonalInfo holds the identity block of a CV. Only Name and Title are
// required for a non-empty CV; everything else may be blank.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// ExperienceType distinguishes work history from education and volunteering.
type ExperienceType string

const (
	ExperienceWork      ExperienceType = "work"
	ExperienceEducation ExperienceType = "education"
	ExperienceVolunteer ExperienceType = "volunteer"
)

// Experience represents a single position, degree, or engagement.
// Invariant: IsCurrent == true implies EndDate == nil.
type Experience struct {
	Title        string         `json:"title"`
	Organization string         `json:"organization"`
	Location     string         `json:"location,omitempty"`
	Description  string         `json:"description,omitempty"`
	StartDate    string         `json:"start_date"`
	EndDate      *string        `json:"end_date,omitempty"` // nil = ongoing
	IsCurrent    bool           `json:"is_current"`
	Type         ExperienceType `json:"type"`
	Technologies []string       `json:"technologies"`
	Achievements []string       `json:"achievements"`
}

// Skill represents a single skill with a 1..5 proficiency level.
type Skill struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	ProficiencyLevel int     `json:"proficiency_level"`
	YearsExperience  float64 `json:"years_experience,omitempty"`
}

// ProjectStatus is the lifecycle state of a portfolio project.
type ProjectStatus string

const (
	ProjectLive          ProjectStatus = "live"
	ProjectInDevelopment ProjectStatus = "in-development"
	ProjectCompleted     ProjectStatus = "completed"
	ProjectMaintenance   ProjectStatus = "maintenance"
)

// Project represents a portfolio project.
type Project struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Technologies  []string      `json:"technologies"`
	RepositoryURL string        `json:"repository_url,omitempty"`
	DemoURL       string        `json:"demo_url,omitempty"`
	Featured      bool          `json:"featured"`
	Status        ProjectStatus `json:"status"`
}

// Language represents a spoken language and its proficiency label.
type Language struct {
	Name             string `json:"name"`
	ProficiencyLevel string `json:"proficiency_level"`
}

// CVModel is the canonical, reconciled, renderer-ready CV representation.
// All collection fields are non-nil slices once a model has passed through
// the reconciler; downstream code never branches on presence or key casing.
type CVModel struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Experiences  []Experience `json:"experiences"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
	Education    []Experience `json:"education"`
	Languages    []Language   `json:"languages"`
	Achievements []string     `json:"achievements"`
	Locale       string       `json:"locale"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// FeaturedProjects returns the subset of projects marked featured,
// preserving order.
func (m *CVModel) FeaturedProjects() []Project {
	featured := make([]Project, 0, len(m.Projects))
	for _, p := range m.Projects {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// SkillsByCategory groups skills by their category, preserving first-seen
// category order within each group.
func (m *CVModel) SkillsByCategory() map[string][]Skill {
	groups := make(map[string][]Skill)
	for _, s := range m.Skills {
		groups[s.Category] = append(groups[s.Category], s)
	}
	return groups
}
