// Package reconcile normalizes heterogeneous raw CV records into the
// canonical model.
//
// Source records drift between two naming conventions (camelCase
// "personalInfo" vs snake_case "personal_info") and may omit any collection
// entirely. This package is the single translation boundary: no other
// component may branch on key casing or missing collections.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/cv-generator/internal/types"
)

// Options controls optional reconciliation behavior.
type Options struct {
	// SynthesizePlaceholders enables generating placeholder achievement
	// text when the source carries none. Kept separate from core
	// normalization so it can be disabled without touching reconciliation.
	SynthesizePlaceholders bool

	// Now overrides the timestamp source, for tests. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions matches historical output: placeholders on.
func DefaultOptions() Options {
	return Options{SynthesizePlaceholders: true}
}

// Reconcile normalizes a raw record into the canonical CV model. It is a
// pure function over its inputs and never fails for well-formed JSON:
// unknown or missing fields degrade to documented defaults. Locale and
// GeneratedAt are always stamped fresh, never trusted from the source.
func Reconcile(raw map[string]any, locale string, opts Options) *types.CVModel {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	model := &types.CVModel{
		PersonalInfo: reconcilePersonalInfo(raw),
		Experiences:  reconcileExperiences(collectionOf(raw, "experiences"), types.ExperienceWork),
		Skills:       reconcileSkills(collectionOf(raw, "skills")),
		Projects:     reconcileProjects(collectionOf(raw, "projects")),
		Education:    reconcileExperiences(collectionOf(raw, "education"), types.ExperienceEducation),
		Languages:    reconcileLanguages(collectionOf(raw, "languages")),
		Achievements: stringsOf(collectionOf(raw, "achievements")),
		Locale:       locale,
		GeneratedAt:  now().UTC(),
	}

	if opts.SynthesizePlaceholders && len(model.Achievements) == 0 {
		model.Achievements = SynthesizeAchievements(model)
	}

	return model
}

// SynthesizeAchievements generates placeholder achievement text from the
// amount of available project data. This fabricates content where the
// source has none; callers can disable it via Options.
func SynthesizeAchievements(model *types.CVModel) []string {
	if len(model.Projects) == 0 {
		return []string{}
	}
	return []string{fmt.Sprintf("%d+ projects delivered", len(model.Projects))}
}

// reconcilePersonalInfo reads the identity block under either naming
// convention, preferring camelCase, and synthesizes a default block when
// both are absent so rendering never branches on presence.
func reconcilePersonalInfo(raw map[string]any) types.PersonalInfo {
	block, ok := mapOf(raw, "personalInfo")
	if !ok {
		block, ok = mapOf(raw, "personal_info")
	}
	if !ok {
		return types.PersonalInfo{Name: "—", Title: "—"}
	}

	info := types.PersonalInfo{
		Name:     stringField(block, "name"),
		Title:    stringField(block, "title"),
		Email:    stringField(block, "email"),
		Phone:    stringField(block, "phone"),
		Location: stringField(block, "location"),
		Website:  stringField(block, "website"),
		Summary:  stringField(block, "summary"),
	}
	if info.Name == "" {
		info.Name = "—"
	}
	if info.Title == "" {
		info.Title = "—"
	}
	return info
}

func reconcileExperiences(items []any, defaultType types.ExperienceType) []types.Experience {
	out := make([]types.Experience, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, reconcileExperience(entry, defaultType))
	}
	// Most-recent-first. ISO-style date strings order lexically.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate > out[j].StartDate
	})
	return out
}

func reconcileExperience(entry map[string]any, defaultType types.ExperienceType) types.Experience {
	exp := types.Experience{
		Title:        firstString(entry, "title", "role", "position"),
		Organization: firstString(entry, "organization", "company", "institution"),
		Location:     stringField(entry, "location"),
		Description:  stringField(entry, "description"),
		StartDate:    firstString(entry, "startDate", "start_date"),
		IsCurrent:    boolField(entry, "isCurrent") || boolField(entry, "is_current"),
		Type:         experienceType(entry, defaultType),
		Technologies: stringsOf(collectionOf(entry, "technologies")),
		Achievements: stringsOf(collectionOf(entry, "achievements")),
	}

	if end := firstString(entry, "endDate", "end_date"); end != "" && !exp.IsCurrent {
		exp.EndDate = &end
	}
	// An ongoing position never carries an end date.
	if exp.IsCurrent {
		exp.EndDate = nil
	}
	return exp
}

func experienceType(entry map[string]any, fallback types.ExperienceType) types.ExperienceType {
	switch stringField(entry, "type") {
	case "work":
		return types.ExperienceWork
	case "education":
		return types.ExperienceEducation
	case "volunteer":
		return types.ExperienceVolunteer
	default:
		return fallback
	}
}

func reconcileSkills(items []any) []types.Skill {
	out := make([]types.Skill, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		skill := types.Skill{
			Name:             stringField(entry, "name"),
			Category:         stringField(entry, "category"),
			ProficiencyLevel: intField(entry, "proficiencyLevel", "proficiency_level", "level"),
			YearsExperience:  floatField(entry, "yearsExperience", "years_experience"),
		}
		if skill.Category == "" {
			skill.Category = "General"
		}
		if skill.ProficiencyLevel < 1 {
			skill.ProficiencyLevel = 1
		}
		if skill.ProficiencyLevel > 5 {
			skill.ProficiencyLevel = 5
		}
		if skill.YearsExperience < 0 {
			skill.YearsExperience = 0
		}
		out = append(out, skill)
	}
	return out
}

func reconcileProjects(items []any) []types.Project {
	out := make([]types.Project, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, types.Project{
			Title:         firstString(entry, "title", "name"),
			Description:   stringField(entry, "description"),
			Technologies:  stringsOf(collectionOf(entry, "technologies")),
			RepositoryURL: firstString(entry, "repositoryUrl", "repository_url", "github_url"),
			DemoURL:       firstString(entry, "demoUrl", "demo_url", "live_url"),
			Featured:      boolField(entry, "featured"),
			Status:        projectStatus(entry),
		})
	}
	return out
}

func projectStatus(entry map[string]any) types.ProjectStatus {
	switch stringField(entry, "status") {
	case "live":
		return types.ProjectLive
	case "in-development", "in_development":
		return types.ProjectInDevelopment
	case "maintenance":
		return types.ProjectMaintenance
	default:
		return types.ProjectCompleted
	}
}

func reconcileLanguages(items []any) []types.Language {
	out := make([]types.Language, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lang := types.Language{
			Name:             stringField(entry, "name"),
			ProficiencyLevel: firstString(entry, "proficiencyLevel", "proficiency_level", "level"),
		}
		if lang.Name == "" {
			continue
		}
		out = append(out, lang)
	}
	return out
}
