// Package document builds the declarative document description handed to
// the layout engine. One canonical builder serves every theme; only the
// section-to-visual-style mapping varies.
package document

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-generator/internal/types"
)

// Section caps keep the default layout to one page. These are a page
// budget policy, not arbitrary limits.
const (
	MaxExperiences = 4
	MaxProjects    = 3
	MaxSkills      = 12
)

// Section IDs present in every built document.
const (
	SectionHeader     = "header"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
	SectionLanguages  = "languages"
)

// Build constructs the document description for a reconciled model.
func Build(model *types.CVModel, theme types.Theme) (*types.Document, error) {
	if model == nil {
		return nil, fmt.Errorf("cannot build document from nil model")
	}

	styles, ok := themeStyles[theme]
	if !ok {
		theme = types.ThemeModern
		styles = themeStyles[theme]
	}

	doc := &types.Document{
		Title:  fmt.Sprintf("CV — %s", model.PersonalInfo.Name),
		Theme:  theme,
		Page:   a4Page(),
		Locale: model.Locale,
	}

	doc.Sections = append(doc.Sections, headerSection(model, styles))

	if model.PersonalInfo.Summary != "" {
		doc.Sections = append(doc.Sections, types.Section{
			ID:    SectionSummary,
			Title: "Summary",
			Blocks: []types.Block{
				{Kind: types.BlockParagraph, Text: model.PersonalInfo.Summary, StyleRef: styles.Body},
			},
		})
	}

	if section := experienceSection(SectionExperience, "Experience", capExperiences(model.Experiences), styles); section != nil {
		doc.Sections = append(doc.Sections, *section)
	}
	if section := skillsSection(model, styles); section != nil {
		doc.Sections = append(doc.Sections, *section)
	}
	if section := projectsSection(model, styles); section != nil {
		doc.Sections = append(doc.Sections, *section)
	}
	if section := experienceSection(SectionEducation, "Education", model.Education, styles); section != nil {
		doc.Sections = append(doc.Sections, *section)
	}
	if section := languagesSection(model, styles); section != nil {
		doc.Sections = append(doc.Sections, *section)
	}

	return doc, nil
}

func a4Page() types.PageSetup {
	return types.PageSetup{
		Width:        8.27,
		Height:       11.69,
		MarginTop:    0.6,
		MarginBottom: 0.6,
		MarginLeft:   0.7,
		MarginRight:  0.7,
	}
}

func headerSection(model *types.CVModel, styles styleSet) types.Section {
	info := model.PersonalInfo
	contact := make([]string, 0, 4)
	for _, field := range []string{info.Email, info.Phone, info.Location, info.Website} {
		if field != "" {
			contact = append(contact, field)
		}
	}

	blocks := []types.Block{
		{Kind: types.BlockHeading, Level: 1, Text: info.Name, StyleRef: styles.Name},
		{Kind: types.BlockParagraph, Text: info.Title, StyleRef: styles.Subtitle},
	}
	if len(contact) > 0 {
		blocks = append(blocks, types.Block{
			Kind:     types.BlockParagraph,
			Text:     strings.Join(contact, " · "),
			StyleRef: styles.Contact,
		})
	}
	return types.Section{ID: SectionHeader, Title: "", Blocks: blocks}
}

// capExperiences keeps the most recent entries within the page budget.
// The model is already ordered most-recent-first.
func capExperiences(experiences []types.Experience) []types.Experience {
	if len(experiences) > MaxExperiences {
		return experiences[:MaxExperiences]
	}
	return experiences
}

func experienceSection(id, title string, entries []types.Experience, styles styleSet) *types.Section {
	if len(entries) == 0 {
		return nil
	}
	section := types.Section{ID: id, Title: title}
	for _, entry := range entries {
		heading := entry.Title
		if entry.Organization != "" {
			heading = fmt.Sprintf("%s — %s", entry.Title, entry.Organization)
		}
		section.Blocks = append(section.Blocks, types.Block{
			Kind: types.BlockHeading, Level: 3, Text: heading, StyleRef: styles.EntryTitle,
		})
		section.Blocks = append(section.Blocks, types.Block{
			Kind: types.BlockParagraph, Text: dateRange(entry), StyleRef: styles.Dates,
		})
		if entry.Description != "" {
			section.Blocks = append(section.Blocks, types.Block{
				Kind: types.BlockParagraph, Text: entry.Description, StyleRef: styles.Body,
			})
		}
		if len(entry.Achievements) > 0 {
			section.Blocks = append(section.Blocks, types.Block{
				Kind: types.BlockList, Items: entry.Achievements, StyleRef: styles.Body,
			})
		}
		if len(entry.Technologies) > 0 {
			section.Blocks = append(section.Blocks, types.Block{
				Kind: types.BlockParagraph, Text: strings.Join(entry.Technologies, ", "), StyleRef: styles.Tags,
			})
		}
	}
	return &section
}

func dateRange(entry types.Experience) string {
	if entry.IsCurrent || entry.EndDate == nil {
		return fmt.Sprintf("%s – Present", entry.StartDate)
	}
	return fmt.Sprintf("%s – %s", entry.StartDate, *entry.EndDate)
}

func skillsSection(model *types.CVModel, styles styleSet) *types.Section {
	skills := model.Skills
	if len(skills) == 0 {
		return nil
	}
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}

	// Grouped by category, listed in first-seen order.
	order := make([]string, 0)
	grouped := make(map[string][]types.Skill)
	for _, skill := range skills {
		if _, seen := grouped[skill.Category]; !seen {
			order = append(order, skill.Category)
		}
		grouped[skill.Category] = append(grouped[skill.Category], skill)
	}

	section := types.Section{ID: SectionSkills, Title: "Skills"}
	for _, category := range order {
		names := make([]string, 0, len(grouped[category]))
		for _, skill := range grouped[category] {
			names = append(names, skill.Name)
		}
		section.Blocks = append(section.Blocks, types.Block{
			Kind:     types.BlockParagraph,
			Text:     fmt.Sprintf("%s: %s", category, strings.Join(names, ", ")),
			StyleRef: styles.Body,
		})
	}
	return &section
}

// projectsSection prefers featured projects when the cap bites.
func projectsSection(model *types.CVModel, styles styleSet) *types.Section {
	projects := model.Projects
	if len(projects) == 0 {
		return nil
	}
	if len(projects) > MaxProjects {
		selected := make([]types.Project, 0, MaxProjects)
		for _, p := range projects {
			if p.Featured && len(selected) < MaxProjects {
				selected = append(selected, p)
			}
		}
		for _, p := range projects {
			if len(selected) == MaxProjects {
				break
			}
			if !p.Featured {
				selected = append(selected, p)
			}
		}
		projects = selected
	}

	section := types.Section{ID: SectionProjects, Title: "Projects"}
	for _, project := range projects {
		section.Blocks = append(section.Blocks, types.Block{
			Kind: types.BlockHeading, Level: 3, Text: project.Title, StyleRef: styles.EntryTitle,
		})
		if project.Description != "" {
			section.Blocks = append(section.Blocks, types.Block{
				Kind: types.BlockParagraph, Text: project.Description, StyleRef: styles.Body,
			})
		}
		if len(project.Technologies) > 0 {
			section.Blocks = append(section.Blocks, types.Block{
				Kind: types.BlockParagraph, Text: strings.Join(project.Technologies, ", "), StyleRef: styles.Tags,
			})
		}
	}
	return &section
}

func languagesSection(model *types.CVModel, styles styleSet) *types.Section {
	if len(model.Languages) == 0 {
		return nil
	}
	items := make([]string, 0, len(model.Languages))
	for _, lang := range model.Languages {
		items = append(items, fmt.Sprintf("%s — %s", lang.Name, lang.ProficiencyLevel))
	}
	return &types.Section{
		ID:    SectionLanguages,
		Title: "Languages",
		Blocks: []types.Block{
			{Kind: types.BlockList, Items: items, StyleRef: styles.Body},
		},
	}
}
