// Package validation provides structural validators for the canonical CV
// model and for rendered artifacts.
//
// Validators report issues instead of aborting. A report is invalid only
// when it carries hard issues; empty-but-well-typed collections are
// warnings, not invalidity.
package validation

import (
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
)

// Issue codes for model validation.
const (
	IssueMissingPersonalInfo = "missing_personal_info"
	IssueEmptyExperiences    = "empty_experiences"
	IssueEmptySkills         = "empty_skills"
	IssueEmptyProjects       = "empty_projects"
	IssueNilCollection       = "nil_collection"
	IssueDateOrder           = "date_order"
	IssueCurrentWithEndDate  = "current_with_end_date"
	IssueProficiencyRange    = "proficiency_range"
)

// ValidateModel checks a canonical model for completeness before a
// document is built from it.
func ValidateModel(model *types.CVModel) *types.ValidationReport {
	report := types.NewValidationReport()

	if model == nil {
		report.Add(IssueMissingPersonalInfo, types.SeverityHard, "model is nil")
		return report
	}

	if model.PersonalInfo.Name == "" || model.PersonalInfo.Title == "" {
		report.Add(IssueMissingPersonalInfo, types.SeverityHard,
			"personal info must carry at least a name and a title")
	}

	// A nil collection means the model bypassed reconciliation; that is a
	// hard structural fault, unlike a merely empty collection.
	checkCollection(report, "experiences", model.Experiences == nil, len(model.Experiences), IssueEmptyExperiences)
	checkCollection(report, "skills", model.Skills == nil, len(model.Skills), IssueEmptySkills)
	checkCollection(report, "projects", model.Projects == nil, len(model.Projects), IssueEmptyProjects)
	if model.Education == nil || model.Languages == nil || model.Achievements == nil {
		report.Add(IssueNilCollection, types.SeverityHard,
			"education, languages, and achievements must be sequences, never nil")
	}

	for i, exp := range append(append([]types.Experience{}, model.Experiences...), model.Education...) {
		if exp.IsCurrent && exp.EndDate != nil {
			report.Add(IssueCurrentWithEndDate, types.SeverityWarning,
				fmt.Sprintf("entry %d (%s) is current but carries an end date", i, exp.Title))
		}
		if exp.EndDate != nil && exp.StartDate > *exp.EndDate {
			report.Add(IssueDateOrder, types.SeverityWarning,
				fmt.Sprintf("entry %d (%s) starts after it ends", i, exp.Title))
		}
	}

	for _, skill := range model.Skills {
		if skill.ProficiencyLevel < 1 || skill.ProficiencyLevel > 5 {
			report.Add(IssueProficiencyRange, types.SeverityWarning,
				fmt.Sprintf("skill %q proficiency %d outside 1..5", skill.Name, skill.ProficiencyLevel))
		}
	}

	return report
}

func checkCollection(report *types.ValidationReport, name string, isNil bool, length int, emptyCode string) {
	if isNil {
		report.Add(IssueNilCollection, types.SeverityHard,
			fmt.Sprintf("%s must be a sequence, never nil", name))
		return
	}
	if length == 0 {
		report.Add(emptyCode, types.SeverityWarning, fmt.Sprintf("%s is empty", name))
	}
}
