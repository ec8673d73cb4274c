package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-generator/internal/types"
)

func validModel() *types.CVModel {
	return &types.CVModel{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Title: "Engineer"},
		Experiences: []types.Experience{
			{Title: "Engineer", StartDate: "2020-01", IsCurrent: true, Type: types.ExperienceWork},
		},
		Skills:       []types.Skill{{Name: "Go", Category: "Languages", ProficiencyLevel: 4}},
		Projects:     []types.Project{{Title: "Site", Status: types.ProjectLive}},
		Education:    []types.Experience{},
		Languages:    []types.Language{},
		Achievements: []string{},
		Locale:       "en",
		GeneratedAt:  time.Now(),
	}
}

func TestValidateModel_ValidModel(t *testing.T) {
	report := ValidateModel(validModel())

	assert.True(t, report.IsValid)
	assert.Empty(t, report.HardIssues())
}

func TestValidateModel_NilModel(t *testing.T) {
	report := ValidateModel(nil)
	assert.False(t, report.IsValid)
}

func TestValidateModel_MissingPersonalInfoIsHard(t *testing.T) {
	model := validModel()
	model.PersonalInfo = types.PersonalInfo{}

	report := ValidateModel(model)

	assert.False(t, report.IsValid)
	require.NotEmpty(t, report.HardIssues())
	assert.Equal(t, IssueMissingPersonalInfo, report.HardIssues()[0].Code)
}

func TestValidateModel_NilCollectionIsHard(t *testing.T) {
	model := validModel()
	model.Experiences = nil

	report := ValidateModel(model)

	assert.False(t, report.IsValid)
	assert.Equal(t, IssueNilCollection, report.HardIssues()[0].Code)
}

// Empty but well-typed collections are warnings, not invalidity.
func TestValidateModel_EmptyCollectionsAreWarnings(t *testing.T) {
	model := validModel()
	model.Experiences = []types.Experience{}
	model.Skills = []types.Skill{}
	model.Projects = []types.Project{}

	report := ValidateModel(model)

	assert.True(t, report.IsValid)
	assert.Len(t, report.Warnings(), 3)
}

func TestValidateModel_CurrentWithEndDate(t *testing.T) {
	end := "2023-01"
	model := validModel()
	model.Experiences = []types.Experience{
		{Title: "Engineer", StartDate: "2020-01", EndDate: &end, IsCurrent: true},
	}

	report := ValidateModel(model)

	assert.True(t, report.IsValid) // advisory
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, IssueCurrentWithEndDate, report.Warnings()[0].Code)
}

func TestValidateModel_StartAfterEnd(t *testing.T) {
	end := "2019-01"
	model := validModel()
	model.Experiences = []types.Experience{
		{Title: "Engineer", StartDate: "2020-01", EndDate: &end},
	}

	report := ValidateModel(model)

	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, IssueDateOrder, report.Warnings()[0].Code)
}

func TestValidateModel_ProficiencyOutOfRange(t *testing.T) {
	model := validModel()
	model.Skills = []types.Skill{{Name: "Go", ProficiencyLevel: 7}}

	report := ValidateModel(model)

	assert.True(t, report.IsValid)
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, IssueProficiencyRange, report.Warnings()[0].Code)
}
