package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/types"
)

func TestPrintModel(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	model := &types.CVModel{
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe", Title: "Systems Engineer"},
		Experiences: []types.Experience{
			{Title: "Engineer", Organization: "Acme Corp", Type: types.ExperienceWork},
		},
		Skills: []types.Skill{{Name: "Go", ProficiencyLevel: 5}},
		Projects: []types.Project{
			{Title: "Pipeline", Featured: true},
			{Title: "Sidecar"},
		},
		Languages: []types.Language{{Name: "English"}},
	}

	p.PrintModel(model)
	output := buf.String()

	assert.Contains(t, output, "RECONCILED CV MODEL")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Systems Engineer")
	assert.Contains(t, output, "Engineer @ Acme Corp")
	assert.Contains(t, output, "Projects:  2 (1 featured)")
}

func TestPrintModel_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintModel(nil)

	assert.Empty(t, buf.String())
}

func TestPrintModel_TruncatesExperienceList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	model := &types.CVModel{
		Experiences: make([]types.Experience, 8),
	}

	p.PrintModel(model)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintAggregateReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAggregateReport(&aggregate.Report{Source: aggregate.SourceCollections})
	output := buf.String()

	assert.Contains(t, output, "DATA AGGREGATION")
	assert.Contains(t, output, "collections")
	assert.Contains(t, output, "All collections resolved.")
}

func TestPrintAggregateReport_Partial(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAggregateReport(&aggregate.Report{
		Source:          aggregate.SourceCollections,
		PartialFailures: []string{"skills", "projects"},
	})
	output := buf.String()

	assert.Contains(t, output, "Failed collections:")
	assert.Contains(t, output, "skills")
	assert.Contains(t, output, "projects")
}

func TestPrintValidationReport_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidationReport(types.NewValidationReport())

	assert.Contains(t, buf.String(), "NO VALIDATION ISSUES")
}

func TestPrintValidationReport_MixedSeverities(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := types.NewValidationReport()
	report.Add("empty_artifact", types.SeverityHard, "artifact has zero bytes")
	report.Add("small_artifact", types.SeverityWarning, "artifact below plausible size")

	p.PrintValidationReport(report)
	output := buf.String()

	assert.Contains(t, output, "VALIDATION ISSUES")
	assert.Contains(t, output, "2 issues (1 hard, 1 warnings)")
	assert.Contains(t, output, "✗ empty_artifact")
	assert.Contains(t, output, "⚠ small_artifact")
}

func TestPrintArtifact(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	artifact := &types.Artifact{Bytes: []byte("%PDF-1.4"), MIMEType: "application/pdf"}
	p.PrintArtifact(artifact, "/tmp/out.pdf")
	output := buf.String()

	assert.Contains(t, output, "RENDERED ARTIFACT")
	assert.Contains(t, output, "8 bytes")
	assert.Contains(t, output, "application/pdf")
	assert.Contains(t, output, "/tmp/out.pdf")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
