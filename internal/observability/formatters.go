// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintModel outputs a human-readable summary of the reconciled CV model.
func (p *Printer) PrintModel(model *types.CVModel) {
	if model == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:   %s\n", model.PersonalInfo.Name))
	sb.WriteString(fmt.Sprintf("Title:  %s\n", model.PersonalInfo.Title))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Experiences: %d\n", len(model.Experiences)))
	count := min(len(model.Experiences), maxItemsToShow)
	for i := 0; i < count; i++ {
		exp := model.Experiences[i]
		sb.WriteString(fmt.Sprintf("  • %s @ %s\n", exp.Title, exp.Organization))
	}
	if len(model.Experiences) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(model.Experiences)-maxItemsToShow))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Skills:    %d\n", len(model.Skills)))
	sb.WriteString(fmt.Sprintf("Projects:  %d (%d featured)\n", len(model.Projects), len(model.FeaturedProjects())))
	sb.WriteString(fmt.Sprintf("Languages: %d", len(model.Languages)))

	p.printBox("RECONCILED CV MODEL", sb.String())
}

// PrintAggregateReport outputs which data source produced the model and
// which collections failed during assembly.
func (p *Printer) PrintAggregateReport(report *aggregate.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", report.Source))

	if report.Partial() {
		sb.WriteString("\nFailed collections:\n")
		for _, name := range report.PartialFailures {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", name))
		}
	} else {
		sb.WriteString("\nAll collections resolved.")
	}

	p.printBox("DATA AGGREGATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationReport outputs validation issues grouped by severity.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationReport(report *types.ValidationReport) {
	if report == nil || len(report.Issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VALIDATION ISSUES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	hard := report.HardIssues()
	warnings := report.Warnings()
	sb.WriteString(fmt.Sprintf("Found %d issues (%d hard, %d warnings):\n\n",
		len(report.Issues), len(hard), len(warnings)))

	for i, issue := range report.Issues {
		marker := "⚠"
		if issue.Severity == types.SeverityHard {
			marker = "✗"
		}
		detail := issue.Details
		if len(detail) > 45 {
			detail = detail[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, issue.Code))
		sb.WriteString(fmt.Sprintf("  %s\n", detail))
		if i < len(report.Issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION ISSUES", sb.String())
}

// PrintArtifact outputs a short summary of the rendered artifact.
func (p *Printer) PrintArtifact(artifact *types.Artifact, path string) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Size:  %d bytes\n", artifact.Size()))
	sb.WriteString(fmt.Sprintf("MIME:  %s", artifact.MIMEType))
	if path != "" {
		sb.WriteString(fmt.Sprintf("\nPath:  %s", path))
	}

	p.printBox("RENDERED ARTIFACT", sb.String())
}
