//nolint:revive // types is a standard Go package name pattern
package types

// IssueSeverity classifies a validation issue. Hard issues make the
// subject invalid; warnings are advisory and recorded only.
type IssueSeverity string

const (
	SeverityHard    IssueSeverity = "hard"
	SeverityWarning IssueSeverity = "warning"
)

// Issue represents a single validation finding.
type Issue struct {
	Code     string        `json:"code"`
	Severity IssueSeverity `json:"severity"`
	Details  string        `json:"details"`
}

// ValidationReport collects the findings of a model or artifact check.
// IsValid is true only when no hard-severity issue is present.
type ValidationReport struct {
	Issues  []Issue `json:"issues"`
	IsValid bool    `json:"is_valid"`
}

// Add appends an issue and recomputes validity.
func (r *ValidationReport) Add(code string, severity IssueSeverity, details string) {
	r.Issues = append(r.Issues, Issue{Code: code, Severity: severity, Details: details})
	if severity == SeverityHard {
		r.IsValid = false
	}
}

// Warnings returns only the warning-severity issues.
func (r *ValidationReport) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// HardIssues returns only the hard-severity issues.
func (r *ValidationReport) HardIssues() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityHard {
			out = append(out, issue)
		}
	}
	return out
}

// NewValidationReport returns an empty report that is valid until a hard
// issue is added.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{IsValid: true}
}
