package validation

import (
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
)

// MinPlausibleArtifactSize is the byte threshold below which a rendered
// document is almost certainly malformed or empty.
const MinPlausibleArtifactSize = 1024

// Issue codes for artifact validation.
const (
	IssueNilArtifact       = "nil_artifact"
	IssueEmptyArtifact     = "empty_artifact"
	IssueImplausiblySmall  = "implausibly_small"
	IssueUnexpectedMIME    = "unexpected_mime_type"
	IssueMissingPDFPreface = "missing_pdf_preface"
)

// ValidateArtifact checks a rendered artifact before delivery. A nil or
// zero-byte artifact is a hard failure; an implausibly small one is a
// warning.
func ValidateArtifact(artifact *types.Artifact, expectedMIME string) *types.ValidationReport {
	report := types.NewValidationReport()

	if artifact == nil {
		report.Add(IssueNilArtifact, types.SeverityHard, "artifact is nil")
		return report
	}
	if artifact.Size() == 0 {
		report.Add(IssueEmptyArtifact, types.SeverityHard, "artifact has zero bytes")
		return report
	}
	if artifact.Size() < MinPlausibleArtifactSize {
		report.Add(IssueImplausiblySmall, types.SeverityWarning,
			fmt.Sprintf("artifact is %d bytes, below the %d byte plausibility threshold",
				artifact.Size(), MinPlausibleArtifactSize))
	}
	if expectedMIME != "" && artifact.MIMEType != expectedMIME {
		report.Add(IssueUnexpectedMIME, types.SeverityHard,
			fmt.Sprintf("artifact MIME type is %q, expected %q", artifact.MIMEType, expectedMIME))
	}
	if expectedMIME == "application/pdf" && artifact.Size() >= 5 && string(artifact.Bytes[:5]) != "%PDF-" {
		report.Add(IssueMissingPDFPreface, types.SeverityWarning,
			"artifact does not begin with a PDF header")
	}

	return report
}
