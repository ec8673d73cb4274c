package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-generator/internal/types"
)

func pdfArtifact(size int) *types.Artifact {
	content := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, size)...)
	return &types.Artifact{Bytes: content[:size], MIMEType: "application/pdf"}
}

func TestValidateArtifact_NilIsHard(t *testing.T) {
	report := ValidateArtifact(nil, "application/pdf")
	assert.False(t, report.IsValid)
	assert.Equal(t, IssueNilArtifact, report.HardIssues()[0].Code)
}

// Artifact validity boundary: 0 bytes always invalid, 999 bytes is a
// warning, 50 KB with the right MIME type passes.
func TestValidateArtifact_SizeBoundaries(t *testing.T) {
	cases := []struct {
		name       string
		size       int
		wantValid  bool
		wantIssues []string
	}{
		{"zero bytes", 0, false, []string{IssueEmptyArtifact}},
		{"999 bytes", 999, true, []string{IssueImplausiblySmall}},
		{"50 KB", 50 * 1024, true, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := ValidateArtifact(pdfArtifact(tc.size), "application/pdf")

			assert.Equal(t, tc.wantValid, report.IsValid)
			var codes []string
			for _, issue := range report.Issues {
				codes = append(codes, issue.Code)
			}
			assert.Equal(t, tc.wantIssues, codes)
		})
	}
}

func TestValidateArtifact_WrongMIMEIsHard(t *testing.T) {
	artifact := pdfArtifact(50 * 1024)
	artifact.MIMEType = "text/html"

	report := ValidateArtifact(artifact, "application/pdf")

	assert.False(t, report.IsValid)
	require.Len(t, report.HardIssues(), 1)
	assert.Equal(t, IssueUnexpectedMIME, report.HardIssues()[0].Code)
}

func TestValidateArtifact_MissingPDFHeaderIsWarning(t *testing.T) {
	artifact := &types.Artifact{
		Bytes:    bytes.Repeat([]byte{0x41}, 50*1024),
		MIMEType: "application/pdf",
	}

	report := ValidateArtifact(artifact, "application/pdf")

	assert.True(t, report.IsValid)
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, IssueMissingPDFPreface, report.Warnings()[0].Code)
}
