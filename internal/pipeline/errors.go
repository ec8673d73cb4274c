// Package pipeline provides the high-level orchestration for the CV
// generation process.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-generator/internal/types"
)

// Fatal generation errors. Each maps to a distinct, actionable user-facing
// message: the taxonomy separates data problems from render problems from
// delivery-environment problems.
var (
	// ErrAlreadyInProgress rejects a concurrent generation trigger. Not a
	// failure of generation itself; callers may retry once the current
	// run settles.
	ErrAlreadyInProgress = errors.New("a generation run is already in progress")

	// ErrRenderTimeout reports that the layout engine exceeded its
	// deadline.
	ErrRenderTimeout = errors.New("rendering timed out")

	// ErrEmptyArtifact reports a zero-byte rendered artifact. Always
	// fatal regardless of the advisory validation policy.
	ErrEmptyArtifact = errors.New("rendered artifact is empty")
)

// InvalidModelError reports a model that failed hard validation before
// rendering was attempted.
type InvalidModelError struct {
	Report *types.ValidationReport
}

func (e *InvalidModelError) Error() string {
	issues := e.Report.HardIssues()
	if len(issues) == 0 {
		return "cv model failed validation"
	}
	return fmt.Sprintf("cv model failed validation: %s", issues[0].Details)
}

// ValidationBlockedError reports delivery blocked by the strict advisory
// validation policy.
type ValidationBlockedError struct {
	Report *types.ValidationReport
}

func (e *ValidationBlockedError) Error() string {
	return fmt.Sprintf("artifact validation reported %d issue(s) and strict validation is enabled",
		len(e.Report.Issues))
}
