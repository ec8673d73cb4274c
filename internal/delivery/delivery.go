// Package delivery hands rendered artifacts to the user, either as a
// named file download or an opened preview context.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/jonathan/cv-generator/internal/types"
)

// ErrPreviewBlocked reports that no viewing context could be opened for a
// preview. It is a delivery-environment failure, distinct from render
// failure; the remediation is on the user's side.
var ErrPreviewBlocked = errors.New("preview context could not be opened")

// Deliverer is the delivery surface consumed by the orchestrator.
type Deliverer interface {
	// Download persists the artifact under the given filename and
	// returns the absolute path it was written to.
	Download(ctx context.Context, artifact *types.Artifact, filename string) (string, error)
	// Preview opens the artifact in a viewing context. A blocked or
	// unavailable viewer returns ErrPreviewBlocked.
	Preview(ctx context.Context, artifact *types.Artifact) error
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Filename builds the download filename: CV-<Name-with-dashes>-<YYYY-MM-DD>.pdf.
// The debug variant appends a millisecond timestamp to avoid collisions
// during repeated testing.
func Filename(personName string, now time.Time, debug bool) string {
	name := strings.TrimSpace(personName)
	name = strings.ReplaceAll(name, " ", "-")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	if name == "" {
		name = "CV"
	}

	base := fmt.Sprintf("CV-%s-%s", name, now.Format("2006-01-02"))
	if debug {
		base = fmt.Sprintf("%s-%d", base, now.UnixMilli())
	}
	return base + ".pdf"
}

// FileSystem delivers artifacts to a local directory and previews them
// with the system viewer.
type FileSystem struct {
	Dir string
}

// Download writes the artifact under Dir.
func (f *FileSystem) Download(_ context.Context, artifact *types.Artifact, filename string) (string, error) {
	if artifact == nil || artifact.Size() == 0 {
		return "", fmt.Errorf("refusing to write empty artifact")
	}
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := os.WriteFile(path, artifact.Bytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// Preview writes the artifact to a temp file and opens the system viewer.
// Temp resources are cleaned up if the viewer cannot be launched.
func (f *FileSystem) Preview(ctx context.Context, artifact *types.Artifact) error {
	if artifact == nil || artifact.Size() == 0 {
		return fmt.Errorf("refusing to preview empty artifact")
	}

	tmp, err := os.CreateTemp("", "cv-preview-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPreviewBlocked, err)
	}
	if _, err := tmp.Write(artifact.Bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPreviewBlocked, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPreviewBlocked, err)
	}

	if err := openViewer(ctx, tmp.Name()); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPreviewBlocked, err)
	}
	return nil
}

// Discard accepts artifacts without side effects. Callers that stream
// the artifact themselves, like the HTTP server, embed it so the
// generation lifecycle completes without touching the local filesystem.
type Discard struct{}

// Download validates the artifact and reports the bare filename as its
// destination.
func (Discard) Download(_ context.Context, artifact *types.Artifact, filename string) (string, error) {
	if artifact == nil || artifact.Size() == 0 {
		return "", fmt.Errorf("refusing to write empty artifact")
	}
	return filename, nil
}

// Preview validates the artifact and returns. No viewer is involved.
func (Discard) Preview(_ context.Context, artifact *types.Artifact) error {
	if artifact == nil || artifact.Size() == 0 {
		return fmt.Errorf("refusing to preview empty artifact")
	}
	return nil
}

func openViewer(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	return cmd.Start()
}
