package delivery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-generator/internal/types"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		person string
		debug  bool
		want   string
	}{
		{"simple name", "Ada Lovelace", false, "CV-Ada-Lovelace-2026-03-14.pdf"},
		{"unsafe characters stripped", "Ada / Lovelace?", false, "CV-Ada--Lovelace-2026-03-14.pdf"},
		{"empty name", "", false, "CV-CV-2026-03-14.pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Filename(tc.person, now, tc.debug))
		})
	}
}

func TestFilename_DebugAppendsMillis(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	got := Filename("Ada", now, true)

	assert.Contains(t, got, "CV-Ada-2026-03-14-")
	assert.Regexp(t, `-\d{13}\.pdf$`, got)
}

func TestFileSystem_Download(t *testing.T) {
	dir := t.TempDir()
	fs := &FileSystem{Dir: dir}
	artifact := &types.Artifact{Bytes: []byte("%PDF-1.7 test"), MIMEType: "application/pdf"}

	path, err := fs.Download(context.Background(), artifact, "CV-Test.pdf")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "CV-Test.pdf"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, artifact.Bytes, content)
}

func TestFileSystem_DownloadRejectsEmptyArtifact(t *testing.T) {
	fs := &FileSystem{Dir: t.TempDir()}

	_, err := fs.Download(context.Background(), &types.Artifact{}, "CV.pdf")
	assert.Error(t, err)

	_, err = fs.Download(context.Background(), nil, "CV.pdf")
	assert.Error(t, err)
}

func TestFileSystem_PreviewRejectsEmptyArtifact(t *testing.T) {
	fs := &FileSystem{}
	err := fs.Preview(context.Background(), nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPreviewBlocked) // empty input is a caller bug, not a blocked viewer
}
