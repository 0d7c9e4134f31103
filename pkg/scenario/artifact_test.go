package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Report{
		Status:    statusFailed,
		StartTime: start,
		EndTime:   start.Add(3 * time.Second),
		Duration:  3 * time.Second,
		Passed:    1,
		Failed:    1,
		Results: []Result{
			{Name: "basic/drag-three", Passed: true, StartTime: start, Duration: time.Second},
			{Name: "menu/delete-block", Error: "expected 0 blocks on the workspace, found 1", StartTime: start, Duration: 2 * time.Second},
		},
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, NewArtifactWriter(dir).WriteAll(sampleReport(), true, true))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, statusFailed, decoded.Status)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "menu/delete-block", decoded.Results[1].Name)
	assert.False(t, decoded.OK())

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Blockdrive Run Summary")
	assert.Contains(t, string(md), "**Passed:** 1 / 2")
	assert.Contains(t, string(md), "✅ **basic/drag-three** (1s)")
	assert.Contains(t, string(md), "❌ **menu/delete-block** (2s)")
	assert.Contains(t, string(md), "Error: expected 0 blocks on the workspace, found 1")
}

func TestWriteAllSelectsFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewArtifactWriter(dir).WriteAll(sampleReport(), false, true))

	assert.NoFileExists(t, filepath.Join(dir, "report.json"))
	assert.FileExists(t, filepath.Join(dir, "summary.md"))
}

func TestWriteAllNothingSelected(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	require.NoError(t, NewArtifactWriter(dir).WriteAll(sampleReport(), false, false))
	assert.NoDirExists(t, dir)
}
