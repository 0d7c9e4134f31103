package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing run artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes the selected artifact formats
func (w *ArtifactWriter) WriteAll(report *Report, writeJSON, writeMarkdown bool) error {
	if !writeJSON && !writeMarkdown {
		return nil
	}

	// Ensure output directory exists
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if writeJSON {
		if err := w.WriteReportJSON(report); err != nil {
			return err
		}
	}

	if writeMarkdown {
		if err := w.WriteSummaryMarkdown(report); err != nil {
			return err
		}
	}

	return nil
}

// WriteReportJSON writes the full run report as JSON
func (w *ArtifactWriter) WriteReportJSON(report *Report) error {
	path := filepath.Join(w.outputDir, "report.json")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write report JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(report *Report) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Blockdrive Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", report.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", report.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Duration.Round(time.Millisecond)))
	md.WriteString(fmt.Sprintf("**Passed:** %d / %d\n\n", report.Passed, report.Passed+report.Failed))

	md.WriteString("## Scenarios\n\n")
	for _, res := range report.Results {
		status := "✅"
		if !res.Passed {
			status = "❌"
		}
		md.WriteString(fmt.Sprintf("%s **%s** (%s)\n", status, res.Name, res.Duration.Round(time.Millisecond)))
		if res.Error != "" {
			md.WriteString(fmt.Sprintf("   Error: %s\n", res.Error))
		}
	}
	md.WriteString("\n")

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}
