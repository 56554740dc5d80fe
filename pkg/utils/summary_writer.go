/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: summary_writer.go
Description: Utility for writing run summaries to the summary directory.
Handles timestamped, run-id suffixed file naming, ensures the directory exists and
writes indented JSON for easy analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleascm/byteclasser/pkg/core"
)

// WriteRunSummary writes summary into dir and returns the file path
func WriteRunSummary(dir string, summary *core.RunSummary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary directory: %w", err)
	}

	// Generate filename: 2026-06-11_01-30-00_3f2a9c1e_summary.json
	timestamp := summary.StartedAt.Format("2006-01-02_15-04-05")
	runID := summary.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	filename := fmt.Sprintf("%s_%s_summary.json", timestamp, runID)
	filePath := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(filePath, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return filePath, nil
}
