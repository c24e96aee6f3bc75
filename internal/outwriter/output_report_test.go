package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

func sampleReport() *schema.EntropyReport {
	return &schema.EntropyReport{
		RepoPath:  "/tmp/clones/verdant",
		Aggregate: 0.1667,
		Commits:   2,
		FileCount: 2,
		TimeRange: "2023-01-01/2023-06-30",
		Skipped:   1,
		TopFiles: []schema.FileEntropy{
			{Path: "mixed.go", Added: 5, Removed: 5, Entropy: 1.0},
			{Path: "grown.go", Added: 20, Removed: 0, Entropy: 0.0},
		},
	}
}

func TestWriteEntropyReportText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Width: 120}

	var buf bytes.Buffer
	err := WriteEntropyReport(&buf, sampleReport(), cfg, 250*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Entropy Analysis Report")
	assert.Contains(t, output, strings.Repeat("=", reportBannerWidth))
	assert.Contains(t, output, "Repository Information:")
	assert.Contains(t, output, "Repository Path")
	assert.Contains(t, output, "/tmp/clones/verdant")
	assert.Contains(t, output, "Total Normalized Entropy")
	assert.Contains(t, output, "0.1667")
	assert.Contains(t, output, "Number of Commits Analyzed")
	assert.Contains(t, output, "Time Range of Commits")
	assert.Contains(t, output, "2023-01-01/2023-06-30")
	assert.Contains(t, output, "Files Skipped")
	assert.Contains(t, output, "Top 2 Files with the Most Entropy:")
	assert.Contains(t, output, "mixed.go")
	assert.Contains(t, output, "1.0000")
	assert.Contains(t, output, "Report completed in 250ms")
}

func TestWriteEntropyReportTextNoSkipped(t *testing.T) {
	report := sampleReport()
	report.Skipped = 0

	cfg := &contract.Config{Output: schema.TextOut, Width: 120}

	var buf bytes.Buffer
	err := WriteEntropyReport(&buf, report, cfg, time.Millisecond)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "Files Skipped")
}

func TestWriteEntropyReportJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}

	var buf bytes.Buffer
	err := WriteEntropyReport(&buf, sampleReport(), cfg, time.Millisecond)
	require.NoError(t, err)

	var result map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/clones/verdant", result["repo_path"])
	assert.Equal(t, 0.1667, result["aggregate"])
	assert.Equal(t, float64(2), result["commits"])

	topFiles, ok := result["top_files"].([]any)
	require.True(t, ok)
	assert.Len(t, topFiles, 2)
}

func TestWriteEntropyReportCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut}

	var buf bytes.Buffer
	err := WriteEntropyReport(&buf, sampleReport(), cfg, time.Millisecond)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows

	assert.Contains(t, lines[0], "rank")
	assert.Contains(t, lines[0], "entropy")
	assert.Contains(t, lines[1], "1,mixed.go,5,5,1.0000,High")
	assert.Contains(t, lines[2], "2,grown.go,20,0,0.0000,Low")
}

func TestWriteEntropyReportEmptyFiles(t *testing.T) {
	report := sampleReport()
	report.TopFiles = nil

	cfg := &contract.Config{Output: schema.TextOut, Width: 120}

	var buf bytes.Buffer
	err := WriteEntropyReport(&buf, report, cfg, time.Millisecond)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Top 0 Files with the Most Entropy:")
}
