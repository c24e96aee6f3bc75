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

func sampleSummary() *schema.BatchSummary {
	return &schema.BatchSummary{
		State:     schema.BatchDone,
		Total:     5,
		Succeeded: 3,
		Failed:    2,
		CacheHits: 1,
		Batches:   2,
		Artifacts: []string{"out/batch_0001.parquet", "out/batch_0002.parquet"},
		Failures: []schema.RepoFailure{
			{RepoURL: "https://github.com/org/gone", Class: schema.FailureAcquire, Err: "clone failed"},
			{RepoURL: "https://github.com/org/empty", Class: schema.FailureHistory, Err: "no commits"},
		},
		Runner:    schema.ProcessRunner,
		Workers:   4,
		BatchSize: 3,
		Duration:  2 * time.Second,
	}
}

func TestWriteBatchResultText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Width: 120, ShowErrors: true}

	var buf bytes.Buffer
	err := WriteBatchResult(&buf, sampleSummary(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Processed 5 repositories: 3 succeeded, 2 failed (cache hits: 1)")
	assert.Contains(t, output, "Wrote 2 batches to 2 artifacts with process runner (4 workers, batch size 3)")
	assert.Contains(t, output, "Batch completed in 2s")
	assert.Contains(t, output, "Failed repositories:")
	assert.Contains(t, output, "clone failed")
	assert.Contains(t, output, "acquire")
	assert.Contains(t, output, "history")
}

func TestWriteBatchResultHidesErrors(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Width: 120, ShowErrors: false}

	var buf bytes.Buffer
	err := WriteBatchResult(&buf, sampleSummary(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Processed 5 repositories")
	assert.NotContains(t, output, "Failed repositories:")
	assert.NotContains(t, output, "clone failed")
}

func TestWriteBatchResultNoFailures(t *testing.T) {
	summary := sampleSummary()
	summary.Failed = 0
	summary.Failures = nil

	cfg := &contract.Config{Output: schema.TextOut, Width: 120, ShowErrors: true}

	var buf bytes.Buffer
	err := WriteBatchResult(&buf, summary, cfg)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "Failed repositories:")
}

func TestWriteBatchResultJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}

	var buf bytes.Buffer
	err := WriteBatchResult(&buf, sampleSummary(), cfg)
	require.NoError(t, err)

	var result map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "done", result["state"])
	assert.Equal(t, float64(5), result["total"])
	assert.Equal(t, float64(3), result["succeeded"])
	assert.Equal(t, float64(2), result["failed"])
	assert.Equal(t, "process", result["runner"])

	failures, ok := result["failures"].([]any)
	require.True(t, ok)
	assert.Len(t, failures, 2)
}

func TestWriteBatchResultCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut}

	var buf bytes.Buffer
	err := WriteBatchResult(&buf, sampleSummary(), cfg)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2) // header + 1 summary row

	assert.Contains(t, lines[0], "state")
	assert.Contains(t, lines[0], "total")
	assert.Contains(t, lines[0], "duration_ms")
	assert.Contains(t, lines[1], "done,5,3,2,1,2")
	assert.Contains(t, lines[1], "process")
	assert.Contains(t, lines[1], "2000")
}
