package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

func TestWriteSchemaDefinitionsText(t *testing.T) {
	table, err := schema.GetMetricTable()
	require.NoError(t, err)

	cfg := &contract.Config{Output: schema.TextOut}

	var buf bytes.Buffer
	err = WriteSchemaDefinitions(&buf, table, cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Verdant Metric Schema")
	assert.Contains(t, output, "repo-agg-info-entropy (float)")
	assert.Contains(t, output, "Name: Repository Aggregate Information Entropy")
	assert.Contains(t, output, "repo-is-citable (bool)")
	assert.Contains(t, output, "Table fingerprint: "+schema.TableFingerprint())
}

func TestWriteSchemaDefinitionsJSON(t *testing.T) {
	table, err := schema.GetMetricTable()
	require.NoError(t, err)

	cfg := &contract.Config{Output: schema.JSONOut}

	var buf bytes.Buffer
	err = WriteSchemaDefinitions(&buf, table, cfg)
	require.NoError(t, err)

	var result map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)

	metrics, ok := result["metrics"].([]any)
	require.True(t, ok)
	assert.Len(t, metrics, len(table.Metrics))
}

func TestWriteSchemaDefinitionsCSV(t *testing.T) {
	table, err := schema.GetMetricTable()
	require.NoError(t, err)

	cfg := &contract.Config{Output: schema.CSVOut}

	var buf bytes.Buffer
	err = WriteSchemaDefinitions(&buf, table, cfg)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(table.Metrics)+1)

	assert.Contains(t, lines[0], "id")
	assert.Contains(t, lines[0], "description")
	assert.Contains(t, lines[1], "repo-path")
}
