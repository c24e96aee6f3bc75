package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetricTable(t *testing.T) {
	table, err := GetMetricTable()
	require.NoError(t, err, "embedded metric table should parse")
	require.NotNil(t, table)

	// Two loads share the same instance.
	again, err := GetMetricTable()
	require.NoError(t, err)
	assert.Same(t, table, again, "GetMetricTable should return the shared instance")

	assert.Len(t, table.Metrics, 12, "metric table should carry all record entries")

	// The entropy engine populates exactly these two entries.
	for _, id := range []MetricID{MetricAggInfoEntropy, MetricFileInfoEntropy} {
		spec, ok := table.Lookup(id)
		assert.True(t, ok, "table should include %s", id)
		assert.NotEmpty(t, spec.Name)
		assert.NotEmpty(t, spec.Description)
	}

	_, ok := table.Lookup(MetricID("repo-nonexistent"))
	assert.False(t, ok, "unknown ids should not resolve")
}

func TestValidateRecordSchema(t *testing.T) {
	assert.NoError(t, ValidateRecordSchema(), "record struct and metric table should agree")
}

func TestTableFingerprint(t *testing.T) {
	fp := TableFingerprint()
	assert.Len(t, fp, 16, "fingerprint should be a short hex digest")
	assert.Equal(t, fp, TableFingerprint(), "fingerprint should be stable")
}

func TestMetricValues(t *testing.T) {
	rec := &Record{
		RepoPath:        "/tmp/repo",
		Commits:         3,
		FileCount:       2,
		CommitTimeRange: "2020-01-01/2020-06-01",
		IncludesReadme:  true,
		AggInfoEntropy:  0.25,
		FileInfoEntropy: map[string]float64{"a.py": 0.0, "b.py": 1.0},
	}

	values, err := MetricValues(rec)
	require.NoError(t, err)

	table, err := GetMetricTable()
	require.NoError(t, err)
	require.Len(t, values, len(table.Metrics), "one value per table entry")

	for i, mv := range values {
		assert.Equal(t, table.Metrics[i].ID, mv.Spec.ID, "values should preserve table order")
	}

	byID := make(map[MetricID]any)
	for _, mv := range values {
		byID[mv.Spec.ID] = mv.Value
	}
	assert.Equal(t, "/tmp/repo", byID[MetricRepoPath])
	assert.Equal(t, 3, byID[MetricCommits])
	assert.Equal(t, true, byID[MetricIncludesReadme])
	assert.Equal(t, 0.25, byID[MetricAggInfoEntropy])
}
