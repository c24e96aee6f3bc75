// Package schema has configs, models and global variables for all parts of verdant.
package schema

import (
	"encoding/json"
	"time"
)

// MetricSpec describes one entry of the metric table.
type MetricSpec struct {
	ID          MetricID `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	ResultType  string   `yaml:"result-type" json:"result-type"`
	Description string   `yaml:"description" json:"description"`
}

// MetricTable is the externally defined mapping of metric identifiers to
// names, types and descriptions. It is embedded in the binary and loaded
// once at startup.
type MetricTable struct {
	Metrics []MetricSpec `yaml:"metrics" json:"metrics"`
}

// IDs returns the metric identifiers in table order.
func (t *MetricTable) IDs() []MetricID {
	ids := make([]MetricID, len(t.Metrics))
	for i, m := range t.Metrics {
		ids[i] = m.ID
	}
	return ids
}

// Lookup returns the spec for the given metric identifier.
func (t *MetricTable) Lookup(id MetricID) (MetricSpec, bool) {
	for _, m := range t.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return MetricSpec{}, false
}

// Record is the statically typed metric record computed for one repository.
// Each field maps to exactly one metric table entry via its metric tag; the
// mapping is reconciled with the embedded table at startup.
type Record struct {
	RepoPath               string             `metric:"repo-path" json:"repo-path"`
	Commits                int                `metric:"repo-commits" json:"repo-commits"`
	FileCount              int                `metric:"repo-file-count" json:"repo-file-count"`
	CommitTimeRange        string             `metric:"repo-commit-time-range" json:"repo-commit-time-range"`
	IncludesReadme         bool               `metric:"repo-includes-readme" json:"repo-includes-readme"`
	IncludesContributing   bool               `metric:"repo-includes-contributing" json:"repo-includes-contributing"`
	IncludesCodeOfConduct  bool               `metric:"repo-includes-code-of-conduct" json:"repo-includes-code-of-conduct"`
	IncludesLicense        bool               `metric:"repo-includes-license" json:"repo-includes-license"`
	IsCitable              bool               `metric:"repo-is-citable" json:"repo-is-citable"`
	DefaultBranchNotMaster bool               `metric:"repo-default-branch-not-master" json:"repo-default-branch-not-master"`
	AggInfoEntropy         float64            `metric:"repo-agg-info-entropy" json:"repo-agg-info-entropy"`
	FileInfoEntropy        map[string]float64 `metric:"repo-file-info-entropy" json:"repo-file-info-entropy"`
}

// MetricValue pairs a metric spec with its computed value for rendering.
type MetricValue struct {
	Spec  MetricSpec `json:"spec"`
	Value any        `json:"value"`
}

// TaskResult is the tagged outcome of one repository task. State carries the
// terminal lifecycle state the task reached; results only ever travel at
// rest, so anything short of succeeded or failed marks a broken envelope.
type TaskResult struct {
	RepoURL  string        `json:"repo_url"`
	State    TaskState     `json:"state"`
	Record   *Record       `json:"record,omitempty"`
	Class    FailureClass  `json:"failure_class,omitempty"`
	Err      string        `json:"error,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Succeeded reports whether the task terminated succeeded with a metric
// record attached.
func (r *TaskResult) Succeeded() bool {
	return r.State == TaskSucceeded && r.Record != nil && r.Class == ""
}

// Row is one output sink row: the repository identifier tag plus the
// flattened metric record. Rows are self-describing so output order never
// matters. Only successful tasks produce rows; failures travel in the batch
// failure list, never in the artifact.
type Row struct {
	RepoURL string `parquet:"repo_url" json:"repo_url"`

	RepoPath               string  `parquet:"repo-path" json:"repo-path"`
	Commits                int64   `parquet:"repo-commits" json:"repo-commits"`
	FileCount              int64   `parquet:"repo-file-count" json:"repo-file-count"`
	CommitTimeRange        string  `parquet:"repo-commit-time-range" json:"repo-commit-time-range"`
	IncludesReadme         bool    `parquet:"repo-includes-readme" json:"repo-includes-readme"`
	IncludesContributing   bool    `parquet:"repo-includes-contributing" json:"repo-includes-contributing"`
	IncludesCodeOfConduct  bool    `parquet:"repo-includes-code-of-conduct" json:"repo-includes-code-of-conduct"`
	IncludesLicense        bool    `parquet:"repo-includes-license" json:"repo-includes-license"`
	IsCitable              bool    `parquet:"repo-is-citable" json:"repo-is-citable"`
	DefaultBranchNotMaster bool    `parquet:"repo-default-branch-not-master" json:"repo-default-branch-not-master"`
	AggInfoEntropy         float64 `parquet:"repo-agg-info-entropy" json:"repo-agg-info-entropy"`
	FileInfoEntropy        string  `parquet:"repo-file-info-entropy" json:"repo-file-info-entropy"`
}

// RowFromResult flattens a successful task result into one sink row. Failed
// tasks produce no row, so artifact row counts always equal the number of
// successful repositories.
func RowFromResult(res *TaskResult) (Row, bool) {
	if !res.Succeeded() {
		return Row{}, false
	}
	rec := res.Record
	return Row{
		RepoURL:                res.RepoURL,
		RepoPath:               rec.RepoPath,
		Commits:                int64(rec.Commits),
		FileCount:              int64(rec.FileCount),
		CommitTimeRange:        rec.CommitTimeRange,
		IncludesReadme:         rec.IncludesReadme,
		IncludesContributing:   rec.IncludesContributing,
		IncludesCodeOfConduct:  rec.IncludesCodeOfConduct,
		IncludesLicense:        rec.IncludesLicense,
		IsCitable:              rec.IsCitable,
		DefaultBranchNotMaster: rec.DefaultBranchNotMaster,
		AggInfoEntropy:         rec.AggInfoEntropy,
		FileInfoEntropy:        EncodeFileEntropy(rec.FileInfoEntropy),
	}, true
}

// EncodeFileEntropy serializes the per-file entropy mapping as a JSON
// object. encoding/json sorts map keys, so the output is stable.
func EncodeFileEntropy(files map[string]float64) string {
	if len(files) == 0 {
		return "{}"
	}
	out, err := json.Marshal(files)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// DecodeFileEntropy parses the JSON object produced by EncodeFileEntropy.
func DecodeFileEntropy(s string) (map[string]float64, error) {
	files := make(map[string]float64)
	if s == "" {
		return files, nil
	}
	if err := json.Unmarshal([]byte(s), &files); err != nil {
		return nil, err
	}
	return files, nil
}
