package schema

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed metrics.yml
var metricsYAML []byte

var (
	metricTable     *MetricTable
	metricTableErr  error
	metricTableOnce sync.Once
)

// GetMetricTable parses the embedded metric table exactly once and returns
// the shared instance.
func GetMetricTable() (*MetricTable, error) {
	metricTableOnce.Do(func() {
		table := &MetricTable{}
		if err := yaml.Unmarshal(metricsYAML, table); err != nil {
			metricTableErr = fmt.Errorf("parse metric table: %w", err)
			return
		}
		if len(table.Metrics) == 0 {
			metricTableErr = fmt.Errorf("metric table is empty")
			return
		}
		metricTable = table
	})
	return metricTable, metricTableErr
}

// recordMetricIDs collects the metric tags declared on Record fields.
func recordMetricIDs() []MetricID {
	t := reflect.TypeOf(Record{})
	ids := make([]MetricID, 0, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("metric"); tag != "" {
			ids = append(ids, MetricID(tag))
		}
	}
	return ids
}

// ValidateRecordSchema reconciles the Record struct with the embedded metric
// table. Any divergence between the two key sets is an error; callers treat
// it as fatal at startup so a drifting table never reaches record assembly.
func ValidateRecordSchema() error {
	table, err := GetMetricTable()
	if err != nil {
		return err
	}

	inTable := make(map[MetricID]struct{}, len(table.Metrics))
	for _, m := range table.Metrics {
		if _, dup := inTable[m.ID]; dup {
			return fmt.Errorf("metric table declares %q twice", m.ID)
		}
		inTable[m.ID] = struct{}{}
	}

	inRecord := make(map[MetricID]struct{})
	var missing []string
	for _, id := range recordMetricIDs() {
		inRecord[id] = struct{}{}
		if _, ok := inTable[id]; !ok {
			missing = append(missing, string(id))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("record fields missing from metric table: %s", strings.Join(missing, ", "))
	}

	var extra []string
	for id := range inTable {
		if _, ok := inRecord[id]; !ok {
			extra = append(extra, string(id))
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("metric table entries missing from record: %s", strings.Join(extra, ", "))
	}
	return nil
}

// TableFingerprint returns a short stable digest of the metric table's
// identifiers and types. Cached records carry it so that table changes
// invalidate prior results.
func TableFingerprint() string {
	table, err := GetMetricTable()
	if err != nil {
		return "invalid"
	}
	parts := make([]string, len(table.Metrics))
	for i, m := range table.Metrics {
		parts[i] = string(m.ID) + ":" + m.ResultType
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return hex.EncodeToString(sum[:8])
}

// MetricValues pairs each table entry with the corresponding record value,
// preserving table order for rendering.
func MetricValues(rec *Record) ([]MetricValue, error) {
	table, err := GetMetricTable()
	if err != nil {
		return nil, err
	}
	values := map[MetricID]any{
		MetricRepoPath:               rec.RepoPath,
		MetricCommits:                rec.Commits,
		MetricFileCount:              rec.FileCount,
		MetricCommitTimeRange:        rec.CommitTimeRange,
		MetricIncludesReadme:         rec.IncludesReadme,
		MetricIncludesContributing:   rec.IncludesContributing,
		MetricIncludesCodeOfConduct:  rec.IncludesCodeOfConduct,
		MetricIncludesLicense:        rec.IncludesLicense,
		MetricIsCitable:              rec.IsCitable,
		MetricDefaultBranchNotMaster: rec.DefaultBranchNotMaster,
		MetricAggInfoEntropy:         rec.AggInfoEntropy,
		MetricFileInfoEntropy:        rec.FileInfoEntropy,
	}
	out := make([]MetricValue, 0, len(table.Metrics))
	for _, spec := range table.Metrics {
		val, ok := values[spec.ID]
		if !ok {
			return nil, fmt.Errorf("no record value for metric %q", spec.ID)
		}
		out = append(out, MetricValue{Spec: spec, Value: val})
	}
	return out, nil
}
