package schema

import (
	"fmt"
	"strconv"
	"time"
)

// FormatTimeRange renders the first/latest commit dates as the
// YYYY-MM-DD/YYYY-MM-DD range stored in the metric record.
func FormatTimeRange(first, latest time.Time) string {
	return first.UTC().Format(time.DateOnly) + "/" + latest.UTC().Format(time.DateOnly)
}

// FormatMetricValue renders one metric value for tabular output. The
// per-file entropy mapping is summarized by size since the full object only
// fits structured output.
func FormatMetricValue(v any, precision int) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', precision, 64)
	case string:
		return val
	case map[string]float64:
		return fmt.Sprintf("%d files", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatEntropy renders an entropy value with the precision used across all
// reports.
func FormatEntropy(entropy float64) string {
	return strconv.FormatFloat(entropy, 'f', 4, 64)
}
