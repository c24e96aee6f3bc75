// Package outwriter renders computed results for the terminal: the metric
// record table, entropy reports, ref comparisons, batch summaries and the
// schema listing, each in text, JSON or CSV form.
package outwriter

import (
	"io"
	"time"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCheck prints a repository metric record using the configured output format.
func (ow *OutWriter) WriteCheck(rec *schema.Record, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, cfg.Output, func(w io.Writer) error {
		return WriteCheckRecord(w, rec, cfg, duration)
	})
}

// WriteReport prints the single-repository entropy report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.EntropyReport, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, cfg.Output, func(w io.Writer) error {
		return WriteEntropyReport(w, report, cfg, duration)
	})
}

// WriteComparison prints a two-ref comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result *schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, cfg.Output, func(w io.Writer) error {
		return WriteComparisonResult(w, result, cfg, duration)
	})
}

// WriteBatchSummary prints the final tally of a batch run using the configured output format.
// The summary always goes to stdout; the output file belongs to the artifact sink.
func (ow *OutWriter) WriteBatchSummary(summary *schema.BatchSummary, cfg *contract.Config) error {
	return writeWithFile("", cfg.Output, func(w io.Writer) error {
		return WriteBatchResult(w, summary, cfg)
	})
}

// WriteSchema prints the embedded metric table using the configured output format.
func (ow *OutWriter) WriteSchema(table *schema.MetricTable, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, cfg.Output, func(w io.Writer) error {
		return WriteSchemaDefinitions(w, table, cfg)
	})
}
