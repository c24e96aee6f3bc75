package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// WriteBatchResult outputs the final tally of a batch run, dispatching based
// on the output format configured.
func WriteBatchResult(w io.Writer, summary *schema.BatchSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summary)
	case schema.CSVOut:
		return writeBatchCSV(w, summary)
	default:
		return writeBatchText(w, summary, cfg)
	}
}

// writeBatchText writes the human-readable batch summary.
func writeBatchText(w io.Writer, summary *schema.BatchSummary, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Processed %d repositories: %d succeeded, %d failed (cache hits: %d)\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.CacheHits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Wrote %d batches to %d artifacts with %s runner (%d workers, batch size %d)\n",
		summary.Batches, len(summary.Artifacts), summary.Runner, summary.Workers, summary.BatchSize); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Batch completed in %v\n", summary.Duration); err != nil {
		return err
	}

	if cfg.ShowErrors && len(summary.Failures) > 0 {
		if _, err := fmt.Fprintf(w, "\nFailed repositories:\n"); err != nil {
			return err
		}
		if err := writeFailureTable(w, summary.Failures, cfg); err != nil {
			return err
		}
	}
	return nil
}

// writeFailureTable renders the per-repository failure list.
func writeFailureTable(w io.Writer, failures []schema.RepoFailure, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Class", "Error"})

	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range failures {
		data = append(data, []string{
			contract.TruncatePath(f.RepoURL, maxPathWidth),
			string(f.Class),
			f.Err,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeBatchCSV writes the batch summary as a single CSV row.
func writeBatchCSV(w io.Writer, summary *schema.BatchSummary) error {
	header := []string{
		"state", "total", "succeeded", "failed", "cache_hits", "batches",
		"artifacts", "runner", "workers", "batch_size", "duration_ms",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		rec := []string{
			string(summary.State),
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Succeeded),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.CacheHits),
			strconv.Itoa(summary.Batches),
			strings.Join(summary.Artifacts, "|"),
			string(summary.Runner),
			strconv.Itoa(summary.Workers),
			strconv.Itoa(summary.BatchSize),
			strconv.FormatInt(summary.Duration.Milliseconds(), 10),
		}
		return csvWriter.Write(rec)
	})
}
