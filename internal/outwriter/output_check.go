package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// entropyPrecision is the number of decimal places for entropy values in
// tabular output.
const entropyPrecision = 4

// WriteCheckRecord outputs one repository metric record, dispatching based on
// the output format configured.
func WriteCheckRecord(w io.Writer, rec *schema.Record, cfg *contract.Config, duration time.Duration) error {
	values, err := schema.MetricValues(rec)
	if err != nil {
		return err
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeCheckJSON(w, values)
	case schema.CSVOut:
		return writeCheckCSV(w, values)
	default:
		return writeCheckTable(w, values, rec, cfg, duration)
	}
}

// writeCheckTable generates and writes the human-readable metric table.
func writeCheckTable(w io.Writer, values []schema.MetricValue, rec *schema.Record, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Result"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, v := range values {
		result := schema.FormatMetricValue(v.Value, entropyPrecision)
		if v.Spec.ID == schema.MetricRepoPath {
			result = contract.TruncatePath(result, maxPathWidth)
		}
		data = append(data, []string{string(v.Spec.ID), result})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Change volatility: %s (aggregate entropy %s over %d files)\n",
		contract.GetColorLabel(rec.AggInfoEntropy), schema.FormatEntropy(rec.AggInfoEntropy), len(rec.FileInfoEntropy)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Check completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCheckJSON writes the metric record in JSON format: each table entry
// paired with its computed value, in table order.
func writeCheckJSON(w io.Writer, values []schema.MetricValue) error {
	return writeJSON(w, values)
}

// writeCheckCSV writes the metric record in CSV format.
func writeCheckCSV(w io.Writer, values []schema.MetricValue) error {
	header := []string{"id", "name", "result-type", "result"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, v := range values {
			rec := []string{
				string(v.Spec.ID),
				v.Spec.Name,
				v.Spec.ResultType,
				formatMetricCSV(v.Value),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatMetricCSV renders one metric value for CSV output. Unlike the table,
// CSV keeps the full per-file entropy object so downstream consumers can
// parse it.
func formatMetricCSV(v any) string {
	if files, ok := v.(map[string]float64); ok {
		return schema.EncodeFileEntropy(files)
	}
	return schema.FormatMetricValue(v, entropyPrecision)
}
