package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// WriteSchemaDefinitions displays the embedded metric table. This is a
// static display that does not require repository analysis.
func WriteSchemaDefinitions(w io.Writer, table *schema.MetricTable, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, table)
	case schema.CSVOut:
		return writeSchemaCSV(w, table)
	default:
		return writeSchemaText(w, table)
	}
}

// writeSchemaText displays the metric table in human-readable text format.
func writeSchemaText(w io.Writer, table *schema.MetricTable) error {
	if _, err := fmt.Fprintf(w, "Verdant Metric Schema\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "=====================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Each repository record carries %d metrics:\n", len(table.Metrics)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	for _, m := range table.Metrics {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", m.ID, m.ResultType); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Name: %s\n", m.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   %s\n", m.Description); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Table fingerprint: %s\n", schema.TableFingerprint()); err != nil {
		return err
	}
	return nil
}

// writeSchemaCSV displays the metric table in CSV format.
func writeSchemaCSV(w io.Writer, table *schema.MetricTable) error {
	header := []string{"id", "name", "result-type", "description"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, m := range table.Metrics {
			rec := []string{
				string(m.ID),
				m.Name,
				m.ResultType,
				m.Description,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
