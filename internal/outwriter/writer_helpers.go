package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// writeWithFile routes rendered output to stdout or the configured file.
// When a file is written, a confirmation naming the format goes to stderr
// so it never mixes with piped output.
func writeWithFile(outputFile string, mode schema.OutputMode, writer func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	toFile := file != os.Stdout
	if toFile {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if toFile {
		fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", formatName(mode), outputFile)
	}
	return nil
}

// formatName names the output format for the confirmation line.
func formatName(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "JSON"
	case schema.CSVOut:
		return "CSV"
	default:
		return "table"
	}
}

// writeJSON renders data as indented JSON. HTML escaping is off so repo
// URLs stay readable.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by the rows produced by
// writeRows, surfacing any error the buffered csv.Writer held back.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
