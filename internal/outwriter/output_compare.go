package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// WriteComparisonResult outputs the entropy introduced between two refs,
// dispatching based on the output format configured.
func WriteComparisonResult(w io.Writer, result *schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		return writeComparisonCSV(w, result)
	default:
		return writeComparisonText(w, result, cfg, duration)
	}
}

// writeComparisonText writes the human-readable comparison: a ref block
// followed by the highest-entropy changed files.
func writeComparisonText(w io.Writer, result *schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	if err := writeBanner(w, "Entropy Comparison Report"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Comparison Information:"); err != nil {
		return err
	}

	maxPathWidth := getMaxTablePathWidth(cfg)
	info := tablewriter.NewWriter(w)
	infoRows := [][]string{
		{"Repository Path", contract.TruncatePath(result.RepoPath, maxPathWidth)},
		{"Base Ref", formatRefWithCommit(result.BaseRef, result.BaseCommit)},
		{"Head Ref", formatRefWithCommit(result.HeadRef, result.HeadCommit)},
		{"Entropy Introduced", schema.FormatEntropy(result.Aggregate)},
		{"Files Changed", strconv.Itoa(result.FilesChanged)},
	}
	if err := info.Bulk(infoRows); err != nil {
		return err
	}
	if err := info.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nTop %d Files with the Most Entropy:\n", len(result.TopFiles)); err != nil {
		return err
	}
	if err := writeTopFilesTable(w, result.TopFiles, maxPathWidth); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nComparison completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// formatRefWithCommit renders a ref name with its abbreviated commit hash.
func formatRefWithCommit(ref, commit string) string {
	if len(commit) > 8 {
		commit = commit[:8]
	}
	if commit == "" {
		return ref
	}
	return fmt.Sprintf("%s (%s)", ref, commit)
}

// writeComparisonCSV writes the ranked changed-file entropy list in CSV format.
func writeComparisonCSV(w io.Writer, result *schema.ComparisonResult) error {
	header := []string{"rank", "file", "added", "removed", "entropy", "label"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		return writeFileEntropyRows(csvWriter, result.TopFiles)
	})
}
