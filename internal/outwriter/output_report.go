package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// reportBannerWidth is the width of the report title banner.
const reportBannerWidth = 80

// WriteEntropyReport outputs the single-repository entropy report,
// dispatching based on the output format configured.
func WriteEntropyReport(w io.Writer, report *schema.EntropyReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.CSVOut:
		return writeReportCSV(w, report)
	default:
		return writeReportText(w, report, cfg, duration)
	}
}

// writeBanner writes a bordered, centered title line.
func writeBanner(w io.Writer, title string) error {
	border := strings.Repeat("=", reportBannerWidth)
	if _, err := fmt.Fprintf(w, "%s\n", border); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%*s\n", (reportBannerWidth+len(title))/2, title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", border); err != nil {
		return err
	}
	return nil
}

// writeReportText writes the human-readable report: a repository information
// block followed by the highest-entropy files.
func writeReportText(w io.Writer, report *schema.EntropyReport, cfg *contract.Config, duration time.Duration) error {
	if err := writeBanner(w, "Entropy Analysis Report"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Repository Information:"); err != nil {
		return err
	}

	maxPathWidth := getMaxTablePathWidth(cfg)
	info := tablewriter.NewWriter(w)
	infoRows := [][]string{
		{"Repository Path", contract.TruncatePath(report.RepoPath, maxPathWidth)},
		{"Total Normalized Entropy", schema.FormatEntropy(report.Aggregate)},
		{"Number of Commits Analyzed", strconv.Itoa(report.Commits)},
		{"Files Analyzed", strconv.Itoa(report.FileCount)},
		{"Time Range of Commits", report.TimeRange},
	}
	if report.Skipped > 0 {
		infoRows = append(infoRows, []string{"Files Skipped", strconv.Itoa(report.Skipped)})
	}
	if err := info.Bulk(infoRows); err != nil {
		return err
	}
	if err := info.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nTop %d Files with the Most Entropy:\n", len(report.TopFiles)); err != nil {
		return err
	}
	if err := writeTopFilesTable(w, report.TopFiles, maxPathWidth); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nReport completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeTopFilesTable renders the shared file-entropy table used by the
// report and comparison outputs.
func writeTopFilesTable(w io.Writer, files []schema.FileEntropy, maxPathWidth int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"File Name", "Normalized Entropy", "Label"})

	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			contract.TruncatePath(f.Path, maxPathWidth),
			schema.FormatEntropy(f.Entropy),
			contract.GetColorLabel(f.Entropy),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeReportCSV writes the ranked per-file entropy list in CSV format.
func writeReportCSV(w io.Writer, report *schema.EntropyReport) error {
	header := []string{"rank", "file", "added", "removed", "entropy", "label"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		return writeFileEntropyRows(csvWriter, report.TopFiles)
	})
}

// writeFileEntropyRows emits one CSV row per ranked file.
func writeFileEntropyRows(csvWriter *csv.Writer, files []schema.FileEntropy) error {
	for i, f := range files {
		rec := []string{
			strconv.Itoa(i + 1),
			f.Path,
			strconv.FormatInt(f.Added, 10),
			strconv.FormatInt(f.Removed, 10),
			schema.FormatEntropy(f.Entropy),
			schema.GetPlainLabel(f.Entropy),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
