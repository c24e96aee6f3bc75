package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// RunExport is the Parquet row layout for exported batch runs.
type RunExport struct {
	RunID      int64      `parquet:"run_id"`
	StartTime  time.Time  `parquet:"start_time"`
	EndTime    *time.Time `parquet:"end_time,optional"`
	DurationMs *int32     `parquet:"duration_ms,optional"`
	Total      int32      `parquet:"total"`
	Succeeded  int32      `parquet:"succeeded"`
	Failed     int32      `parquet:"failed"`
	Runner     string     `parquet:"runner"`
	Workers    int32      `parquet:"workers"`
	BatchSize  int32      `parquet:"batch_size"`
	OutputPath string     `parquet:"output_path"`
}

// ConvertRunRecords converts store run records to the Parquet row layout.
func ConvertRunRecords(records []schema.RunRecord) []RunExport {
	rows := make([]RunExport, 0, len(records))
	for _, record := range records {
		rows = append(rows, RunExport{
			RunID:      record.RunID,
			StartTime:  record.StartTime,
			EndTime:    record.EndTime,
			DurationMs: record.DurationMs,
			Total:      record.Total,
			Succeeded:  record.Succeeded,
			Failed:     record.Failed,
			Runner:     record.Runner,
			Workers:    record.Workers,
			BatchSize:  record.BatchSize,
			OutputPath: record.OutputPath,
		})
	}
	return rows
}

// WriteRunsParquet writes batch run rows to a Parquet file.
func WriteRunsParquet(rows []RunExport, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", outputPath, err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[RunExport](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write run data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return nil
}

// ExportRuns writes the full batch run history to a Parquet file.
func ExportRuns(st contract.Store, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output is required for export")
	}

	status, err := st.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no batch runs found to export")
	}

	fmt.Printf("Exporting run history from %s backend...\n", status.Backend)

	records, err := st.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve batch runs: %w", err)
	}

	rows := ConvertRunRecords(records)
	if err := WriteRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write run history: %w", err)
	}
	fmt.Printf("Exported %d batch runs to: %s\n", len(rows), outputFile)

	return nil
}
