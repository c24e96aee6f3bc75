package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantlab/verdant/schema"
)

// BeginRun creates a new batch run entry and returns its unique ID.
func (s *StoreImpl) BeginRun(startTime time.Time, runner schema.RunnerKind, workers, batchSize int, outputPath string) (int64, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(batchRunsTable, s.backend)

	var runID int64
	var err error
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, runner, workers, batch_size, output_path)
			VALUES ($1, $2, $3, $4, $5) RETURNING run_id`, quotedTableName)
		err = s.db.QueryRow(query, startTime, string(runner), workers, batchSize, outputPath).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, runner, workers, batch_size, output_path)
			VALUES (?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = s.db.Exec(query, formatTime(startTime, s.backend), string(runner), workers, batchSize, outputPath)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert batch run: %w", err)
	}

	return runID, nil
}

// EndRun updates the batch run entry with completion data.
func (s *StoreImpl) EndRun(runID int64, endTime time.Time, total, succeeded, failed int) error {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	startTime, err := s.runStartTime(runID)
	if err != nil {
		return err
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	quotedTableName := quoteTableName(batchRunsTable, s.backend)

	var query string
	var args []any
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, duration_ms = $2, total = $3, succeeded = $4, failed = $5
			WHERE run_id = $6`, quotedTableName)
		args = []any{endTime, durationMs, total, succeeded, failed, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, duration_ms = ?, total = ?, succeeded = ?, failed = ?
			WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, s.backend), durationMs, total, succeeded, failed, runID}
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update batch run %d: %w", runID, err)
	}

	return nil
}

// runStartTime reads the stored start time of a run, handling the per
// backend time storage format.
func (s *StoreImpl) runStartTime(runID int64) (time.Time, error) {
	quotedTableName := quoteTableName(batchRunsTable, s.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, s.getPlaceholder())
	row := s.db.QueryRow(query, runID)

	if s.backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(&raw); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start_time: %w", err)
		}
		return startTime, nil
	}

	// MySQL and PostgreSQL store as native datetime
	var startTime time.Time
	if err := row.Scan(&startTime); err != nil {
		return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	return startTime, nil
}

// GetAllRuns retrieves all batch run entries, oldest first.
func (s *StoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(batchRunsTable, s.backend)
	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, duration_ms, total, succeeded, failed,
		runner, workers, batch_size, output_path FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.DurationMs,
				&record.Total, &record.Succeeded, &record.Failed,
				&record.Runner, &record.Workers, &record.BatchSize, &record.OutputPath); err != nil {
				return nil, fmt.Errorf("failed to scan batch run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.DurationMs,
				&record.Total, &record.Succeeded, &record.Failed,
				&record.Runner, &record.Workers, &record.BatchSize, &record.OutputPath); err != nil {
				return nil, fmt.Errorf("failed to scan batch run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch runs: %w", err)
	}

	return results, nil
}
