package schema

import "time"

// StoreStatus represents the status of the record cache and run history.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	CacheEntries    int       `json:"cache_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TotalRuns       int       `json:"total_runs"`
	LastRunID       int64     `json:"last_run_id"`
	LastRunTime     time.Time `json:"last_run_time"`
}

// RunRecord represents a row from the verdant_batch_runs table.
type RunRecord struct {
	RunID      int64
	StartTime  time.Time
	EndTime    *time.Time
	DurationMs *int32
	Total      int32
	Succeeded  int32
	Failed     int32
	Runner     string
	Workers    int32
	BatchSize  int32
	OutputPath string
}
