package schema

// EntropyReport is the render model for the single-repository entropy report.
type EntropyReport struct {
	RepoPath  string        `json:"repo_path"`
	Aggregate float64       `json:"aggregate"`
	Commits   int           `json:"commits"`
	FileCount int           `json:"file_count"`
	TimeRange string        `json:"time_range"`
	Skipped   int           `json:"skipped"`
	TopFiles  []FileEntropy `json:"top_files"`
}

// ReportFromRecord builds the report model from a computed metric record and
// the entropy result it came from.
func ReportFromRecord(rec *Record, entropy *EntropyResult, topN int) *EntropyReport {
	return &EntropyReport{
		RepoPath:  rec.RepoPath,
		Aggregate: rec.AggInfoEntropy,
		Commits:   rec.Commits,
		FileCount: rec.FileCount,
		TimeRange: rec.CommitTimeRange,
		Skipped:   len(entropy.Skipped),
		TopFiles:  entropy.TopFiles(topN),
	}
}
