package schema

// ComparisonResult is the entropy introduced between two refs, typically a
// pull-request branch measured against its base.
type ComparisonResult struct {
	RepoPath     string        `json:"repo_path"`
	BaseRef      string        `json:"base_ref"`
	HeadRef      string        `json:"head_ref"`
	BaseCommit   string        `json:"base_commit"`
	HeadCommit   string        `json:"head_commit"`
	Aggregate    float64       `json:"aggregate"`
	FilesChanged int           `json:"files_changed"`
	TopFiles     []FileEntropy `json:"top_files"`
}
