package schema

import "sort"

// FileEntropy is the accumulated change distribution and normalized Shannon
// entropy for one file across the analyzed range.
type FileEntropy struct {
	Path    string  `json:"path"`
	Added   int64   `json:"added"`
	Removed int64   `json:"removed"`
	Entropy float64 `json:"entropy"`
}

// Changed returns the total number of changed lines observed for the file.
func (f FileEntropy) Changed() int64 {
	return f.Added + f.Removed
}

// EntropyResult is the outcome of the history entropy engine for one range:
// the normalized aggregate in [0, 1] and the per-file breakdown.
type EntropyResult struct {
	Aggregate    float64                `json:"aggregate"`
	Files        map[string]FileEntropy `json:"files"`
	TotalChanged int64                  `json:"total_changed"`
	Pairs        int                    `json:"pairs"`
	Skipped      []string               `json:"skipped,omitempty"` // binary/oversized/undecodable paths
}

// FileEntropies flattens the per-file mapping to path -> entropy, the shape
// stored in the metric record.
func (r *EntropyResult) FileEntropies() map[string]float64 {
	out := make(map[string]float64, len(r.Files))
	for path, f := range r.Files {
		out[path] = f.Entropy
	}
	return out
}

// TopFiles returns up to n files ordered by descending entropy, breaking
// ties by descending churn and then by path for stable output.
func (r *EntropyResult) TopFiles(n int) []FileEntropy {
	files := make([]FileEntropy, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Entropy != files[j].Entropy {
			return files[i].Entropy > files[j].Entropy
		}
		if files[i].Changed() != files[j].Changed() {
			return files[i].Changed() > files[j].Changed()
		}
		return files[i].Path < files[j].Path
	})
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	return files
}
