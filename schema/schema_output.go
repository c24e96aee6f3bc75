package schema

// EnrichedFileEntropy adds presentation data to a FileEntropy.
type EnrichedFileEntropy struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	FileEntropy
}

// GetPlainLabel returns a plain text label indicating how volatile a file's
// change history is, based on its normalized entropy.
func GetPlainLabel(entropy float64) string {
	switch {
	case entropy >= 0.75:
		return "High"
	case entropy >= 0.5:
		return "Elevated"
	case entropy >= 0.25:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichFileEntropies adds rank and label to a list of file entropies.
func EnrichFileEntropies(files []FileEntropy) []EnrichedFileEntropy {
	output := make([]EnrichedFileEntropy, len(files))
	for i, f := range files {
		output[i] = EnrichedFileEntropy{
			Rank:        i + 1,
			Label:       GetPlainLabel(f.Entropy),
			FileEntropy: f,
		}
	}
	return output
}
