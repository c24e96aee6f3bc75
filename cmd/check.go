package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// checkCmd runs the full sustainability record for one repository.
var checkCmd = &cobra.Command{
	Use:   "check [repo-ref]",
	Short: "Compute the full sustainability record for one repository",
	Long: `Analyze one repository and print its complete sustainability record.

Walks the first-parent history to measure how evenly line changes spread
across files (aggregate information entropy), then inspects the head tree
for community health signals. A single record captures:
- Commit count, changed file count and the active time range
- Aggregate information entropy across all changed files
- Presence of README, LICENSE and CONTRIBUTING files
- Whether the repository is citable (CITATION file or README markers)
- Whether development happens off the legacy master branch

Accepts a local path or a remote URL; remotes are cloned to a temporary
directory and removed afterwards. Records are cached per head commit, so
re-checking an unchanged repository is instant.

Examples:
  # Check the repository in the current directory
  verdant check

  # Check a local clone
  verdant check ~/src/linux

  # Check a remote repository
  verdant check https://github.com/torvalds/linux

  # Bound the walk and skip the cache
  verdant check --base v6.0 --head v6.1 --no-cache

  # Machine-readable output for pipelines
  verdant check --output json --output-file record.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVerdantCheck(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run repository check", err)
		}
	},
}
