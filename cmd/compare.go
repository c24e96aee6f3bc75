package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// compareCmd measures the entropy a ref range introduced.
var compareCmd = &cobra.Command{
	Use:   "compare [repo-ref]",
	Short: "Measure the entropy introduced between two Git references",
	Long: `Measure the information entropy introduced between --base and --head.

Walks only the first-parent commits after --base up to --head (default
HEAD), so the score reflects exactly what the range changed and nothing
older. The head reference must descend from the base reference along
first-parent history; disconnected refs are rejected.

Ideal for:
- Pull request review - quantify how much churn a branch adds
- Release audits - compare the volatility of two versions
- Refactoring validation - verify a cleanup settled the files it touched

Examples:
  # Score the commits a feature branch adds over main
  verdant compare --base main --head feature-xyz

  # Audit a release range
  verdant compare --base v1.0.0 --head v1.1.0

  # Compare against the checked-out head
  verdant compare --base origin/main

  # Export the per-file deltas
  verdant compare --base v1.0.0 --output csv --output-file range.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVerdantCompare(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run range comparison", err)
		}
	},
}
