package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// reportCmd renders the entropy report for one repository.
var reportCmd = &cobra.Command{
	Use:   "report [repo-ref]",
	Short: "Show where history entropy concentrates in one repository",
	Long: `Walk one repository's history and report its information entropy.

Every changed file contributes a per-file entropy score derived from the
balance of added and removed lines across the walk: a file that only ever
grows scores near zero, a file whose lines churn back and forth scores
near one. File scores are churn-weighted into one aggregate number for
the repository, and the files with the highest entropy are listed so the
volatile corners of the codebase stand out.

The walk follows first-parent history from --head (default HEAD) back to
--base (default the first commit). Binary and oversized files are skipped
and reported as such.

Examples:
  # Report on the repository in the current directory
  verdant report

  # Report on a release range
  verdant report --base v1.0.0 --head v2.0.0

  # Widen the per-file table
  verdant report --top 25

  # Export the report for dashboards
  verdant report --output json --output-file entropy.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVerdantReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run entropy report", err)
		}
	},
}
