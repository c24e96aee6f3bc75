package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// taskCmd is the hidden worker entry point behind the process runner. It
// analyzes exactly one repository and prints the JSON result envelope on
// stdout; failures ride the envelope so the parent can classify them.
var taskCmd = &cobra.Command{
	Use:    "task <repo-ref>",
	Short:  "Analyze one repository and emit its JSON result envelope",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return batchSetupWrapper(cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		// The reference is handed to the task unresolved so that a bad
		// path or URL surfaces as an acquire failure in the envelope
		// instead of killing the worker during setup.
		cfg.RepoRef = args[0]
		if err := core.ExecuteVerdantTask(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot emit task envelope", err)
		}
	},
}
