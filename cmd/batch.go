package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// batchCmd analyzes repository fleets and writes Parquet artifacts.
var batchCmd = &cobra.Command{
	Use:   "batch [repo-ref ...]",
	Short: "Analyze many repositories and write the records to Parquet",
	Long: `Analyze a fleet of repositories and persist every record to Parquet.

Repositories come from positional arguments, repeated --repos flags and
the --column column of a CSV given with --input, in that order, with
duplicates dropped. The list is cut into batches of --batch-size; inside
a batch up to --workers tasks run concurrently, each producing the same
record 'check' prints for a single repository.

The process runner (default) confines every repository to a child
process, so one pathological repository cannot take down the run. The
goroutine runner keeps tasks in-process and is cheaper for large fleets
of small repositories.

Failed repositories never abort the run; they are classified, reported
and tallied. Only a sink write failure stops scheduling, since that
means records are being lost.

Examples:
  # Analyze three repositories into one artifact
  verdant batch --output-path fleet.parquet \
    https://github.com/a/x https://github.com/a/y https://github.com/a/z

  # Analyze a CSV of repositories, 32 at a time
  verdant batch --input repos.csv --workers 32 --output-path fleet.parquet

  # One artifact per batch, snappy compression
  verdant batch --input repos.csv --split --compression snappy \
    --output-path out/fleet.parquet

  # Cap runaway clones and show batch headers
  verdant batch --input repos.csv --task-timeout 10m --batch-progress yes \
    --output-path fleet.parquet`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := batchSetupWrapper(cmd, args); err != nil {
			return err
		}
		if cfg.OutputPath == "" {
			return errors.New("--output-path is required")
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVerdantBatch(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run batch analysis", err)
		}
	},
}
