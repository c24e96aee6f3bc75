package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// schemaCmd displays the metric table behind every record.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Display the metric table that defines the record layout",
	Long: `Show the embedded metric table: every metric a record carries, its
column identifier, value type and description, plus the table fingerprint.

The fingerprint changes whenever a metric is added, removed or retyped,
which is how downstream consumers detect that cached records and Parquet
artifacts were produced under a different layout.

No Git analysis is performed - this is purely informational.

Examples:
  # Show the metric table
  verdant schema

  # Emit the table as JSON for tooling
  verdant schema --output json`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return sharedSetup(rootCtx, "", nil)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVerdantSchema(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display schema", err)
		}
	},
}
