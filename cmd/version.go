package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build provenance for diagnostics and bug reports.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Long: `Print the verdant release version together with the commit hash,
build timestamp and Go runtime it was compiled with.

Include this output when reporting bugs so results can be matched
to an exact build.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("verdant %s\n", version)
		cmd.Printf("  commit:  %s\n", commit)
		cmd.Printf("  built:   %s\n", date)
		cmd.Printf("  runtime: %s\n", runtime.Version())
	},
}
