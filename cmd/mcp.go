package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the verdant MCP server",
	Long:  `Launch an MCP server that allows AI agents to run repository sustainability analysis via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Repository references arrive per tool call, so setup resolves
		// nothing up front.
		return sharedSetup(rootCtx, "", nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
