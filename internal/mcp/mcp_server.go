// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/verdantlab/verdant/internal/contract"
)

// NewMCPServer initializes and configures the verdant MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, stores contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Verdant Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		stores:  stores,
	}

	// --- 1. Tool: repo_check ---
	s.AddTool(mcp.NewTool("repo_check",
		mcp.WithDescription("Compute the full sustainability record for one Git repository: history entropy, community health files, citability and branch naming."),
		mcp.WithString("repo_ref", mcp.Description("Local path or remote URL of the repository (defaults to current directory if not specified).")),
		mcp.WithString("base", mcp.Description("Older Git reference bounding the history walk (defaults to the first commit).")),
		mcp.WithString("head", mcp.Description("Newer Git reference bounding the history walk (defaults to HEAD).")),
		mcp.WithBoolean("no_cache", mcp.Description("Bypass the record cache and recompute.")),
	), h.handleRepoCheck)

	// --- 2. Tool: repo_entropy ---
	s.AddTool(mcp.NewTool("repo_entropy",
		mcp.WithDescription("Report how line change entropy spreads across a repository's files, including the aggregate score and the most volatile files."),
		mcp.WithString("repo_ref", mcp.Description("Local path or remote URL of the repository.")),
		mcp.WithString("base", mcp.Description("Older Git reference bounding the history walk.")),
		mcp.WithString("head", mcp.Description("Newer Git reference bounding the history walk.")),
		mcp.WithNumber("top", mcp.Description("Number of top files to include in the report.")),
	), h.handleRepoEntropy)

	return s
}

// StartMCPServer starts the verdant MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, stores contract.StoreManager) error {
	s := NewMCPServer(baseCfg, stores)
	return server.ServeStdio(s)
}
