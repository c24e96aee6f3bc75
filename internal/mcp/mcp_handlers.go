package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/verdantlab/verdant/core"
	"github.com/verdantlab/verdant/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	stores  contract.StoreManager
}

// requestConfig clones the base config and applies the per-call knobs every
// tool shares.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, string) {
	cfg := h.baseCfg.Clone()
	ref := request.GetString("repo_ref", ".")
	if b := request.GetString("base", ""); b != "" {
		cfg.BaseRef = b
	}
	if t := request.GetString("head", ""); t != "" {
		cfg.HeadRef = t
	}
	return cfg, ref
}

func (h *toolHandler) handleRepoCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, ref := h.requestConfig(request)
	if request.GetBool("no_cache", false) {
		cfg.NoCache = true
	}

	client := contract.NewLocalGitClient()
	res := core.NewTask(cfg, client, h.stores).Run(ctx, ref)
	if !res.Succeeded() {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed (%s): %s", res.Class, res.Err)), nil
	}

	jsonData, _ := json.MarshalIndent(res.Record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRepoEntropy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, ref := h.requestConfig(request)
	if top := request.GetInt("top", 0); top > 0 {
		cfg.TopFiles = top
	}

	client := contract.NewLocalGitClient()
	report, err := core.AnalyzeEntropy(ctx, cfg, client, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("entropy analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
