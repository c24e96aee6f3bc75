// Package core has the repository task, the batch orchestrator and the
// execution models behind every verdant command.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/internal/outwriter"
	"github.com/verdantlab/verdant/internal/sink"
	"github.com/verdantlab/verdant/schema"
)

// ExecutorFunc defines the function signature for executing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, stores contract.StoreManager) error

// ExecuteVerdantCheck runs one repository task and renders the resulting
// metric record. It serves as the main entry point for the 'check' command.
func ExecuteVerdantCheck(ctx context.Context, cfg *contract.Config, stores contract.StoreManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()

	res := NewTask(cfg, client, stores).Run(ctx, repoTarget(cfg))
	if !res.Succeeded() {
		return fmt.Errorf("analysis of %s failed (%s): %s", res.RepoURL, res.Class, res.Err)
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteCheck(res.Record, cfg, duration)
}

// ExecuteVerdantReport walks one repository's history and renders the
// entropy report. It serves as the main entry point for the 'report'
// command.
func ExecuteVerdantReport(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()

	report, err := AnalyzeEntropy(ctx, cfg, client, repoTarget(cfg))
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteReport(report, cfg, duration)
}

// ExecuteVerdantCompare measures the entropy introduced between two refs
// and renders the comparison. It serves as the main entry point for the
// 'compare' command.
func ExecuteVerdantCompare(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	if cfg.BaseRef == "" {
		return errors.New("--base is required")
	}
	client := contract.NewLocalGitClient()

	repoPath, cleanup, err := acquireRepository(ctx, client, repoTarget(cfg))
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := CompareRefs(ctx, cfg, client, repoPath)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteComparison(result, cfg, duration)
}

// ExecuteVerdantBatch analyzes every configured repository through the
// worker pool and renders the final tally. It serves as the main entry
// point for the 'batch' command.
func ExecuteVerdantBatch(ctx context.Context, cfg *contract.Config, stores contract.StoreManager) error {
	client := contract.NewLocalGitClient()
	runner, err := NewTaskRunner(cfg, client, stores)
	if err != nil {
		return err
	}

	summary, err := RunBatch(ctx, cfg, runner, newBatchSink(cfg), stores, os.Stdout)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteBatchSummary(summary, cfg); err != nil {
		return err
	}
	if !summary.HasRows() {
		return errors.New("no repositories produced metric records")
	}
	return nil
}

// ExecuteVerdantTask runs exactly one repository task and emits its JSON
// result envelope on stdout. The process runner drives this; humans get
// friendlier output from 'check'. Failures ride the envelope, so the
// command itself only errors when the envelope cannot be written.
func ExecuteVerdantTask(ctx context.Context, cfg *contract.Config, stores contract.StoreManager) error {
	client := contract.NewLocalGitClient()
	res := NewTask(cfg, client, stores).Run(ctx, repoTarget(cfg))
	return json.NewEncoder(os.Stdout).Encode(&res)
}

// ExecuteVerdantSchema renders the embedded metric table. This is a static
// display that does not touch any repository.
func ExecuteVerdantSchema(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	table, err := schema.GetMetricTable()
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchema(table, cfg)
}

// AnalyzeEntropy walks one repository reference and returns the entropy
// report: the aggregate score, the repository facts around it and the top
// files by entropy. Report rendering and the MCP entropy tool both consume
// it.
func AnalyzeEntropy(ctx context.Context, cfg *contract.Config, client contract.GitClient, ref string) (*schema.EntropyReport, error) {
	repoPath, cleanup, err := acquireRepository(ctx, client, ref)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rec, result, err := analyzeHistory(ctx, cfg, client, repoPath, cfg.BaseRef, cfg.HeadRef)
	if err != nil {
		return nil, err
	}
	return schema.ReportFromRecord(rec, result, cfg.TopFiles), nil
}

// repoTarget returns the repository reference to analyze, defaulting to
// the working directory.
func repoTarget(cfg *contract.Config) string {
	if cfg.RepoRef != "" {
		return cfg.RepoRef
	}
	return "."
}

// newBatchSink selects the sink variant for the configured output layout.
func newBatchSink(cfg *contract.Config) contract.Sink {
	if cfg.SplitOutput {
		return sink.NewStreamingSink(cfg.OutputPath, cfg.Compression)
	}
	return sink.NewMaterializingSink(cfg.OutputPath, cfg.Compression)
}
