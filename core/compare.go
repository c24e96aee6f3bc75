package core

import (
	"context"

	"github.com/verdantlab/verdant/core/entropy"
	"github.com/verdantlab/verdant/core/history"
	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// CompareRefs measures the entropy introduced between two refs of one
// repository, typically a pull-request branch against the base it forked
// from. The base must sit on the head's first-parent chain; an unrelated
// ref fails the comparison with a range error.
func CompareRefs(ctx context.Context, cfg *contract.Config, client contract.GitClient, repoPath string) (*schema.ComparisonResult, error) {
	walker := history.NewWalker(client, repoPath, cfg.MaxBlobBytes)
	chain, err := walker.Chain(ctx, cfg.BaseRef, cfg.HeadRef)
	if err != nil {
		return nil, err
	}

	acc := entropy.NewAccumulator()
	if err := walker.WalkChain(ctx, chain, func(step history.Step) error {
		return observeStep(acc, step)
	}); err != nil {
		return nil, err
	}
	result := acc.Result()

	headRef := cfg.HeadRef
	if headRef == "" {
		headRef = "HEAD"
	}
	return &schema.ComparisonResult{
		RepoPath:     repoPath,
		BaseRef:      cfg.BaseRef,
		HeadRef:      headRef,
		BaseCommit:   chain[0].Hash,
		HeadCommit:   chain[len(chain)-1].Hash,
		Aggregate:    result.Aggregate,
		FilesChanged: len(result.Files),
		TopFiles:     result.TopFiles(cfg.TopFiles),
	}, nil
}
