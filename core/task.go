package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/verdantlab/verdant/core/blobdiff"
	"github.com/verdantlab/verdant/core/entropy"
	"github.com/verdantlab/verdant/core/history"
	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// Task runs the full analysis pipeline for one repository: acquire the
// working tree, walk the first-parent history, compute entropy and the
// community checks, and assemble the metric record. Tasks share nothing
// mutable, so any number of them can run on any worker.
type Task struct {
	cfg    *contract.Config
	client contract.GitClient
	stores contract.StoreManager
}

// NewTask returns a task bound to the given configuration and git client.
// stores may be nil when no record cache is configured.
func NewTask(cfg *contract.Config, client contract.GitClient, stores contract.StoreManager) *Task {
	return &Task{cfg: cfg, client: client, stores: stores}
}

// Run analyzes one repository reference end to end. Failures come back
// classified inside the result rather than as an error, so one broken
// repository can never take down the batch that scheduled it.
func (t *Task) Run(ctx context.Context, repoURL string) schema.TaskResult {
	start := time.Now()
	res := schema.TaskResult{RepoURL: repoURL}

	rec, cached, err := t.analyze(ctx, repoURL)
	res.Duration = time.Since(start)
	if err != nil {
		res.State = schema.TaskFailed
		res.Class = contract.ClassifyFailure(err)
		res.Err = err.Error()
		return res
	}
	res.State = schema.TaskSucceeded
	res.Record = rec
	res.Cached = cached
	return res
}

// analyze acquires the repository, consults the record cache and falls back
// to a history walk on a miss. The walk spans the configured endpoints;
// by default the full first-parent history up to HEAD.
func (t *Task) analyze(ctx context.Context, repoURL string) (*schema.Record, bool, error) {
	repoPath, cleanup, err := acquireRepository(ctx, t.client, repoURL)
	if err != nil {
		return nil, false, err
	}
	defer cleanup()

	headRef := t.cfg.HeadRef
	if headRef == "" {
		headRef = "HEAD"
	}
	headCommit, err := t.client.ResolveRef(ctx, repoPath, headRef)
	if err != nil {
		return nil, false, &contract.RangeError{
			RepoPath: repoPath,
			Older:    t.cfg.BaseRef,
			Newer:    headRef,
			Reason:   fmt.Sprintf("cannot resolve head: %v", err),
		}
	}

	key := recordCacheKey(t.cfg, repoURL, headCommit)
	if cached := cachedRecord(t.stores, t.cfg, key); cached != nil {
		return cached, true, nil
	}

	rec, _, err := analyzeHistory(ctx, t.cfg, t.client, repoPath, t.cfg.BaseRef, headCommit)
	if err != nil {
		return nil, false, err
	}

	saveRecord(t.stores, t.cfg, key, rec)
	return rec, false, nil
}

// analyzeHistory walks the first-parent history between baseRef and
// headRef and assembles the metric record together with the entropy detail
// behind it. An empty baseRef extends the walk to the root commit; an
// empty headRef means HEAD.
func analyzeHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, repoPath, baseRef, headRef string) (*schema.Record, *schema.EntropyResult, error) {
	walker := history.NewWalker(client, repoPath, cfg.MaxBlobBytes)
	chain, err := walker.Chain(ctx, baseRef, headRef)
	if err != nil {
		return nil, nil, err
	}

	acc := entropy.NewAccumulator()
	if err := walker.WalkChain(ctx, chain, func(step history.Step) error {
		return observeStep(acc, step)
	}); err != nil {
		return nil, nil, err
	}
	result := acc.Result()

	head := chain[len(chain)-1]
	checks, err := runRepoChecks(ctx, client, repoPath, head.Hash)
	if err != nil {
		return nil, nil, err
	}

	rec := &schema.Record{
		RepoPath:               repoPath,
		Commits:                len(chain),
		FileCount:              len(result.Files),
		CommitTimeRange:        schema.FormatTimeRange(chain[0].Time, head.Time),
		IncludesReadme:         checks.Readme,
		IncludesContributing:   checks.Contributing,
		IncludesCodeOfConduct:  checks.CodeOfConduct,
		IncludesLicense:        checks.License,
		IsCitable:              checks.Citable,
		DefaultBranchNotMaster: checks.DefaultBranchNotMaster,
		AggInfoEntropy:         result.Aggregate,
		FileInfoEntropy:        result.FileEntropies(),
	}
	return rec, result, nil
}

// observeStep diffs every loaded file of one walk step into the entropy
// accumulator. Undecodable content demotes the file to the skip list; the
// walker has already excluded binary and oversized blobs the same way.
func observeStep(acc *entropy.Accumulator, step history.Step) error {
	for _, delta := range step.Changes {
		added, removed, err := blobdiff.Compare(delta.Path, step.Newer.Hash, delta.Before, delta.After)
		if err != nil {
			var decodeErr *contract.DecodeError
			if errors.As(err, &decodeErr) {
				acc.Skip(delta.Path)
				continue
			}
			return err
		}
		acc.Observe(delta.Path, added, removed)
	}
	for _, path := range step.Skipped {
		acc.Skip(path)
	}
	acc.Pair()
	return nil
}

// acquireRepository materializes the repository behind a reference. Remote
// URLs are cloned into a temporary directory that the cleanup removes;
// local paths resolve to their repository root and clean up nothing.
func acquireRepository(ctx context.Context, client contract.GitClient, ref string) (string, func(), error) {
	if contract.IsRemoteURL(ref) {
		tmp, err := os.MkdirTemp("", "verdant-clone-")
		if err != nil {
			return "", nil, &contract.AcquireError{URL: ref, Err: err}
		}
		if err := client.Clone(ctx, ref, tmp); err != nil {
			_ = os.RemoveAll(tmp)
			return "", nil, &contract.AcquireError{URL: ref, Err: err}
		}
		return tmp, func() { _ = os.RemoveAll(tmp) }, nil
	}

	root, err := client.RepoRoot(ctx, ref)
	if err != nil {
		return "", nil, &contract.AcquireError{URL: ref, Err: err}
	}
	return root, func() {}, nil
}
