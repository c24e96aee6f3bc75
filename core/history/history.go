// Package history walks a repository's commit graph between two endpoints
// and loads the blob content behind every step, filtered down to files the
// entropy pipeline can meaningfully diff.
package history

import (
	"context"
	"fmt"
	"slices"

	"github.com/verdantlab/verdant/core/blobdiff"
	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// FileDelta carries one file's blob content on both sides of a commit pair.
// Before is nil when the file did not exist in the older commit.
type FileDelta struct {
	Path   string
	Before []byte
	After  []byte
}

// Step is one chronological step of a walk: the ordered commit pair, the
// text files whose content changed, and the paths excluded as binary or
// oversized. Deleted paths never appear on either list.
type Step struct {
	Older   schema.Commit
	Newer   schema.Commit
	Changes []FileDelta
	Skipped []string
}

// Pair returns the step's commit pair.
func (s Step) Pair() schema.CommitPair {
	return schema.CommitPair{Older: s.Older, Newer: s.Newer}
}

// Walker produces chronological commit pairs along a repository's
// first-parent history. The first-parent chain gives a stable, linear
// ancestry path, so merge side branches fold into the merge commit's diff.
type Walker struct {
	client       contract.GitClient
	repoPath     string
	maxBlobBytes int64
}

// NewWalker returns a walker over the repository at repoPath. maxBlobBytes
// caps the blob size considered for diffing; zero or negative selects the
// default ceiling.
func NewWalker(client contract.GitClient, repoPath string, maxBlobBytes int64) *Walker {
	if maxBlobBytes <= 0 {
		maxBlobBytes = schema.DefaultMaxBlobBytes
	}
	return &Walker{client: client, repoPath: repoPath, maxBlobBytes: maxBlobBytes}
}

// Chain resolves the first-parent chain from headRef back to baseRef and
// returns it oldest first. An empty headRef defaults to HEAD; an empty
// baseRef extends the chain to the root commit. When baseRef does not sit
// on the chain, the endpoints are not connected and Chain fails with a
// RangeError.
func (w *Walker) Chain(ctx context.Context, baseRef, headRef string) ([]schema.Commit, error) {
	if headRef == "" {
		headRef = "HEAD"
	}
	headID, err := w.client.ResolveRef(ctx, w.repoPath, headRef)
	if err != nil {
		return nil, &contract.RangeError{
			RepoPath: w.repoPath,
			Older:    baseRef,
			Newer:    headRef,
			Reason:   fmt.Sprintf("cannot resolve head: %v", err),
		}
	}

	var baseID string
	if baseRef != "" {
		baseID, err = w.client.ResolveRef(ctx, w.repoPath, baseRef)
		if err != nil {
			return nil, &contract.RangeError{
				RepoPath: w.repoPath,
				Older:    baseRef,
				Newer:    headRef,
				Reason:   fmt.Sprintf("cannot resolve base: %v", err),
			}
		}
	}

	var chain []schema.Commit
	id := headID
	reachedBase := false
	for {
		commit, err := w.client.CommitInfo(ctx, w.repoPath, id)
		if err != nil {
			return nil, &contract.RangeError{
				RepoPath: w.repoPath,
				Older:    baseRef,
				Newer:    headRef,
				Reason:   fmt.Sprintf("cannot read commit %s: %v", id, err),
			}
		}
		chain = append(chain, commit)
		if baseID != "" && commit.Hash == baseID {
			reachedBase = true
			break
		}
		if commit.IsRoot() {
			break
		}
		id = commit.FirstParent()
	}
	if baseID != "" && !reachedBase {
		return nil, &contract.RangeError{
			RepoPath: w.repoPath,
			Older:    baseRef,
			Newer:    headRef,
			Reason:   "base is not a first-parent ancestor of head",
		}
	}

	slices.Reverse(chain)
	return chain, nil
}

// Walk yields every chronological commit pair between baseRef and headRef
// to fn, oldest pair first. A range that collapses to a single commit
// yields no pairs and no error. Walking stops at the first error from fn.
func (w *Walker) Walk(ctx context.Context, baseRef, headRef string, fn func(Step) error) error {
	chain, err := w.Chain(ctx, baseRef, headRef)
	if err != nil {
		return err
	}
	return w.WalkChain(ctx, chain, fn)
}

// WalkChain yields the commit pairs of an already resolved chain. Callers
// that need the chain itself resolve it once with Chain and walk it here
// instead of paying for the traversal twice.
func (w *Walker) WalkChain(ctx context.Context, chain []schema.Commit, fn func(Step) error) error {
	for i := 1; i < len(chain); i++ {
		step, err := w.step(ctx, chain[i-1], chain[i])
		if err != nil {
			return err
		}
		if err := fn(step); err != nil {
			return err
		}
	}
	return nil
}

// step assembles one commit pair: the changed paths with their blob content
// loaded, minus deletions and files the filters exclude.
func (w *Walker) step(ctx context.Context, older, newer schema.Commit) (Step, error) {
	step := Step{Older: older, Newer: newer}
	changes, err := w.client.ChangedPaths(ctx, w.repoPath, older.Hash, newer.Hash)
	if err != nil {
		return step, fmt.Errorf("changed paths %s..%s: %w", older.Hash, newer.Hash, err)
	}
	for _, change := range changes {
		if change.Deleted() {
			continue
		}
		delta, ok, err := w.load(ctx, older, newer, change)
		if err != nil {
			return step, err
		}
		if !ok {
			step.Skipped = append(step.Skipped, change.Path)
			continue
		}
		step.Changes = append(step.Changes, delta)
	}
	return step, nil
}

// load reads the blob content for one changed path. It returns ok=false
// when either side trips the size ceiling or the binary sniff.
func (w *Walker) load(ctx context.Context, older, newer schema.Commit, change contract.PathChange) (FileDelta, bool, error) {
	delta := FileDelta{Path: change.Path}

	// Size check before content read keeps giant blobs out of memory.
	size, err := w.client.BlobSize(ctx, w.repoPath, newer.Hash, change.Path)
	if err != nil {
		return delta, false, fmt.Errorf("blob size %s at %s: %w", change.Path, newer.Hash, err)
	}
	if size > w.maxBlobBytes {
		return delta, false, nil
	}
	after, err := w.client.ReadBlob(ctx, w.repoPath, newer.Hash, change.Path)
	if err != nil {
		return delta, false, fmt.Errorf("read blob %s at %s: %w", change.Path, newer.Hash, err)
	}
	if blobdiff.IsBinary(after) {
		return delta, false, nil
	}
	delta.After = after

	if change.Status == contract.StatusAdded {
		return delta, true, nil
	}

	size, err = w.client.BlobSize(ctx, w.repoPath, older.Hash, change.Path)
	if err != nil {
		return delta, false, fmt.Errorf("blob size %s at %s: %w", change.Path, older.Hash, err)
	}
	if size > w.maxBlobBytes {
		return delta, false, nil
	}
	before, err := w.client.ReadBlob(ctx, w.repoPath, older.Hash, change.Path)
	if err != nil {
		return delta, false, fmt.Errorf("read blob %s at %s: %w", change.Path, older.Hash, err)
	}
	if blobdiff.IsBinary(before) {
		return delta, false, nil
	}
	delta.Before = before
	return delta, true, nil
}
