package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// PrepareRepoList de-duplicates repository references preserving first-seen
// order, drops empties, and applies the configured limit after
// de-duplication.
func PrepareRepoList(repos []string, limit int) []string {
	seen := make(map[string]struct{}, len(repos))
	list := make([]string, 0, len(repos))
	for _, repo := range repos {
		repo = strings.TrimSpace(repo)
		if repo == "" {
			continue
		}
		if _, dup := seen[repo]; dup {
			continue
		}
		seen[repo] = struct{}{}
		list = append(list, repo)
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// batchRun owns the mutable state of one batch invocation: the lifecycle
// state, the tally, the sink and the progress stream. Once workers start,
// the collector goroutine is its only writer.
type batchRun struct {
	cfg    *contract.Config
	runner contract.TaskRunner
	sink   contract.Sink
	out    io.Writer

	state     schema.BatchState
	total     int
	processed int
	succeeded int
	failed    int
	cacheHits int
	failures  []schema.RepoFailure
	sinkErr   error
}

// RunBatch analyzes every configured repository and returns the final
// tally. Rows land in the sink and failures in the summary; a repository
// failure never aborts the run. The returned error is reserved for fatal
// conditions: an empty repository list, an unwritable artifact, or outer
// cancellation.
func RunBatch(ctx context.Context, cfg *contract.Config, runner contract.TaskRunner, sk contract.Sink, stores contract.StoreManager, out io.Writer) (*schema.BatchSummary, error) {
	repos := PrepareRepoList(cfg.Repos, cfg.RepoLimit)
	if len(repos) == 0 {
		return nil, errors.New("no repositories to analyze")
	}

	start := time.Now()
	st, runID := beginRunTracking(stores, cfg, start)

	b := &batchRun{cfg: cfg, runner: runner, sink: sk, out: out, total: len(repos), state: schema.BatchCollecting}
	runErr := b.processAll(ctx, repos)
	if runErr == nil {
		b.advance(schema.BatchFlushing)
		runErr = sk.Finalize()
	}
	if runErr == nil {
		b.advance(schema.BatchDone)
	}

	summary := b.summary(time.Since(start))
	endRunTracking(st, runID, summary)
	return summary, runErr
}

// advance moves the run one step along the batch lifecycle. Moves off a
// legal edge are dropped, so a stalled run keeps the state it stalled in.
func (b *batchRun) advance(to schema.BatchState) {
	if schema.CanTransitionBatch(b.state, to) {
		b.state = to
	}
}

// processAll cuts the repository list into sequential batches and runs them
// in order. The first fatal batch error stops the run.
func (b *batchRun) processAll(ctx context.Context, repos []string) error {
	for start := 0; start < len(repos); start += b.cfg.BatchSize {
		end := min(start+b.cfg.BatchSize, len(repos))
		number := start/b.cfg.BatchSize + 1
		if b.cfg.ShowBatchProgress {
			fmt.Fprintf(b.out, "[batch %d] processing %d repos (%d-%d/%d)\n",
				number, end-start, start+1, end, b.total)
		}
		if err := b.processBatch(ctx, repos[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// processBatch fans one batch out to the worker pool and funnels every
// result through the single collector that owns the sink and the tally. A
// failed artifact write cancels scheduling; in-flight tasks drain into the
// tally before the error surfaces.
func (b *batchRun) processBatch(ctx context.Context, refs []string) error {
	bctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(b.cfg.Workers)

	results := make(chan schema.TaskResult)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			b.collect(res, cancel)
		}
	}()

	for _, ref := range refs {
		if bctx.Err() != nil {
			break // Stop scheduling, keep draining
		}
		g.Go(func() error {
			// Tasks run under the outer context: a failed artifact write
			// stops scheduling but lets in-flight tasks drain, not die.
			results <- b.runner.RunTask(ctx, ref)
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-done

	if b.sinkErr != nil {
		return b.sinkErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.sink.Flush()
}

// collect folds one task result into the tally, emits the progress lines
// and forwards the row. Runs only on the collector goroutine. Results must
// arrive in a terminal state; anything else is a worker that broke
// mid-envelope and is tallied as a worker failure.
func (b *batchRun) collect(res schema.TaskResult, cancel context.CancelFunc) {
	b.processed++
	if res.Cached {
		b.cacheHits++
	}

	if !schema.CanTransitionTask(schema.TaskRunning, res.State) {
		res.State = schema.TaskFailed
		if res.Class == "" {
			res.Class = schema.FailureWorker
		}
		if res.Err == "" {
			res.Err = "task result carried no terminal state"
		}
	}

	if !res.Succeeded() {
		b.failed++
		b.failures = append(b.failures, schema.RepoFailure{
			RepoURL: res.RepoURL,
			Class:   res.Class,
			Err:     res.Err,
		})
		if b.cfg.ShowErrors {
			fmt.Fprintf(b.out, "[error] %s: %s\n", res.RepoURL, res.Err)
		}
		b.progress(res)
		return
	}

	b.succeeded++
	b.progress(res)

	if b.sinkErr != nil {
		return // Draining after a failed write
	}
	row, ok := schema.RowFromResult(&res)
	if !ok {
		return
	}
	if err := b.sink.Write(row); err != nil {
		b.sinkErr = err
		cancel()
	}
}

func (b *batchRun) progress(res schema.TaskResult) {
	if b.cfg.ShowRepoProgress {
		fmt.Fprintf(b.out, "[%d/%d] %s %s\n", b.processed, b.total, res.State, res.RepoURL)
	}
}

// summary assembles the final tally. Batches counts the planned batch
// boundaries, which on a completed run equals the flush count.
func (b *batchRun) summary(elapsed time.Duration) *schema.BatchSummary {
	return &schema.BatchSummary{
		State:     b.state,
		Total:     b.total,
		Succeeded: b.succeeded,
		Failed:    b.failed,
		CacheHits: b.cacheHits,
		Batches:   (b.total + b.cfg.BatchSize - 1) / b.cfg.BatchSize,
		Artifacts: b.sink.Artifacts(),
		Failures:  b.failures,
		Runner:    b.cfg.Runner,
		Workers:   b.cfg.Workers,
		BatchSize: b.cfg.BatchSize,
		Duration:  elapsed,
	}
}

// beginRunTracking opens a run history entry when a store is configured.
// Tracking failures degrade to a warning; they never block the batch.
func beginRunTracking(stores contract.StoreManager, cfg *contract.Config, start time.Time) (contract.Store, int64) {
	if stores == nil {
		return nil, 0
	}
	st := stores.GetStore()
	if st == nil {
		return nil, 0
	}
	runID, err := st.BeginRun(start, cfg.Runner, cfg.Workers, cfg.BatchSize, cfg.OutputPath)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return nil, 0
	}
	return st, runID
}

// endRunTracking records the final counters of a tracked run.
func endRunTracking(st contract.Store, runID int64, summary *schema.BatchSummary) {
	if st == nil || runID == 0 {
		return
	}
	if err := st.EndRun(runID, time.Now(), summary.Total, summary.Succeeded, summary.Failed); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
