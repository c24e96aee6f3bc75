package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

var (
	_ contract.TaskRunner = (*InProcessRunner)(nil)
	_ contract.TaskRunner = (*SubprocessRunner)(nil)
)

// NewTaskRunner selects the execution model configured for the batch.
func NewTaskRunner(cfg *contract.Config, client contract.GitClient, stores contract.StoreManager) (contract.TaskRunner, error) {
	switch cfg.Runner {
	case schema.GoroutineRunner:
		return NewInProcessRunner(cfg, client, stores), nil
	default:
		return NewSubprocessRunner(cfg)
	}
}

// InProcessRunner executes repository tasks on goroutines inside the
// current process. It is the cheaper model for clone-heavy workloads, at
// the cost that a hard crash in one task takes the whole batch with it.
type InProcessRunner struct {
	task    *Task
	timeout time.Duration
}

// NewInProcessRunner returns a goroutine-backed runner.
func NewInProcessRunner(cfg *contract.Config, client contract.GitClient, stores contract.StoreManager) *InProcessRunner {
	return &InProcessRunner{task: NewTask(cfg, client, stores), timeout: cfg.TaskTimeout}
}

// RunTask implements the TaskRunner interface.
func (r *InProcessRunner) RunTask(ctx context.Context, repoURL string) schema.TaskResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.task.Run(ctx, repoURL)
}

// SubprocessRunner executes each repository task in a child process running
// the hidden task subcommand, reading the JSON result envelope from its
// stdout. A crash or hang stays confined to that child.
type SubprocessRunner struct {
	execPath string
	args     []string
	timeout  time.Duration
}

// NewSubprocessRunner returns a process-backed runner that re-executes the
// current binary. The child argument list carries the parent's analysis
// tunables so both execution models compute identical records.
func NewSubprocessRunner(cfg *contract.Config) (*SubprocessRunner, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate own executable: %w", err)
	}
	return &SubprocessRunner{
		execPath: execPath,
		args:     taskArgs(cfg),
		timeout:  cfg.TaskTimeout,
	}, nil
}

// taskArgs assembles the flag passthrough for the task subcommand. The
// repository reference is appended per invocation.
func taskArgs(cfg *contract.Config) []string {
	args := []string{
		"task",
		"--max-blob-bytes", strconv.FormatInt(cfg.MaxBlobBytes, 10),
		"--store-backend", string(cfg.StoreBackend),
	}
	if cfg.StoreConnect != "" {
		args = append(args, "--store-db-connect", cfg.StoreConnect)
	}
	if cfg.NoCache {
		args = append(args, "--no-cache")
	}
	if cfg.BaseRef != "" {
		args = append(args, "--base", cfg.BaseRef)
	}
	if cfg.HeadRef != "" {
		args = append(args, "--head", cfg.HeadRef)
	}
	return args
}

// RunTask implements the TaskRunner interface.
func (r *SubprocessRunner) RunTask(ctx context.Context, repoURL string) schema.TaskResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(slices.Clone(r.args), repoURL)
	out, err := exec.CommandContext(ctx, r.execPath, args...).Output()
	if err != nil {
		return workerFailure(ctx, repoURL, err)
	}
	return decodeTaskEnvelope(repoURL, out)
}

// decodeTaskEnvelope parses the JSON result envelope a task child printed.
// Garbage on stdout means the child died mid-write, which counts as a
// worker failure rather than a repository failure.
func decodeTaskEnvelope(repoURL string, out []byte) schema.TaskResult {
	var res schema.TaskResult
	if err := json.Unmarshal(out, &res); err != nil {
		return schema.TaskResult{
			RepoURL: repoURL,
			State:   schema.TaskFailed,
			Class:   schema.FailureWorker,
			Err:     fmt.Sprintf("undecodable task envelope: %v", err),
		}
	}
	if res.RepoURL == "" {
		res.RepoURL = repoURL
	}
	return res
}

// workerFailure classifies a child process that never delivered an
// envelope: a crash, a kill by deadline, or a missing executable.
func workerFailure(ctx context.Context, repoURL string, err error) schema.TaskResult {
	msg := err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		msg = strings.TrimSpace(string(exitErr.Stderr))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		msg = fmt.Sprintf("task aborted: %v", ctxErr)
	}
	return schema.TaskResult{
		RepoURL: repoURL,
		State:   schema.TaskFailed,
		Class:   schema.FailureWorker,
		Err:     msg,
	}
}
