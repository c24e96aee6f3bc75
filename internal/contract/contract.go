// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/verdantlab/verdant/schema"
)

// Change status letters reported by GitClient.ChangedPaths.
const (
	StatusAdded       = "A"
	StatusModified    = "M"
	StatusDeleted     = "D"
	StatusTypeChanged = "T"
)

// PathChange is one file path whose blob content differs between two
// commits, tagged with its one-letter change status.
type PathChange struct {
	Path   string
	Status string
}

// Deleted reports whether the path no longer exists in the newer commit.
func (pc PathChange) Deleted() bool {
	return pc.Status == StatusDeleted
}

// GitClient defines the version-control operations needed for history analysis.
// This allows the core analysis logic to be tested without needing a real git
// executable. History traversal depends only on ResolveRef, CommitInfo,
// ChangedPaths and ReadBlob; the remaining methods serve acquisition and the
// static repository checks.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Acquisition ---

	// Clone materializes a remote repository into destPath.
	Clone(ctx context.Context, url string, destPath string) error

	// --- Reference Resolution ---

	// ResolveRef resolves a reference (branch, tag, hash prefix) to a full commit id.
	ResolveRef(ctx context.Context, repoPath string, ref string) (string, error)

	// CommitInfo returns the id, parent ids and author time of one commit.
	CommitInfo(ctx context.Context, repoPath string, commit string) (schema.Commit, error)

	// RepoRoot returns the absolute path to the root of the repository
	// containing the given context path.
	RepoRoot(ctx context.Context, contextPath string) (string, error)

	// DefaultBranch returns the branch name the repository has checked out.
	DefaultBranch(ctx context.Context, repoPath string) (string, error)

	// --- Blob / Tree State ---

	// ChangedPaths enumerates file paths whose blob content differs between
	// two commits. Renames are not detected, so a rename surfaces as a
	// delete plus an add.
	ChangedPaths(ctx context.Context, repoPath string, older, newer string) ([]PathChange, error)

	// BlobSize returns the byte size of a file's blob at a commit without
	// reading its content.
	BlobSize(ctx context.Context, repoPath string, commit string, path string) (int64, error)

	// ReadBlob returns the raw bytes of a file's blob at a commit.
	ReadBlob(ctx context.Context, repoPath string, commit string, path string) ([]byte, error)

	// ListFilesAtRef returns a list of all trackable files in the repository
	// at a specific reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)
}

// Sink receives one row per successfully analyzed repository and persists
// rows to columnar artifacts. Implementations are not safe for concurrent
// use; the orchestrator serializes all writes through a single collector.
type Sink interface {
	// Write appends one result row.
	Write(row schema.Row) error

	// Flush marks a batch boundary. Split-mode sinks emit one artifact per
	// flush, even for a batch that produced no rows, so artifact counts
	// track batch counts.
	Flush() error

	// Finalize persists any remaining rows and closes underlying writers.
	// Finalizing more than once is a no-op.
	Finalize() error

	// Artifacts returns the paths written so far, in flush order.
	Artifacts() []string
}

// TaskRunner executes one repository task and reports its result. The
// process-backed variant isolates a crash or hang in one repository's
// analysis from the rest of the batch; the goroutine-backed variant is
// cheaper for clone-heavy workloads.
type TaskRunner interface {
	// RunTask analyzes one repository reference. Failures are classified
	// inside the result rather than returned as an error.
	RunTask(ctx context.Context, repoURL string) schema.TaskResult
}

// Store persists cached metric records and batch run history.
// This allows the storage layer to be mocked for testing.
type Store interface {
	// GetRecord retrieves a serialized record and its creation timestamp
	// by cache key. Returns sql.ErrNoRows when missing.
	GetRecord(key string) ([]byte, int64, error)

	// SetRecord inserts or replaces a serialized record under the cache key.
	SetRecord(key string, value []byte, timestamp int64) error

	// BeginRun creates a new batch run entry and returns its unique ID.
	BeginRun(startTime time.Time, runner schema.RunnerKind, workers, batchSize int, outputPath string) (int64, error)

	// EndRun updates the batch run entry with completion data.
	EndRun(runID int64, endTime time.Time, total, succeeded, failed int) error

	// GetAllRuns retrieves all batch run entries, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all cached records.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager guards concurrent access to the process-wide Store handle.
type StoreManager interface {
	// GetStore returns the configured Store, or nil before initialization.
	GetStore() Store
}
