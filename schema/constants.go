package schema

// Custom string types for type safety.
type (
	// MetricID identifies one entry of the metric table.
	MetricID string

	// OutputMode represents the format of the output.
	OutputMode string

	// RunnerKind selects the execution model for repository tasks.
	RunnerKind string

	// SinkMode selects how batch rows are persisted.
	SinkMode string

	// Compression represents the columnar output compression codec.
	Compression string

	// DatabaseBackend represents the database backend for the store.
	DatabaseBackend string

	// FailureClass classifies why a repository task produced no record.
	FailureClass string

	// TaskState tracks one repository task through its lifecycle.
	TaskState string

	// BatchState tracks a batch run through its lifecycle.
	BatchState string
)

// Metric identifiers, matching the embedded metrics.yml table.
const (
	MetricRepoPath               MetricID = "repo-path"
	MetricCommits                MetricID = "repo-commits"
	MetricFileCount              MetricID = "repo-file-count"
	MetricCommitTimeRange        MetricID = "repo-commit-time-range"
	MetricIncludesReadme         MetricID = "repo-includes-readme"
	MetricIncludesContributing   MetricID = "repo-includes-contributing"
	MetricIncludesCodeOfConduct  MetricID = "repo-includes-code-of-conduct"
	MetricIncludesLicense        MetricID = "repo-includes-license"
	MetricIsCitable              MetricID = "repo-is-citable"
	MetricDefaultBranchNotMaster MetricID = "repo-default-branch-not-master"
	MetricAggInfoEntropy         MetricID = "repo-agg-info-entropy"
	MetricFileInfoEntropy        MetricID = "repo-file-info-entropy"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All task runners supported.
const (
	ProcessRunner   RunnerKind = "process" // default
	GoroutineRunner RunnerKind = "goroutine"
)

// All sink modes supported.
const (
	SingleSink SinkMode = "single" // default
	SplitSink  SinkMode = "split"
)

// All compression codecs supported for columnar output.
const (
	ZstdCompression         Compression = "zstd" // default
	SnappyCompression       Compression = "snappy"
	GzipCompression         Compression = "gzip"
	UncompressedCompression Compression = "uncompressed"
)

// All store backends supported.
const (
	NoneBackend       DatabaseBackend = "none"
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Failure classes reported for repository tasks and batches.
const (
	FailureAcquire FailureClass = "acquire" // clone/fetch/missing repository
	FailureHistory FailureClass = "history" // unreachable or invalid commit range
	FailureCompute FailureClass = "compute" // metric computation errors
	FailureSink    FailureClass = "sink"    // output artifact write errors
	FailureSchema  FailureClass = "schema"  // metric table and record diverge
	FailureWorker  FailureClass = "worker"  // subprocess crash or undecodable envelope
)

// Repository task states.
const (
	TaskPending   TaskState = "pending"
	TaskScheduled TaskState = "scheduled"
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// Batch run states.
const (
	BatchCollecting BatchState = "collecting"
	BatchFlushing   BatchState = "flushing"
	BatchDone       BatchState = "done"
)

// Batch processing defaults.
const (
	DefaultBatchSize = 500
	DefaultWorkers   = 16
	DefaultURLColumn = "repo_url"
)

// DefaultMaxBlobBytes is the blob size ceiling above which a file is
// excluded from entropy analysis.
const DefaultMaxBlobBytes = 1 << 20

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidRunnerKinds lists all valid task runners.
var ValidRunnerKinds = map[RunnerKind]struct{}{
	ProcessRunner:   {},
	GoroutineRunner: {},
}

// ValidSinkModes lists all valid sink modes.
var ValidSinkModes = map[SinkMode]struct{}{
	SingleSink: {},
	SplitSink:  {},
}

// ValidCompressions lists all valid compression codecs.
var ValidCompressions = map[Compression]struct{}{
	ZstdCompression:         {},
	SnappyCompression:       {},
	GzipCompression:         {},
	UncompressedCompression: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	NoneBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}
