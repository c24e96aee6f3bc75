package schema

import "time"

// RepoFailure identifies one repository that produced no metric record.
type RepoFailure struct {
	RepoURL string       `json:"repo_url"`
	Class   FailureClass `json:"failure_class"`
	Err     string       `json:"error"`
}

// BatchSummary is the final tally of one batch run. State names the
// lifecycle state the run ended in; anything other than done points at the
// phase that broke.
type BatchSummary struct {
	State     BatchState    `json:"state"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	CacheHits int           `json:"cache_hits"`
	Batches   int           `json:"batches"`
	Artifacts []string      `json:"artifacts,omitempty"`
	Failures  []RepoFailure `json:"failures,omitempty"`
	Runner    RunnerKind    `json:"runner"`
	Workers   int           `json:"workers"`
	BatchSize int           `json:"batch_size"`
	Duration  time.Duration `json:"duration_ns"`
}

// HasRows reports whether at least one repository produced a metric record.
// The batch command's exit status hangs on this.
func (s *BatchSummary) HasRows() bool {
	return s.Succeeded > 0
}

// taskTransitions lists the legal task state transitions.
var taskTransitions = map[TaskState][]TaskState{
	TaskPending:   {TaskScheduled},
	TaskScheduled: {TaskRunning},
	TaskRunning:   {TaskSucceeded, TaskFailed},
}

// CanTransitionTask reports whether a task may move from one state to another.
func CanTransitionTask(from, to TaskState) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// batchTransitions lists the legal batch state transitions.
var batchTransitions = map[BatchState][]BatchState{
	BatchCollecting: {BatchFlushing},
	BatchFlushing:   {BatchDone},
}

// CanTransitionBatch reports whether a batch may move from one state to another.
func CanTransitionBatch(from, to BatchState) bool {
	for _, next := range batchTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
