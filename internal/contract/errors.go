package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/verdantlab/verdant/schema"
)

// RangeError reports a commit range whose endpoints are invalid or not
// connected by an ancestry path. It fails the owning repository task only.
type RangeError struct {
	RepoPath string
	Older    string
	Newer    string
	Reason   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid history range %s..%s in %s: %s", e.Older, e.Newer, e.RepoPath, e.Reason)
}

// DecodeError reports blob content that could not be decoded as text.
// Files that fail to decode are skipped at file granularity and recorded
// as excluded, never escalated to a task failure.
type DecodeError struct {
	Path   string
	Commit string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s at %s: %s", e.Path, e.Commit, e.Reason)
}

// AcquireError reports a failure to materialize a repository before any
// metric computation started (network, authentication, missing repository).
type AcquireError struct {
	URL string
	Err error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("cannot acquire repository %s: %v", e.URL, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// SinkError reports a failure writing rows to an output artifact. Sink
// errors are fatal to the whole batch; a partial, silently-truncated
// artifact is never acceptable.
type SinkError struct {
	Artifact string
	Err      error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("cannot write artifact %s: %v", e.Artifact, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// SchemaError reports a divergence between the loaded metric table and
// the keys of a computed record.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("metric schema mismatch: %s", e.Detail)
}

// ClassifyFailure maps an error to the failure class reported in batch
// output. Context cancellation and deadline errors count as worker
// failures so that timeouts are distinguishable from broken repositories.
func ClassifyFailure(err error) schema.FailureClass {
	var acquireErr *AcquireError
	if errors.As(err, &acquireErr) {
		return schema.FailureAcquire
	}
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return schema.FailureHistory
	}
	var sinkErr *SinkError
	if errors.As(err, &sinkErr) {
		return schema.FailureSink
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schema.FailureSchema
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return schema.FailureWorker
	}
	return schema.FailureCompute
}
