// Package sink persists batch rows as Parquet artifacts.
//
// Two variants implement contract.Sink: MaterializingSink buffers the whole
// run in memory and writes one file at finalize; StreamingSink writes one
// numbered file per batch flush. The collector owning the sink serializes
// all calls, so neither variant locks.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

var (
	_ contract.Sink = (*MaterializingSink)(nil)
	_ contract.Sink = (*StreamingSink)(nil)
)

var errFinalized = errors.New("sink is finalized")

// codecFor maps a configured compression name to a Parquet codec.
// Unrecognized values fall back to the zstd default.
func codecFor(c schema.Compression) compress.Codec {
	switch c {
	case schema.SnappyCompression:
		return &parquet.Snappy
	case schema.GzipCompression:
		return &parquet.Gzip
	case schema.UncompressedCompression:
		return &parquet.Uncompressed
	default:
		return &parquet.Zstd
	}
}

// writeArtifact writes rows to path as a single Parquet file. Zero rows
// still produce a valid file carrying the column schema.
func writeArtifact(path string, rows []schema.Row, codec compress.Codec) error {
	file, err := os.Create(path)
	if err != nil {
		return &contract.SinkError{Artifact: path, Err: err}
	}

	writer := parquet.NewGenericWriter[schema.Row](file, parquet.Compression(codec))
	if _, err := writer.Write(rows); err != nil {
		file.Close()
		return &contract.SinkError{Artifact: path, Err: err}
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return &contract.SinkError{Artifact: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &contract.SinkError{Artifact: path, Err: err}
	}
	return nil
}

// MaterializingSink buffers every row and writes a single artifact when the
// run finalizes. Nothing touches the filesystem before Finalize.
type MaterializingSink struct {
	path      string
	codec     compress.Codec
	rows      []schema.Row
	finalized bool
	artifacts []string
}

// NewMaterializingSink returns a sink that will write one artifact at path.
func NewMaterializingSink(path string, compression schema.Compression) *MaterializingSink {
	return &MaterializingSink{path: path, codec: codecFor(compression)}
}

func (s *MaterializingSink) Write(row schema.Row) error {
	if s.finalized {
		return &contract.SinkError{Artifact: s.path, Err: errFinalized}
	}
	s.rows = append(s.rows, row)
	return nil
}

// Flush is a no-op: a materializing sink spans batch boundaries and only
// persists at finalize.
func (s *MaterializingSink) Flush() error {
	return nil
}

// Finalize writes the buffered rows as one artifact. A run with zero
// successful rows still produces a valid, empty artifact. Repeat calls
// after success are no-ops; a failed write leaves the sink open for retry.
func (s *MaterializingSink) Finalize() error {
	if s.finalized {
		return nil
	}
	if err := writeArtifact(s.path, s.rows, s.codec); err != nil {
		return err
	}
	s.finalized = true
	s.artifacts = append(s.artifacts, s.path)
	return nil
}

func (s *MaterializingSink) Artifacts() []string {
	return slices.Clone(s.artifacts)
}

// StreamingSink writes one artifact per batch flush under dir, named
// batch_0001.parquet onward so lexical order matches batch order.
type StreamingSink struct {
	dir       string
	codec     compress.Codec
	buf       []schema.Row
	index     int
	finalized bool
	artifacts []string
}

// NewStreamingSink returns a sink that writes numbered artifacts under dir.
// The directory is created on first flush if it does not exist.
func NewStreamingSink(dir string, compression schema.Compression) *StreamingSink {
	return &StreamingSink{dir: dir, codec: codecFor(compression)}
}

func (s *StreamingSink) Write(row schema.Row) error {
	if s.finalized {
		return &contract.SinkError{Artifact: s.dir, Err: errFinalized}
	}
	s.buf = append(s.buf, row)
	return nil
}

// Flush persists the buffered batch as the next numbered artifact. A batch
// in which every repository failed still produces an empty artifact, so
// artifact counts always track batch counts.
func (s *StreamingSink) Flush() error {
	if s.finalized {
		return &contract.SinkError{Artifact: s.dir, Err: errFinalized}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &contract.SinkError{Artifact: s.dir, Err: err}
	}
	path := filepath.Join(s.dir, fmt.Sprintf("batch_%04d.parquet", s.index+1))
	if err := writeArtifact(path, s.buf, s.codec); err != nil {
		return err
	}
	s.index++
	s.buf = s.buf[:0]
	s.artifacts = append(s.artifacts, path)
	return nil
}

// Finalize flushes any rows left in the buffer and closes the sink. The
// orchestrator flushes at every batch boundary, so the trailing flush only
// fires when a run ends mid-batch.
func (s *StreamingSink) Finalize() error {
	if s.finalized {
		return nil
	}
	if len(s.buf) > 0 {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	s.finalized = true
	return nil
}

func (s *StreamingSink) Artifacts() []string {
	return slices.Clone(s.artifacts)
}
