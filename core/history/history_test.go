package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

const testRepo = "/tmp/repo"

var (
	baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	commitOne   = schema.Commit{Hash: "c1", Time: baseTime}
	commitTwo   = schema.Commit{Hash: "c2", Parents: []string{"c1"}, Time: baseTime.Add(time.Hour)}
	commitThree = schema.Commit{Hash: "c3", Parents: []string{"c2"}, Time: baseTime.Add(2 * time.Hour)}
)

// linearHistory wires a mock client with a three-commit first-parent chain
// where HEAD resolves to c3.
func linearHistory(client *contract.MockGitClient) {
	client.On("ResolveRef", mock.Anything, testRepo, "HEAD").Return("c3", nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c1").Return(commitOne, nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c2").Return(commitTwo, nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c3").Return(commitThree, nil)
}

// TestWalkerChain verifies first-parent chain resolution, oldest first.
func TestWalkerChain(t *testing.T) {
	client := &contract.MockGitClient{}
	linearHistory(client)

	w := NewWalker(client, testRepo, 0)
	chain, err := w.Chain(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, []schema.Commit{commitOne, commitTwo, commitThree}, chain)
	client.AssertExpectations(t)
}

// TestWalkerChainExplicitBase verifies that the chain stops at the base
// endpoint instead of extending to the root.
func TestWalkerChainExplicitBase(t *testing.T) {
	client := &contract.MockGitClient{}
	linearHistory(client)
	client.On("ResolveRef", mock.Anything, testRepo, "v0.1.0").Return("c2", nil)

	w := NewWalker(client, testRepo, 0)
	chain, err := w.Chain(context.Background(), "v0.1.0", "")
	require.NoError(t, err)
	assert.Equal(t, []schema.Commit{commitTwo, commitThree}, chain)
}

// TestWalkerChainErrors covers the endpoint failure modes, all of which
// must surface as range errors.
func TestWalkerChainErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(client *contract.MockGitClient)
		base  string
		head  string
	}{
		{
			name: "unresolvable head",
			setup: func(client *contract.MockGitClient) {
				client.On("ResolveRef", mock.Anything, testRepo, "HEAD").
					Return("", errors.New("unknown revision"))
			},
		},
		{
			name: "unresolvable base",
			setup: func(client *contract.MockGitClient) {
				client.On("ResolveRef", mock.Anything, testRepo, "HEAD").Return("c3", nil)
				client.On("ResolveRef", mock.Anything, testRepo, "nope").
					Return("", errors.New("unknown revision"))
			},
			base: "nope",
		},
		{
			name: "base not a first-parent ancestor",
			setup: func(client *contract.MockGitClient) {
				linearHistory(client)
				client.On("ResolveRef", mock.Anything, testRepo, "side").Return("zz", nil)
			},
			base: "side",
		},
		{
			name: "broken parent link",
			setup: func(client *contract.MockGitClient) {
				client.On("ResolveRef", mock.Anything, testRepo, "HEAD").Return("c3", nil)
				client.On("CommitInfo", mock.Anything, testRepo, "c3").Return(commitThree, nil)
				client.On("CommitInfo", mock.Anything, testRepo, "c2").
					Return(schema.Commit{}, errors.New("object not found"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &contract.MockGitClient{}
			tc.setup(client)

			w := NewWalker(client, testRepo, 0)
			_, err := w.Chain(context.Background(), tc.base, tc.head)
			require.Error(t, err)
			var rangeErr *contract.RangeError
			assert.True(t, errors.As(err, &rangeErr), "expected a range error, got %v", err)
			assert.Equal(t, schema.FailureHistory, contract.ClassifyFailure(err))
		})
	}
}

// TestWalkSingleCommit verifies that a range collapsing to one commit walks
// zero pairs without error.
func TestWalkSingleCommit(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("ResolveRef", mock.Anything, testRepo, "HEAD").Return("c1", nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c1").Return(commitOne, nil)

	w := NewWalker(client, testRepo, 0)
	steps := 0
	err := w.Walk(context.Background(), "", "", func(Step) error {
		steps++
		return nil
	})
	assert.NoError(t, err)
	assert.Zero(t, steps, "single-commit range must yield no pairs")
}

// TestWalkBaseEqualsHead verifies that identical endpoints walk zero pairs.
func TestWalkBaseEqualsHead(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("ResolveRef", mock.Anything, testRepo, "main").Return("c3", nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c3").Return(commitThree, nil)

	w := NewWalker(client, testRepo, 0)
	steps := 0
	err := w.Walk(context.Background(), "main", "main", func(Step) error {
		steps++
		return nil
	})
	assert.NoError(t, err)
	assert.Zero(t, steps)
}

// TestWalkPairsInOrder verifies chronological pair order and blob loading
// across a three-commit history.
func TestWalkPairsInOrder(t *testing.T) {
	client := &contract.MockGitClient{}
	linearHistory(client)

	client.On("ChangedPaths", mock.Anything, testRepo, "c1", "c2").
		Return([]contract.PathChange{{Path: "a.go", Status: contract.StatusAdded}}, nil)
	client.On("BlobSize", mock.Anything, testRepo, "c2", "a.go").Return(int64(4), nil)
	client.On("ReadBlob", mock.Anything, testRepo, "c2", "a.go").Return([]byte("x\ny\n"), nil)

	// The c2 blob expectations above also serve the older side of the
	// second pair.
	client.On("ChangedPaths", mock.Anything, testRepo, "c2", "c3").
		Return([]contract.PathChange{{Path: "a.go", Status: contract.StatusModified}}, nil)
	client.On("BlobSize", mock.Anything, testRepo, "c3", "a.go").Return(int64(2), nil)
	client.On("ReadBlob", mock.Anything, testRepo, "c3", "a.go").Return([]byte("x\n"), nil)

	w := NewWalker(client, testRepo, 0)
	var steps []Step
	err := w.Walk(context.Background(), "", "", func(s Step) error {
		steps = append(steps, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, "c1", steps[0].Older.Hash)
	assert.Equal(t, "c2", steps[0].Newer.Hash)
	require.Len(t, steps[0].Changes, 1)
	assert.Nil(t, steps[0].Changes[0].Before, "added file has no older side")
	assert.Equal(t, []byte("x\ny\n"), steps[0].Changes[0].After)

	assert.Equal(t, "c2", steps[1].Older.Hash)
	assert.Equal(t, "c3", steps[1].Newer.Hash)
	require.Len(t, steps[1].Changes, 1)
	assert.Equal(t, []byte("x\ny\n"), steps[1].Changes[0].Before)
	assert.Equal(t, []byte("x\n"), steps[1].Changes[0].After)
}

// TestWalkExclusions verifies the walker's file filters: deletions vanish,
// oversized and binary blobs land on the skipped list, and text survives.
func TestWalkExclusions(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("ResolveRef", mock.Anything, testRepo, "HEAD").Return("c2", nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c1").Return(commitOne, nil)
	client.On("CommitInfo", mock.Anything, testRepo, "c2").Return(commitTwo, nil)

	client.On("ChangedPaths", mock.Anything, testRepo, "c1", "c2").Return([]contract.PathChange{
		{Path: "a.txt", Status: contract.StatusModified},
		{Path: "gone.txt", Status: contract.StatusDeleted},
		{Path: "big.dat", Status: contract.StatusModified},
		{Path: "img.png", Status: contract.StatusAdded},
	}, nil)

	client.On("BlobSize", mock.Anything, testRepo, "c2", "a.txt").Return(int64(4), nil)
	client.On("ReadBlob", mock.Anything, testRepo, "c2", "a.txt").Return([]byte("new\n"), nil)
	client.On("BlobSize", mock.Anything, testRepo, "c1", "a.txt").Return(int64(4), nil)
	client.On("ReadBlob", mock.Anything, testRepo, "c1", "a.txt").Return([]byte("old\n"), nil)

	// Oversized on the newer side: size checked, content never read.
	client.On("BlobSize", mock.Anything, testRepo, "c2", "big.dat").Return(int64(4096), nil)

	// Binary sniff trips on the newer side.
	client.On("BlobSize", mock.Anything, testRepo, "c2", "img.png").Return(int64(6), nil)
	client.On("ReadBlob", mock.Anything, testRepo, "c2", "img.png").
		Return([]byte{0x89, 'P', 'N', 'G', 0x00, 0x0a}, nil)

	w := NewWalker(client, testRepo, 1024)
	var got Step
	err := w.Walk(context.Background(), "", "", func(s Step) error {
		got = s
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got.Changes, 1)
	assert.Equal(t, "a.txt", got.Changes[0].Path)
	assert.Equal(t, []string{"big.dat", "img.png"}, got.Skipped)
	client.AssertExpectations(t)
}

// TestWalkCallbackError verifies that an error from the visitor stops the
// walk and propagates unchanged.
func TestWalkCallbackError(t *testing.T) {
	client := &contract.MockGitClient{}
	linearHistory(client)
	client.On("ChangedPaths", mock.Anything, testRepo, "c1", "c2").Return([]contract.PathChange{}, nil)

	sentinel := errors.New("stop here")
	w := NewWalker(client, testRepo, 0)
	err := w.Walk(context.Background(), "", "", func(Step) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	client.AssertNotCalled(t, "ChangedPaths", mock.Anything, testRepo, "c2", "c3")
}
