package contract

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}

	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// The `Run` method implementation in MockGitClient expands the variadic
	// args into a single []any for `m.Called()`. We must match this
	// structure in `.On()`.
	ctx := context.Background()
	calledArgs := []any{ctx, expectedRepoPath}
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with various scenarios.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	assert.NoError(t, err, "RepoRoot should not return an error")

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repoRoot,
			args:        []string{"invalid-command"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

// TestLocalGitClient_RepoRoot tests the RepoRoot method.
func TestLocalGitClient_RepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	// Test with current directory (assuming we're in a git repo)
	root, err := client.RepoRoot(ctx, ".")
	assert.NoError(t, err, "RepoRoot should not return an error for current directory")
	assert.NotEmpty(t, root, "RepoRoot should return a non-empty root path")

	// Test with absolute path to the root itself
	root2, err := client.RepoRoot(ctx, root)
	assert.NoError(t, err, "RepoRoot should not return an error for absolute path")
	assert.Equal(t, root, root2, "RepoRoot should return the same root for absolute path")

	// Test with invalid path
	_, err = client.RepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "RepoRoot should return an error for non-git directory")
}

// TestLocalGitClient_ResolveRef tests resolution of symbolic references.
func TestLocalGitClient_ResolveRef(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	head, err := client.ResolveRef(ctx, repoRoot, "HEAD")
	assert.NoError(t, err, "ResolveRef should not return an error for HEAD")
	assert.Len(t, head, 40, "ResolveRef should return a full commit id")

	// Resolving a full id is idempotent
	same, err := client.ResolveRef(ctx, repoRoot, head)
	assert.NoError(t, err, "ResolveRef should not return an error for a full id")
	assert.Equal(t, head, same, "ResolveRef should be idempotent for a full id")

	_, err = client.ResolveRef(ctx, repoRoot, "definitely-not-a-ref")
	assert.Error(t, err, "ResolveRef should return an error for an unknown ref")
}

// TestLocalGitClient_CommitInfo tests commit metadata retrieval.
func TestLocalGitClient_CommitInfo(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	head, err := client.ResolveRef(ctx, repoRoot, "HEAD")
	require.NoError(t, err, "ResolveRef should not return an error for HEAD")

	info, err := client.CommitInfo(ctx, repoRoot, head)
	assert.NoError(t, err, "CommitInfo should not return an error for HEAD")
	assert.Equal(t, head, info.Hash, "CommitInfo should echo the commit id")
	assert.True(t, info.Time.After(time.Time{}), "CommitInfo should return a valid author time")

	_, err = client.CommitInfo(ctx, repoRoot, "definitely-not-a-commit")
	assert.Error(t, err, "CommitInfo should return an error for an unknown commit")
}

// TestLocalGitClient_ChangedPaths tests changed-path enumeration between
// a commit and its first parent.
func TestLocalGitClient_ChangedPaths(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	head, err := client.ResolveRef(ctx, repoRoot, "HEAD")
	require.NoError(t, err, "ResolveRef should not return an error for HEAD")

	info, err := client.CommitInfo(ctx, repoRoot, head)
	require.NoError(t, err, "CommitInfo should not return an error for HEAD")
	if info.IsRoot() {
		t.Skip("repository has a single commit, no pair to diff")
	}

	changes, err := client.ChangedPaths(ctx, repoRoot, info.FirstParent(), head)
	assert.NoError(t, err, "ChangedPaths should not return an error for a valid pair")
	for _, change := range changes {
		assert.NotEmpty(t, change.Path, "every change should carry a path")
		assert.Len(t, change.Status, 1, "every change should carry a one-letter status")
	}

	_, err = client.ChangedPaths(ctx, repoRoot, "bad-ref", head)
	assert.Error(t, err, "ChangedPaths should return an error for an unknown endpoint")
}

// TestLocalGitClient_BlobAccess tests BlobSize and ReadBlob against a
// file known to exist at HEAD.
func TestLocalGitClient_BlobAccess(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	files, err := client.ListFilesAtRef(ctx, repoRoot, "HEAD")
	require.NoError(t, err, "ListFilesAtRef should not return an error for HEAD")
	require.NotEmpty(t, files, "ListFilesAtRef should return at least one file")

	path := files[0]
	size, err := client.BlobSize(ctx, repoRoot, "HEAD", path)
	assert.NoError(t, err, "BlobSize should not return an error for %s", path)

	content, err := client.ReadBlob(ctx, repoRoot, "HEAD", path)
	assert.NoError(t, err, "ReadBlob should not return an error for %s", path)
	assert.Equal(t, size, int64(len(content)), "BlobSize should match ReadBlob length")

	_, err = client.ReadBlob(ctx, repoRoot, "HEAD", "definitely/missing/file.txt")
	assert.Error(t, err, "ReadBlob should return an error for a missing path")
}

// TestLocalGitClient_DefaultBranch tests the DefaultBranch method.
func TestLocalGitClient_DefaultBranch(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	branch, err := client.DefaultBranch(ctx, repoRoot)
	assert.NoError(t, err, "DefaultBranch should not return an error")
	assert.NotEmpty(t, branch, "DefaultBranch should return a branch name")
}

// TestLocalGitClient_ListFilesAtRef tests the ListFilesAtRef method.
func TestLocalGitClient_ListFilesAtRef(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	repoRoot, err := client.RepoRoot(ctx, ".")
	require.NoError(t, err, "RepoRoot should not return an error")

	files, err := client.ListFilesAtRef(ctx, repoRoot, "HEAD")
	assert.NoError(t, err, "ListFilesAtRef should not return an error for HEAD")
	assert.NotNil(t, files, "ListFilesAtRef should return a file list")
	assert.True(t, len(files) > 0, "ListFilesAtRef should return at least one file")
	t.Logf("Found %d files at HEAD", len(files))

	_, err = client.ListFilesAtRef(ctx, repoRoot, "invalid-ref")
	assert.Error(t, err, "ListFilesAtRef should return an error for invalid ref")
}
