package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/verdantlab/verdant/schema"
)

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, url string, destPath string) error {
	ret := m.Called(ctx, url, destPath)
	return ret.Error(0)
}

// ResolveRef implements the GitClient interface.
func (m *MockGitClient) ResolveRef(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	id, _ := ret.Get(0).(string)
	return id, ret.Error(1)
}

// CommitInfo implements the GitClient interface.
func (m *MockGitClient) CommitInfo(ctx context.Context, repoPath string, commit string) (schema.Commit, error) {
	ret := m.Called(ctx, repoPath, commit)
	info, _ := ret.Get(0).(schema.Commit)
	return info, ret.Error(1)
}

// RepoRoot implements the GitClient interface.
func (m *MockGitClient) RepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// DefaultBranch implements the GitClient interface.
func (m *MockGitClient) DefaultBranch(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	branch, _ := ret.Get(0).(string)
	return branch, ret.Error(1)
}

// ChangedPaths implements the GitClient interface.
func (m *MockGitClient) ChangedPaths(ctx context.Context, repoPath string, older, newer string) ([]PathChange, error) {
	ret := m.Called(ctx, repoPath, older, newer)
	changes, _ := ret.Get(0).([]PathChange)
	return changes, ret.Error(1)
}

// BlobSize implements the GitClient interface.
func (m *MockGitClient) BlobSize(ctx context.Context, repoPath string, commit string, path string) (int64, error) {
	ret := m.Called(ctx, repoPath, commit, path)
	size, _ := ret.Get(0).(int64)
	return size, ret.Error(1)
}

// ReadBlob implements the GitClient interface.
func (m *MockGitClient) ReadBlob(ctx context.Context, repoPath string, commit string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, commit, path)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// ListFilesAtRef implements the GitClient interface.
func (m *MockGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}
