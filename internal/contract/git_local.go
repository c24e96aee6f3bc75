package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/verdantlab/verdant/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url string, destPath string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--", url, destPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("git clone of %q failed: %s", url, detail)
	}
	return nil
}

// ResolveRef implements the GitClient interface.
func (c *LocalGitClient) ResolveRef(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitInfo implements the GitClient interface.
func (c *LocalGitClient) CommitInfo(ctx context.Context, repoPath string, commit string) (schema.Commit, error) {
	out, err := c.Run(ctx, repoPath, "show", "-s", "--format=%H%n%P%n%at", commit)
	if err != nil {
		return schema.Commit{}, err
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) < 3 {
		return schema.Commit{}, fmt.Errorf("unexpected commit metadata for %s: %q", commit, string(out))
	}
	timestamp, err := strconv.ParseInt(strings.TrimSpace(lines[2]), 10, 64)
	if err != nil {
		return schema.Commit{}, fmt.Errorf("failed to parse commit time for %s: %w", commit, err)
	}
	return schema.Commit{
		Hash:    strings.TrimSpace(lines[0]),
		Parents: strings.Fields(lines[1]),
		Time:    time.Unix(timestamp, 0).UTC(),
	}, nil
}

// RepoRoot implements the GitClient interface.
func (c *LocalGitClient) RepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// DefaultBranch implements the GitClient interface.
func (c *LocalGitClient) DefaultBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ChangedPaths implements the GitClient interface. It disables rename
// detection so the output statuses stay single letters.
func (c *LocalGitClient) ChangedPaths(ctx context.Context, repoPath string, older, newer string) ([]PathChange, error) {
	out, err := c.Run(ctx, repoPath, "diff", "--name-status", "--no-renames", older, newer)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	changes := make([]PathChange, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		status, path, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("unexpected diff output line: %q", line)
		}
		changes = append(changes, PathChange{Path: path, Status: status[:1]})
	}
	return changes, nil
}

// BlobSize implements the GitClient interface.
func (c *LocalGitClient) BlobSize(ctx context.Context, repoPath string, commit string, path string) (int64, error) {
	out, err := c.Run(ctx, repoPath, "cat-file", "-s", commit+":"+path)
	if err != nil {
		return 0, err
	}
	size, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse blob size for %s at %s: %w", path, commit, err)
	}
	return size, nil
}

// ReadBlob implements the GitClient interface.
func (c *LocalGitClient) ReadBlob(ctx context.Context, repoPath string, commit string, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", commit+":"+path)
}

// ListFilesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	files := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(files) == 1 && files[0] == "" {
		return []string{}, nil
	}
	return files, nil
}
