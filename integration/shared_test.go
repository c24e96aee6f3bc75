//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// binaryDir is removed in TestMain once every test has run.
var binaryDir string

// verdantBinary compiles the verdant binary into a temp directory the first
// time a test asks for it; every later caller shares the path.
var verdantBinary = sync.OnceValue(func() string {
	dir, err := os.MkdirTemp("", "verdant-integration-*")
	if err != nil {
		panic(fmt.Sprintf("failed to create temp dir: %v", err))
	}
	binaryDir = dir

	path := filepath.Join(dir, "verdant")
	build := exec.Command("go", "build", "-o", path, ".")
	build.Dir = ".." // project root
	if out, err := build.CombinedOutput(); err != nil {
		panic(fmt.Sprintf("failed to build verdant: %v\n%s", err, out))
	}
	return path
})

func TestMain(m *testing.M) {
	code := m.Run()
	if binaryDir != "" {
		_ = os.RemoveAll(binaryDir)
	}
	os.Exit(code)
}
