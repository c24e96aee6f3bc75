// Package main benchmarks the verdant CLI against locally cloned
// repositories of increasing size. Each command runs a few times with the
// store disabled, then against the SQLite store: the first store run is
// the cold measurement and the rest average into the warm figure. Results
// land in a timestamped CSV under /tmp.
//
// Prerequisites:
// - verdant binary on PATH
// - csv-parser, fd, git and kubernetes cloned under the base directory
//
// Usage: go run benchmark/main.go <repo-base-dir>
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	runTimeout  = 5 * time.Minute
	noStoreRuns = 3
	storeRuns   = 4
)

// suite is one verdant invocation benchmarked across every repository.
type suite struct {
	command string
	phrase  string // completion phrase the command prints on success
	args    []string
}

// measurement holds the formatted timings for one repo and command pair.
type measurement struct {
	repo       string
	command    string
	noStoreAvg string
	coldTime   string
	warmAvg    string
}

var testRepos = []string{"csv-parser", "fd", "git", "kubernetes"}

// compareRefs pins the base and head refs for the compare suite.
var compareRefs = map[string][2]string{
	"csv-parser": {"v1.0.0", "v1.1.0"},
	"fd":         {"v9.0.0", "v10.0.0"},
	"git":        {"v2.51.0", "v2.52.0-rc0"},
	"kubernetes": {"v1.34.0", "v1.35.0-alpha.0"},
}

// suitesFor lists the command invocations benchmarked for one repository.
func suitesFor(repo string) []suite {
	list := []suite{
		{command: "check", phrase: "Check completed in"},
		{command: "report", phrase: "Report completed in", args: []string{"--top", "20"}},
	}
	if refs, ok := compareRefs[repo]; ok {
		list = append(list, suite{
			command: "compare",
			phrase:  "Comparison completed in",
			args:    []string{"--base", refs[0], "--head", refs[1]},
		})
	}
	return list
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s <repo-base-dir>\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	if err := checkPrerequisites(repoBase); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Cold numbers are only cold against an empty record cache.
	fmt.Println("Clearing store...")
	if output, err := exec.Command("verdant", "store", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear store: %v\nOutput: %s\n", err, output)
	}

	var rows []measurement
	for _, repo := range testRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(repoBase, repo)
		for _, s := range suitesFor(repo) {
			rows = append(rows, runSuite(repoPath, repo, s))
		}
	}

	if err := saveResults(rows); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(rows)
}

// checkPrerequisites verifies the verdant binary and every test repository exist.
func checkPrerequisites(repoBase string) error {
	if _, err := exec.LookPath("verdant"); err != nil {
		return fmt.Errorf("verdant binary not found in PATH")
	}
	for _, repo := range testRepos {
		repoPath := filepath.Join(repoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runSuite measures one command against one repository: a no-store phase,
// then a store phase whose first run is the cold number.
func runSuite(repoPath, repo string, s suite) measurement {
	fmt.Printf("  %s\n", s.command)

	noStore := timedRuns(repoPath, s, "none", noStoreRuns)
	store := timedRuns(repoPath, s, "sqlite", storeRuns)

	m := measurement{
		repo:       repo,
		command:    s.command,
		noStoreAvg: formatAvg(noStore),
		coldTime:   "TIMEOUT",
		warmAvg:    "TIMEOUT",
	}
	if len(store) > 0 {
		m.coldTime = formatSeconds(store[0])
		m.warmAvg = formatAvg(store[1:])
	}
	fmt.Printf("    no-store: %s, cold: %s, warm: %s\n", m.noStoreAvg, m.coldTime, m.warmAvg)
	return m
}

// timedRuns executes the command numRuns times in the repository directory
// and keeps the wall time of each successful run.
func timedRuns(repoPath string, s suite, backend string, numRuns int) []time.Duration {
	args := append([]string{s.command, "--store-backend", backend}, s.args...)

	var times []time.Duration
	for run := 0; run < numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "verdant", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		cancel()
		if err == nil && strings.Contains(string(output), s.phrase) {
			times = append(times, time.Since(start))
		}
	}
	return times
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func formatAvg(times []time.Duration) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	return formatSeconds(sum / time.Duration(len(times)))
}

// saveResults writes the measurements to a timestamped CSV under /tmp.
func saveResults(rows []measurement) error {
	filename := fmt.Sprintf("/tmp/verdant_benchmark_%s.csv", time.Now().Format("20060102_150405"))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"repo", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return err
	}
	for _, m := range rows {
		if err := w.Write([]string{m.repo, m.command, m.noStoreAvg, m.coldTime, m.warmAvg}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary groups the measurements by command for a quick read.
func printSummary(rows []measurement) {
	sections := []struct{ command, title string }{
		{"check", "Metric record:"},
		{"report", "Entropy report:"},
		{"compare", "Ref comparison:"},
	}
	for _, s := range sections {
		fmt.Println(s.title)
		for _, m := range rows {
			if m.command == s.command {
				fmt.Printf("  %-12s no-store: %s, cold: %s, warm: %s\n", m.repo, m.noStoreAvg, m.coldTime, m.warmAvg)
			}
		}
	}
}
