package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdantlab/verdant/internal/contract"
)

// repoChecks holds the static head-tree checks of the metric record.
type repoChecks struct {
	Readme                 bool
	Contributing           bool
	CodeOfConduct          bool
	License                bool
	Citable                bool
	DefaultBranchNotMaster bool
}

// citationMarkers are the readme fragments that mark a repository as
// citable: markdown and RST citation headings plus the DOI shield prefix.
var citationMarkers = []string{
	"## Citation",
	"## Citing",
	"## Cite",
	"## How to cite",
	"Citation\n--------",
	"Citing\n------",
	"Cite\n----",
	"How to cite\n-----------",
	"[![DOI](https://img.shields.io/badge/DOI",
}

// runRepoChecks evaluates the community file checks against the repository
// tree at headRef. All name matching is case-insensitive and confined to
// the top level of the tree.
func runRepoChecks(ctx context.Context, client contract.GitClient, repoPath, headRef string) (repoChecks, error) {
	var checks repoChecks

	files, err := client.ListFilesAtRef(ctx, repoPath, headRef)
	if err != nil {
		return checks, fmt.Errorf("list files at %s: %w", headRef, err)
	}
	top := topLevelNames(files)

	checks.Readme = hasBaseName(top, "readme")
	checks.Contributing = hasBaseName(top, "contributing")
	checks.CodeOfConduct = hasBaseName(top, "code_of_conduct")
	checks.License = hasBaseName(top, "license")
	checks.Citable = isCitable(ctx, client, repoPath, headRef, top)

	branch, err := client.DefaultBranch(ctx, repoPath)
	if err != nil {
		return checks, fmt.Errorf("default branch: %w", err)
	}
	checks.DefaultBranchNotMaster = branch != "master"

	return checks, nil
}

// topLevelNames filters a recursive tree listing down to root entries.
func topLevelNames(files []string) []string {
	top := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.Contains(f, "/") {
			top = append(top, f)
		}
	}
	return top
}

// hasBaseName reports whether any name matches base once its extensions are
// stripped, case-insensitively. README, readme.md and README.rst.txt all
// match base "readme".
func hasBaseName(names []string, base string) bool {
	for _, name := range names {
		stem, _, _ := strings.Cut(strings.ToLower(name), ".")
		if stem == base {
			return true
		}
	}
	return false
}

// isCitable reports whether the repository carries citation metadata: a
// CITATION.cff or CITATION.bib file, or a readme with a citation heading or
// DOI badge. Readme read errors degrade to "not citable" rather than
// failing the task.
func isCitable(ctx context.Context, client contract.GitClient, repoPath, headRef string, topLevel []string) bool {
	var readme string
	for _, name := range topLevel {
		switch lower := strings.ToLower(name); lower {
		case "citation.cff", "citation.bib":
			return true
		case "readme.md":
			readme = name
		}
	}
	if readme == "" {
		return false
	}

	content, err := client.ReadBlob(ctx, repoPath, headRef, readme)
	if err != nil {
		return false
	}
	text := string(content)
	for _, marker := range citationMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
