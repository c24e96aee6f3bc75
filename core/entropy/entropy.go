// Package entropy computes normalized Shannon entropy over a repository's
// line change history. Changed lines per file fall into two categories,
// added and removed; a file edited in only one direction carries no
// information (H=0) while a file with equal additions and removals carries
// the maximum (H=1). The aggregate weighs each file by its share of total
// churn, so heavily edited files dominate the repository score.
package entropy

import (
	"math"
	"sort"

	"github.com/verdantlab/verdant/schema"
)

// counts holds the running change totals for one file.
type counts struct {
	added   int64
	removed int64
}

// Accumulator gathers per-file line change totals across commit pairs. It
// performs no I/O and its result depends only on the accumulated totals,
// never on observation order.
type Accumulator struct {
	files   map[string]counts
	skipped map[string]struct{}
	pairs   int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		files:   make(map[string]counts),
		skipped: make(map[string]struct{}),
	}
}

// Observe records the added and removed line counts for one file in one
// commit pair. Observations with zero lines on both sides are dropped so an
// untouched file never enters the denominator.
func (a *Accumulator) Observe(path string, added, removed int) {
	if added <= 0 && removed <= 0 {
		return
	}
	c := a.files[path]
	if added > 0 {
		c.added += int64(added)
	}
	if removed > 0 {
		c.removed += int64(removed)
	}
	a.files[path] = c
}

// Skip records a file excluded from the entropy set because its content is
// binary, oversized or undecodable. Skips are reported, never escalated.
func (a *Accumulator) Skip(path string) {
	a.skipped[path] = struct{}{}
}

// Pair marks one walked commit pair as consumed.
func (a *Accumulator) Pair() {
	a.pairs++
}

// Result computes per-file entropies and the aggregate normalized score.
// An accumulator with no observations yields a zero aggregate and an empty
// file mapping.
func (a *Accumulator) Result() *schema.EntropyResult {
	res := &schema.EntropyResult{
		Files: make(map[string]schema.FileEntropy, len(a.files)),
		Pairs: a.pairs,
	}

	var total int64
	for _, c := range a.files {
		total += c.added + c.removed
	}
	res.TotalChanged = total

	// Summation order over sorted paths keeps the floating point result
	// byte-identical across runs.
	paths := make([]string, 0, len(a.files))
	for path := range a.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var weighted float64
	for _, path := range paths {
		c := a.files[path]
		h := Shannon(c.added, c.removed)
		res.Files[path] = schema.FileEntropy{
			Path:    path,
			Added:   c.added,
			Removed: c.removed,
			Entropy: h,
		}
		if total > 0 {
			weighted += h * float64(c.added+c.removed) / float64(total)
		}
	}

	// H_max is 1 for the two-category distribution, so normalizing by file
	// count alone keeps the aggregate in [0, 1].
	if n := len(paths); n > 0 {
		res.Aggregate = weighted / float64(n)
	}

	if len(a.skipped) > 0 {
		res.Skipped = make([]string, 0, len(a.skipped))
		for path := range a.skipped {
			res.Skipped = append(res.Skipped, path)
		}
		sort.Strings(res.Skipped)
	}
	return res
}

// Shannon returns the two-category Shannon entropy of a file's change
// distribution, in [0, 1]. It is 0 when every observed change falls in a
// single category and 1 when additions and removals are equally likely.
func Shannon(added, removed int64) float64 {
	if added <= 0 || removed <= 0 {
		return 0
	}
	total := float64(added + removed)
	pAdd := float64(added) / total
	pRem := float64(removed) / total
	return -(pAdd*math.Log2(pAdd) + pRem*math.Log2(pRem))
}
