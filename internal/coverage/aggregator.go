// Package coverage merges per-test line coverage into a run-wide report.
package coverage

import (
	"math"
	"sort"
	"sync"

	"pypar/internal/domain"
)

type fileCoverage struct {
	executable map[int]struct{}
	covered    map[int]struct{}
}

// Aggregator accumulates covered lines per file. It is seeded with the
// executable-line sets from discovery and safe for concurrent Merge calls
// from many workers; the covered set only grows, and stays a subset of the
// executable set at every point.
type Aggregator struct {
	mu    sync.Mutex
	files map[string]*fileCoverage
}

// NewAggregator seeds an Aggregator with discovery's executable lines.
func NewAggregator(executable map[string][]int) *Aggregator {
	files := make(map[string]*fileCoverage, len(executable))
	for file, lines := range executable {
		fc := &fileCoverage{
			executable: make(map[int]struct{}, len(lines)),
			covered:    make(map[int]struct{}),
		}
		for _, line := range lines {
			fc.executable[line] = struct{}{}
		}
		files[file] = fc
	}
	return &Aggregator{files: files}
}

// Merge unions one test's coverage set into the aggregate. Lines outside a
// file's executable set, and files unknown to discovery, are dropped so the
// subset invariant holds even against an over-reporting trace hook.
func (a *Aggregator) Merge(set domain.CoverageSet) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for file, lines := range set {
		fc, ok := a.files[file]
		if !ok {
			continue
		}
		for line := range lines {
			if _, ok := fc.executable[line]; ok {
				fc.covered[line] = struct{}{}
			}
		}
	}
}

// Covered returns the sorted covered lines for one file. Used by tests to
// check the subset invariant at intermediate points.
func (a *Aggregator) Covered(file string) []int {
	a.mu.Lock()
	defer a.mu.Unlock()

	fc, ok := a.files[file]
	if !ok {
		return nil
	}
	lines := make([]int, 0, len(fc.covered))
	for line := range fc.covered {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Report computes the final coverage table, sorted by file path, plus a
// totals row. Files with no executable lines report 100%.
func (a *Aggregator) Report() *domain.CoverageReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := &domain.CoverageReport{}
	files := make([]string, 0, len(a.files))
	for file := range a.files {
		files = append(files, file)
	}
	sort.Strings(files)

	var totalLines, totalCovered int
	for _, file := range files {
		fc := a.files[file]
		row := domain.CoverageRow{
			File:    file,
			Lines:   len(fc.executable),
			Missed:  len(fc.executable) - len(fc.covered),
			Percent: percent(len(fc.covered), len(fc.executable)),
		}
		totalLines += row.Lines
		totalCovered += len(fc.covered)
		report.Files = append(report.Files, row)
	}

	report.Total = domain.CoverageRow{
		File:    "total",
		Lines:   totalLines,
		Missed:  totalLines - totalCovered,
		Percent: percent(totalCovered, totalLines),
	}
	return report
}

// percent is covered/executable as a percentage rounded to one decimal
// place; an empty denominator counts as fully covered.
func percent(covered, executable int) float64 {
	if executable == 0 {
		return 100.0
	}
	p := float64(covered) / float64(executable) * 100.0
	return math.Round(p*10) / 10
}
