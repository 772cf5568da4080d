// Package report collects execution results and assembles the final run
// report handed to the presentation layer.
package report

import (
	"sort"
	"sync"
	"time"

	"pypar/internal/domain"
)

// Aggregator gathers every ExecutionResult as workers complete them. Safe
// for concurrent Add calls.
type Aggregator struct {
	mu      sync.Mutex
	results []domain.ExecutionResult

	discoveryErrors []domain.DiscoveryError
	started         time.Time
}

// NewAggregator creates an Aggregator carrying the discovery errors, which
// count against run-level success just like failing tests.
func NewAggregator(discoveryErrors []domain.DiscoveryError) *Aggregator {
	return &Aggregator{
		discoveryErrors: discoveryErrors,
		started:         time.Now(),
	}
}

// Add records one result.
func (a *Aggregator) Add(result domain.ExecutionResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, result)
}

// Count returns how many results have been recorded so far.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Finalize assembles the immutable RunReport. duration is the wall-clock
// span from first dispatch to last completion; coverage may be nil when
// collection was disabled. The failure listing is sorted into discovery
// order so output is reproducible regardless of completion order.
func (a *Aggregator) Finalize(duration time.Duration, workers int, cov *domain.CoverageReport) *domain.RunReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]domain.ExecutionResult, len(a.results))
	copy(results, a.results)

	summary := domain.Summary{Total: len(results)}
	var failures []domain.ExecutionResult
	for _, r := range results {
		switch r.Outcome {
		case domain.Pass:
			summary.Passed++
		case domain.Fail:
			summary.Failed++
		case domain.Error:
			summary.Errors++
		case domain.Skip:
			summary.Skipped++
		case domain.ExpectedFailure:
			summary.ExpectedFailures++
		case domain.UnexpectedSuccess:
			summary.UnexpectedSuccess++
		}
		if r.Outcome.Failing() {
			failures = append(failures, r)
		}
	}
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Item.Index < failures[j].Item.Index
	})

	success := len(failures) == 0 && len(a.discoveryErrors) == 0

	return &domain.RunReport{
		Results:         results,
		Failures:        failures,
		DiscoveryErrors: a.discoveryErrors,
		Coverage:        cov,
		Summary:         summary,
		Success:         success,
		Duration:        duration,
		Workers:         workers,
		Started:         a.started,
	}
}
