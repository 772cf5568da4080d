package execution

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"pypar/internal/coverage"
	"pypar/internal/domain"
	"pypar/internal/report"
)

// Scheduler drains a fixed queue of test items with a fixed set of
// workers. The queue is fully populated before any worker starts, items
// are pulled one at a time, and no ordering is guaranteed between them.
type Scheduler struct {
	pool     *Pool
	workers  int
	failFast bool
	onResult func(domain.ExecutionResult)
}

// NewScheduler creates a Scheduler. workers <= 0 selects the available
// hardware parallelism.
func NewScheduler(pool *Pool, workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{pool: pool, workers: workers}
}

// Workers returns the fixed worker count.
func (s *Scheduler) Workers() int {
	return s.workers
}

// SetFailFast makes the scheduler stop dispatching new items once a
// failing result is seen. Items still queued are recorded as skipped, so
// every discovered item keeps exactly one result.
func (s *Scheduler) SetFailFast(enabled bool) {
	s.failFast = enabled
}

// SetOnResult installs a callback invoked after each completed item, used
// for progress reporting. Called from worker goroutines.
func (s *Scheduler) SetOnResult(fn func(domain.ExecutionResult)) {
	s.onResult = fn
}

// Run executes all items and forwards results and coverage sets to the
// aggregators. It returns the wall-clock span from first dispatch to last
// completion. cov may be nil when coverage is disabled.
func (s *Scheduler) Run(items []domain.TestItem, collectCoverage bool, results *report.Aggregator, cov *coverage.Aggregator) time.Duration {
	queue := make(chan domain.TestItem, len(items))
	for _, item := range items {
		queue <- item
	}
	close(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for item := range queue {
				select {
				case <-ctx.Done():
					res := domain.ExecutionResult{
						Item:    item,
						Outcome: domain.Skip,
						Message: "not run: an earlier test failed (fail-fast)",
					}
					results.Add(res)
					s.notify(res)
					continue
				default:
				}

				res, covSet := s.pool.RunTest(item, collectCoverage && cov != nil)
				results.Add(res)
				if cov != nil && covSet != nil {
					cov.Merge(covSet)
				}
				s.notify(res)

				if s.failFast && res.Outcome.Failing() {
					cancel()
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return time.Since(start)
}

func (s *Scheduler) notify(res domain.ExecutionResult) {
	if s.onResult != nil {
		s.onResult(res)
	}
}
