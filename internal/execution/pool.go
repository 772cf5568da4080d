// Package execution runs discovered tests, each inside its own freshly
// created runtime instance.
package execution

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pypar/internal/domain"
	"pypar/internal/interp"
)

// Pool performs the one atomic execution operation: acquire a fresh
// isolated instance, import the test's module, invoke the callable, and
// unconditionally destroy the instance — on every outcome path, including
// a panicking runtime.
type Pool struct {
	engine interp.Engine
	roots  []string
}

// NewPool creates a Pool. roots scope the coverage trace hook: only files
// under the discovered roots are recorded. Roots are resolved to absolute
// paths so a relative root like "." matches events however the runtime
// spells the file path.
func NewPool(engine interp.Engine, roots []string) *Pool {
	resolved := make([]string, 0, len(roots))
	for _, r := range roots {
		resolved = append(resolved, absPath(r))
	}
	return &Pool{engine: engine, roots: resolved}
}

// RunTest executes one item in a fresh instance and returns exactly one
// result, plus the coverage set when collection was requested and the
// engine supports tracing. It never panics and never lets an instance
// outlive the call.
func (p *Pool) RunTest(item domain.TestItem, collectCoverage bool) (res domain.ExecutionResult, cov domain.CoverageSet) {
	res = domain.ExecutionResult{Item: item}

	// Skip markers recorded at discovery are honored without starting an
	// instance; there is nothing to execute.
	if item.Skip {
		res.Outcome = domain.Skip
		res.Message = item.SkipReason
		return res, nil
	}

	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
	}()

	inst, err := p.engine.NewInstance()
	if err != nil {
		res.Outcome = domain.Error
		res.Kind = "InstanceError"
		res.Message = fmt.Sprintf("could not create runtime instance: %v", err)
		return res, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = domain.ExecutionResult{
				Item:    item,
				Outcome: domain.Error,
				Kind:    "RuntimePanic",
				Message: fmt.Sprint(r),
			}
			cov = nil
		}
	}()
	defer destroy(inst)

	if collectCoverage {
		set := make(domain.CoverageSet)
		err := inst.SetTraceHook(func(file string, line int) {
			if p.inRoots(file) {
				set.Add(file, line)
			}
		})
		if err == nil {
			cov = set
			defer inst.ClearTraceHook()
		}
	}

	if err := inst.Import(item.File); err != nil {
		fillFault(&res, err)
		return res, cov
	}

	inv, err := inst.Invoke(item.Class, item.Name)
	if err != nil {
		if errors.Is(err, interp.ErrNotFound) {
			res.Outcome = domain.Error
			res.Kind = "TestNotFound"
			res.Message = fmt.Sprintf("%s was discovered but not found at run time", item.ID())
		} else {
			fillFault(&res, err)
		}
		return res, cov
	}

	res.Kind = inv.Kind
	res.Message = inv.Message
	res.Trace = inv.Trace
	res.Stdout = inv.Stdout
	res.Stderr = inv.Stderr

	switch inv.Signal {
	case interp.SignalNone:
		if item.ExpectFailure {
			res.Outcome = domain.UnexpectedSuccess
			res.Message = "expected test to fail, but it passed"
		} else {
			res.Outcome = domain.Pass
		}
	case interp.SignalSkip:
		res.Outcome = domain.Skip
	case interp.SignalAssertion:
		if item.ExpectFailure {
			res.Outcome = domain.ExpectedFailure
		} else {
			res.Outcome = domain.Fail
		}
	default:
		if item.ExpectFailure {
			res.Outcome = domain.ExpectedFailure
		} else {
			res.Outcome = domain.Error
		}
	}
	return res, cov
}

// fillFault classifies a non-test runtime failure (module evaluation,
// setUp/tearDown, instantiation) as an Error result.
func fillFault(res *domain.ExecutionResult, err error) {
	res.Outcome = domain.Error
	var fault *interp.Fault
	if errors.As(err, &fault) {
		res.Kind = fault.Kind
		res.Message = fault.Message
		res.Trace = fault.Trace
		res.Stdout = fault.Stdout
		res.Stderr = fault.Stderr
		return
	}
	res.Kind = "RuntimeError"
	res.Message = err.Error()
}

// destroy tears an instance down, containing any panic so the worker and
// its remaining queue items are unaffected by a corrupted instance.
func destroy(inst interp.Instance) {
	defer func() {
		_ = recover()
	}()
	inst.Destroy()
}

func (p *Pool) inRoots(file string) bool {
	file = absPath(file)
	for _, root := range p.roots {
		if file == root || strings.HasPrefix(file, root+string(filepath.Separator)) {
			return true
		}
	}
	return len(p.roots) == 0
}

// absPath resolves p against the working directory; on resolution failure
// the cleaned input is used as-is.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
