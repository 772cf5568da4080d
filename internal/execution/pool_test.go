package execution

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pypar/internal/domain"
	"pypar/internal/interp"
	"pypar/internal/interp/interptest"
)

func item(file, class, name string) domain.TestItem {
	style := domain.FreeFunction
	if class != "" {
		style = domain.MethodOnTestCase
	}
	return domain.TestItem{File: file, Module: "m", Class: class, Name: name, Style: style}
}

func TestPool_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		item     domain.TestItem
		behavior interptest.Behavior
		want     domain.Outcome
	}{
		{
			name:     "normal return is a pass",
			item:     item("/t/test_a.py", "", "test_ok"),
			behavior: interptest.Behavior{Signal: interp.SignalNone},
			want:     domain.Pass,
		},
		{
			name:     "assertion signal is a fail",
			item:     item("/t/test_a.py", "TestX", "test_assert"),
			behavior: interptest.Behavior{Signal: interp.SignalAssertion, Kind: "AssertionError", Message: "1 != 2"},
			want:     domain.Fail,
		},
		{
			name:     "other signal is an error",
			item:     item("/t/test_a.py", "", "test_boom"),
			behavior: interptest.Behavior{Signal: interp.SignalOther, Kind: "TypeError", Message: "bad call"},
			want:     domain.Error,
		},
		{
			name:     "skip signal is a skip",
			item:     item("/t/test_a.py", "", "test_later"),
			behavior: interptest.Behavior{Signal: interp.SignalSkip, Message: "not today"},
			want:     domain.Skip,
		},
		{
			name:     "missing callable is an error",
			item:     item("/t/test_a.py", "", "test_gone"),
			behavior: interptest.Behavior{NotFound: true},
			want:     domain.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := interptest.NewEngine()
			engine.Stub(tt.item.File, tt.item.ID(), tt.behavior)
			pool := NewPool(engine, []string{"/t"})

			res, _ := pool.RunTest(tt.item, false)

			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, 1, engine.Created())
			assert.Equal(t, 1, engine.Destroyed(), "instance must be destroyed on every path")
		})
	}
}

func TestPool_ExpectedFailurePolicy(t *testing.T) {
	engine := interptest.NewEngine()
	engine.Stub("/t/test_a.py", "test_bad", interptest.Behavior{Signal: interp.SignalAssertion, Kind: "AssertionError"})
	engine.Stub("/t/test_a.py", "test_fine", interptest.Behavior{Signal: interp.SignalNone})
	pool := NewPool(engine, []string{"/t"})

	xfail := item("/t/test_a.py", "", "test_bad")
	xfail.ExpectFailure = true
	res, _ := pool.RunTest(xfail, false)
	assert.Equal(t, domain.ExpectedFailure, res.Outcome)
	assert.False(t, res.Outcome.Failing())

	surprise := item("/t/test_a.py", "", "test_fine")
	surprise.ExpectFailure = true
	res, _ = pool.RunTest(surprise, false)
	assert.Equal(t, domain.UnexpectedSuccess, res.Outcome)
	assert.True(t, res.Outcome.Failing())
}

func TestPool_SkipMarkerShortCircuits(t *testing.T) {
	engine := interptest.NewEngine()
	pool := NewPool(engine, []string{"/t"})

	skipped := item("/t/test_a.py", "", "test_off")
	skipped.Skip = true
	skipped.SkipReason = "disabled upstream"

	res, cov := pool.RunTest(skipped, true)

	assert.Equal(t, domain.Skip, res.Outcome)
	assert.Equal(t, "disabled upstream", res.Message)
	assert.Nil(t, cov)
	assert.Equal(t, 0, engine.Created(), "skip must not start an instance")
}

func TestPool_CreationFailureIsContained(t *testing.T) {
	engine := interptest.NewEngine()
	engine.FailNextCreate(errors.New("out of resources"))
	pool := NewPool(engine, []string{"/t"})

	res, cov := pool.RunTest(item("/t/test_a.py", "", "test_ok"), true)

	assert.Equal(t, domain.Error, res.Outcome)
	assert.Equal(t, "InstanceError", res.Kind)
	assert.Contains(t, res.Message, "out of resources")
	assert.Nil(t, cov)
}

func TestPool_PanicIsContainedAndInstanceDestroyed(t *testing.T) {
	engine := interptest.NewEngine()
	engine.Stub("/t/test_a.py", "test_crash", interptest.Behavior{Panic: true})
	pool := NewPool(engine, []string{"/t"})

	var res domain.ExecutionResult
	require.NotPanics(t, func() {
		res, _ = pool.RunTest(item("/t/test_a.py", "", "test_crash"), false)
	})

	assert.Equal(t, domain.Error, res.Outcome)
	assert.Equal(t, "RuntimePanic", res.Kind)
	assert.Equal(t, 1, engine.Created())
	assert.Equal(t, 1, engine.Destroyed(), "panicking invocation must still destroy the instance")
}

func TestPool_ImportFaultIsModuleError(t *testing.T) {
	engine := interptest.NewEngine()
	engine.StubImportFault("/t/test_a.py", &interp.Fault{Kind: "ImportError", Message: "no module named missing"})
	pool := NewPool(engine, []string{"/t"})

	res, _ := pool.RunTest(item("/t/test_a.py", "", "test_ok"), false)

	assert.Equal(t, domain.Error, res.Outcome)
	assert.Equal(t, "ImportError", res.Kind)
	assert.Equal(t, 1, engine.Destroyed())
}

func TestPool_CoverageScopedToRoots(t *testing.T) {
	engine := interptest.NewEngine()
	engine.Stub("/t/test_a.py", "test_cov", interptest.Behavior{
		Signal: interp.SignalNone,
		Lines: map[string][]int{
			"/t/lib.py":           {1, 2, 2, 5},
			"/elsewhere/other.py": {3},
		},
	})
	pool := NewPool(engine, []string{"/t"})

	_, cov := pool.RunTest(item("/t/test_a.py", "", "test_cov"), true)

	require.NotNil(t, cov)
	require.Contains(t, cov, "/t/lib.py")
	assert.Len(t, cov["/t/lib.py"], 3, "repeated line executions collapse")
	assert.NotContains(t, cov, "/elsewhere/other.py", "files outside roots are not recorded")
}

func TestPool_CoverageRelativeRoot(t *testing.T) {
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
	wd, err := os.Getwd()
	require.NoError(t, err)

	// The default run path hands the scanner's relative paths straight to
	// the pool; a root of "." must still match trace events, whether the
	// runtime reports files relative to the working directory or absolute.
	engine := interptest.NewEngine()
	engine.Stub("test_a.py", "test_cov", interptest.Behavior{
		Signal: interp.SignalNone,
		Lines: map[string][]int{
			"lib.py":                      {1, 2},
			filepath.Join(wd, "other.py"): {4},
			"/elsewhere/out_of_root.py":   {9},
		},
	})
	pool := NewPool(engine, []string{"."})

	_, cov := pool.RunTest(item("test_a.py", "", "test_cov"), true)

	require.Contains(t, cov, "lib.py")
	assert.Len(t, cov["lib.py"], 2)
	assert.Contains(t, cov, filepath.Join(wd, "other.py"))
	assert.NotContains(t, cov, "/elsewhere/out_of_root.py")
}

func TestPool_CoverageUnsupportedEngine(t *testing.T) {
	engine := interptest.NewEngine()
	engine.SetCapabilities(interp.Capabilities{Version: "no-trace", Parallel: true, Trace: false})
	engine.Stub("/t/test_a.py", "test_ok", interptest.Behavior{Signal: interp.SignalNone})
	pool := NewPool(engine, []string{"/t"})

	res, cov := pool.RunTest(item("/t/test_a.py", "", "test_ok"), true)

	assert.Equal(t, domain.Pass, res.Outcome)
	assert.Nil(t, cov)
}
