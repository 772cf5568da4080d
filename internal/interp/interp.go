// Package interp defines the embedding interface between the runner and the
// embedded Python runtime. The execution pool is written purely against
// these interfaces; concrete runtimes live in subpackages.
package interp

import "errors"

var (
	// ErrNotFound is returned by Invoke when the named callable does not
	// exist in the imported module (e.g. the file changed its definitions
	// at runtime after static discovery saw them).
	ErrNotFound = errors.New("interp: callable not found")

	// ErrTraceUnsupported is returned by SetTraceHook on runtimes without
	// a line-trace facility. Coverage then reports no covered lines for
	// tests run on that engine.
	ErrTraceUnsupported = errors.New("interp: line tracing not supported")
)

// Capabilities describes what the active runtime build can do. Queried once
// at startup; scheduler correctness never depends on it, only throughput
// and coverage fidelity do.
type Capabilities struct {
	Version string
	// Parallel is true when instances execute truly in parallel rather
	// than cooperatively interleaved.
	Parallel bool
	// Trace is true when per-instance line trace hooks are available.
	Trace bool
}

// Engine creates isolated runtime instances.
type Engine interface {
	Capabilities() Capabilities
	// NewInstance starts a fresh isolated execution context. It fails if
	// resources are exhausted or the embedding is unavailable.
	NewInstance() (Instance, error)
}

// Signal tags how an invocation ended inside the runtime.
type Signal int

const (
	// SignalNone means the callable returned normally.
	SignalNone Signal = iota
	// SignalAssertion means an assertion-style exception was raised.
	SignalAssertion
	// SignalSkip means a skip-style exception was raised.
	SignalSkip
	// SignalOther means any other uncaught exception was raised.
	SignalOther
)

// Invocation is the tagged outcome of calling a test callable.
type Invocation struct {
	Signal  Signal
	Kind    string // exception class name, empty for SignalNone
	Message string
	Trace   []string

	// Stdout and Stderr hold output captured during the call, on runtimes
	// that can redirect per-instance streams. Empty otherwise.
	Stdout string
	Stderr string
}

// Fault is a runtime error raised outside the test call itself, such as a
// failure while evaluating the module or running setUp/tearDown.
type Fault struct {
	Kind    string
	Message string
	Trace   []string
	Stdout  string
	Stderr  string
}

func (f *Fault) Error() string {
	if f.Kind == "" {
		return f.Message
	}
	return f.Kind + ": " + f.Message
}

// TraceFunc receives one event per execution of a statement-start line.
type TraceFunc func(file string, line int)

// Instance is one isolated execution context. It is owned by exactly one
// worker for its whole lifetime: created immediately before one test,
// destroyed immediately after, never shared or reused.
type Instance interface {
	// Import evaluates the named source file inside the instance. A
	// returned *Fault carries the exception details.
	Import(file string) error

	// Invoke locates and calls the test callable. For methods, class names
	// the test-case class to instantiate; setUp/tearDown run around the
	// call when defined. Errors are reserved for lookup and lifecycle
	// failures; exceptions raised by the test arrive as a tagged Invocation.
	Invoke(class, name string) (Invocation, error)

	// SetTraceHook installs a line-execution hook for the instance.
	SetTraceHook(fn TraceFunc) error
	// ClearTraceHook removes a previously installed hook. Safe to call
	// when no hook is installed.
	ClearTraceHook()

	// Destroy tears the instance down. Called exactly once per created
	// instance, on every outcome path.
	Destroy()
}
