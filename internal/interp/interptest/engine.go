// Package interptest provides a scripted in-memory Engine for tests. It
// lets execution-layer tests exercise every outcome path, instance
// lifecycle rule and trace behavior without a real interpreter.
package interptest

import (
	"sync"
	"time"

	"pypar/internal/interp"
)

// Behavior scripts what happens when one test callable is invoked.
type Behavior struct {
	Signal  interp.Signal
	Kind    string
	Message string
	Stdout  string
	Stderr  string

	// NotFound makes Invoke report a missing callable.
	NotFound bool
	// Panic makes Invoke panic, simulating a corrupted instance.
	Panic bool
	// Delay is slept before returning, for concurrency tests.
	Delay time.Duration
	// Lines are emitted to the trace hook before the invocation returns.
	Lines map[string][]int

	// Run, when set, is called with the instance's private state and its
	// result wins over the static fields above. State is fresh per
	// instance, so cross-test leakage is observable as a shared count.
	Run func(state map[string]int) interp.Invocation
}

// Engine is a scripted implementation of interp.Engine.
type Engine struct {
	mu           sync.Mutex
	behaviors    map[string]Behavior
	importFaults map[string]*interp.Fault
	createErrs   []error

	created   int
	destroyed int
	live      int
	maxLive   int

	caps interp.Capabilities
}

// NewEngine creates an Engine with parallel execution and tracing enabled.
func NewEngine() *Engine {
	return &Engine{
		behaviors:    make(map[string]Behavior),
		importFaults: make(map[string]*interp.Fault),
		caps:         interp.Capabilities{Version: "interptest", Parallel: true, Trace: true},
	}
}

// SetCapabilities overrides the reported capabilities.
func (e *Engine) SetCapabilities(caps interp.Capabilities) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caps = caps
}

// Stub scripts the behavior for one callable. id is the qualified name
// within the file ("test_fn" or "Class.test_method").
func (e *Engine) Stub(file, id string, b Behavior) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.behaviors[file+"::"+id] = b
}

// StubImportFault makes every Import of file fail with the given fault.
func (e *Engine) StubImportFault(file string, f *interp.Fault) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.importFaults[file] = f
}

// FailNextCreate queues an error for the next NewInstance call.
func (e *Engine) FailNextCreate(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.createErrs = append(e.createErrs, err)
}

// Capabilities implements interp.Engine.
func (e *Engine) Capabilities() interp.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps
}

// NewInstance implements interp.Engine.
func (e *Engine) NewInstance() (interp.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.createErrs) > 0 {
		err := e.createErrs[0]
		e.createErrs = e.createErrs[1:]
		return nil, err
	}
	e.created++
	e.live++
	if e.live > e.maxLive {
		e.maxLive = e.live
	}
	return &Instance{engine: e, state: make(map[string]int)}, nil
}

// Created returns how many instances have been started.
func (e *Engine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

// Destroyed returns how many instances have been torn down.
func (e *Engine) Destroyed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Live returns how many instances currently exist.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// MaxLive returns the peak number of simultaneously live instances.
func (e *Engine) MaxLive() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxLive
}

// Instance is one scripted execution context.
type Instance struct {
	engine    *Engine
	file      string
	hook      interp.TraceFunc
	destroyed bool
	state     map[string]int
}

// Import implements interp.Instance.
func (i *Instance) Import(file string) error {
	if i.destroyed {
		panic("interptest: Import on destroyed instance")
	}
	i.engine.mu.Lock()
	f := i.engine.importFaults[file]
	i.engine.mu.Unlock()
	if f != nil {
		return f
	}
	i.file = file
	return nil
}

// Invoke implements interp.Instance.
func (i *Instance) Invoke(class, name string) (interp.Invocation, error) {
	if i.destroyed {
		panic("interptest: Invoke on destroyed instance")
	}
	id := name
	if class != "" {
		id = class + "." + name
	}
	i.engine.mu.Lock()
	b, ok := i.engine.behaviors[i.file+"::"+id]
	i.engine.mu.Unlock()
	if !ok {
		return interp.Invocation{Signal: interp.SignalNone}, nil
	}

	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}
	if b.NotFound {
		return interp.Invocation{}, interp.ErrNotFound
	}
	if b.Panic {
		panic("interptest: scripted panic in " + id)
	}
	if i.hook != nil {
		for file, lines := range b.Lines {
			for _, line := range lines {
				i.hook(file, line)
			}
		}
	}
	if b.Run != nil {
		return b.Run(i.state), nil
	}
	return interp.Invocation{
		Signal:  b.Signal,
		Kind:    b.Kind,
		Message: b.Message,
		Stdout:  b.Stdout,
		Stderr:  b.Stderr,
	}, nil
}

// SetTraceHook implements interp.Instance.
func (i *Instance) SetTraceHook(fn interp.TraceFunc) error {
	if !i.engine.Capabilities().Trace {
		return interp.ErrTraceUnsupported
	}
	i.hook = fn
	return nil
}

// ClearTraceHook implements interp.Instance.
func (i *Instance) ClearTraceHook() {
	i.hook = nil
}

// Destroy implements interp.Instance. Destroying twice panics so lifecycle
// bugs surface in tests.
func (i *Instance) Destroy() {
	if i.destroyed {
		panic("interptest: instance destroyed twice")
	}
	i.destroyed = true
	i.engine.mu.Lock()
	i.engine.destroyed++
	i.engine.live--
	i.engine.mu.Unlock()
}
