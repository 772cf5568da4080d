// Package gpyengine embeds the gpython interpreter. Every instance is a
// fresh py.Context, so tests get fully isolated module state and run in
// parallel on separate OS threads.
//
// The VM exposes no line-trace hook and no per-context redirection of
// sys.stdout/sys.stderr, so coverage sets and the captured output fields
// of results stay empty on this engine; test output writes through to
// the process streams.
package gpyengine

import (
	"fmt"

	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"

	"pypar/internal/interp"
)

// Engine creates one py.Context per test instance.
type Engine struct{}

// New creates a new Engine.
func New() *Engine {
	return &Engine{}
}

// Capabilities reports the gpython build's abilities. gpython contexts run
// truly in parallel, but the VM exposes no line-trace hook, so coverage
// collected on this engine is always empty.
func (e *Engine) Capabilities() interp.Capabilities {
	return interp.Capabilities{
		Version:  "gpython (Python 3.4 subset)",
		Parallel: true,
		Trace:    false,
	}
}

// NewInstance starts a fresh interpreter context.
func (e *Engine) NewInstance() (interp.Instance, error) {
	ctx := py.NewContext(py.DefaultContextOpts())
	if ctx == nil {
		return nil, fmt.Errorf("gpyengine: context creation failed")
	}
	return &instance{ctx: ctx}, nil
}

type instance struct {
	ctx    py.Context
	module *py.Module
}

// Import evaluates the source file as a module inside this context.
func (i *instance) Import(file string) error {
	module, err := py.RunFile(i.ctx, file, py.CompileOpts{}, nil)
	if err != nil {
		return fault(err)
	}
	i.module = module
	return nil
}

// Invoke calls the named test function, or instantiates class and calls the
// named method with setUp/tearDown around it.
func (i *instance) Invoke(class, name string) (interp.Invocation, error) {
	if i.module == nil {
		return interp.Invocation{}, fmt.Errorf("gpyengine: no module imported")
	}

	target := py.Object(i.module)
	if class != "" {
		cls, err := py.GetAttrString(i.module, class)
		if err != nil {
			return interp.Invocation{}, fmt.Errorf("%w: %s", interp.ErrNotFound, class)
		}
		self, err := py.Call(cls, nil, nil)
		if err != nil {
			return interp.Invocation{}, fault(err)
		}
		target = self
		if err := i.callOptional(self, "setUp"); err != nil {
			return interp.Invocation{}, err
		}
	}

	fn, err := py.GetAttrString(target, name)
	if err != nil {
		return interp.Invocation{}, fmt.Errorf("%w: %s", interp.ErrNotFound, name)
	}
	_, callErr := py.Call(fn, nil, nil)

	if class != "" {
		if tdErr := i.callOptional(target, "tearDown"); tdErr != nil && callErr == nil {
			return interp.Invocation{}, tdErr
		}
	}

	return classify(callErr), nil
}

// callOptional calls a zero-argument method when the object defines it.
func (i *instance) callOptional(obj py.Object, name string) error {
	fn, err := py.GetAttrString(obj, name)
	if err != nil {
		return nil
	}
	if _, err := py.Call(fn, nil, nil); err != nil {
		return fault(err)
	}
	return nil
}

// SetTraceHook is unsupported: the gpython VM has no line-event facility.
func (i *instance) SetTraceHook(interp.TraceFunc) error {
	return interp.ErrTraceUnsupported
}

func (i *instance) ClearTraceHook() {}

// Destroy closes the context. The instance must not be used afterwards.
func (i *instance) Destroy() {
	_ = i.ctx.Close()
	i.module = nil
}
