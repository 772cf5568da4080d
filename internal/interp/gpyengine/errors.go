package gpyengine

import (
	"fmt"
	"strings"

	"github.com/go-python/gpython/py"

	"pypar/internal/interp"
)

// classify converts the error of a test call into a tagged invocation.
// AssertionError maps to the assertion signal, Skip-prefixed exception
// types to the skip signal, everything else to the generic error signal.
func classify(err error) interp.Invocation {
	if err == nil {
		return interp.Invocation{Signal: interp.SignalNone}
	}

	exc, ok := err.(*py.Exception)
	if !ok {
		return interp.Invocation{
			Signal:  interp.SignalOther,
			Kind:    "RuntimeError",
			Message: err.Error(),
		}
	}

	kind := excKind(exc)
	inv := interp.Invocation{
		Kind:    kind,
		Message: excMessage(exc, kind),
		Trace:   tracebackLines(exc),
	}
	switch {
	case kind == "AssertionError":
		inv.Signal = interp.SignalAssertion
	case strings.HasPrefix(kind, "Skip"):
		inv.Signal = interp.SignalSkip
	default:
		inv.Signal = interp.SignalOther
	}
	return inv
}

// fault wraps a non-test error (module evaluation, setUp/tearDown,
// instantiation) with its exception details.
func fault(err error) error {
	if exc, ok := err.(*py.Exception); ok {
		kind := excKind(exc)
		return &interp.Fault{
			Kind:    kind,
			Message: excMessage(exc, kind),
			Trace:   tracebackLines(exc),
		}
	}
	return &interp.Fault{Message: err.Error()}
}

func excKind(exc *py.Exception) string {
	if t := exc.Type(); t != nil {
		return t.Name
	}
	return "Exception"
}

func excMessage(exc *py.Exception, kind string) string {
	msg := exc.Error()
	return strings.TrimPrefix(msg, kind+": ")
}

// tracebackLines renders the exception's traceback innermost-last, one
// frame per line.
func tracebackLines(exc *py.Exception) []string {
	tb, ok := exc.Traceback.(*py.Traceback)
	if !ok {
		return nil
	}

	var lines []string
	for ; tb != nil; tb = tb.Next {
		if tb.Frame == nil || tb.Frame.Code == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%s:%d)",
			tb.Frame.Code.Name, tb.Frame.Code.Filename, tb.Lineno))
	}
	return lines
}
