package domain

import "time"

// Outcome classifies the result of running one test item.
type Outcome string

const (
	Pass              Outcome = "pass"
	Fail              Outcome = "fail"
	Error             Outcome = "error"
	Skip              Outcome = "skip"
	ExpectedFailure   Outcome = "expected_failure"
	UnexpectedSuccess Outcome = "unexpected_success"
)

// Failing reports whether the outcome counts against run-level success.
// ExpectedFailure is non-failing by policy, UnexpectedSuccess is failing.
func (o Outcome) Failing() bool {
	return o == Fail || o == Error || o == UnexpectedSuccess
}

// ExecutionResult is the result of executing a single TestItem inside its
// own runtime instance. Exactly one is produced per discovered item, even
// when the instance itself could not be created.
type ExecutionResult struct {
	Item    TestItem `json:"item"`
	Outcome Outcome  `json:"outcome"`

	// Kind is the runtime's name for the signal that ended the test,
	// e.g. "AssertionError" or "TypeError". Empty on Pass and Skip.
	Kind    string   `json:"kind,omitempty"`
	Message string   `json:"message,omitempty"`
	Trace   []string `json:"trace,omitempty"`
	Stdout  string   `json:"stdout,omitempty"`
	Stderr  string   `json:"stderr,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}
