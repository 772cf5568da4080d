package domain

import "strings"

// Style says how a discovered test is defined in its source file.
type Style string

const (
	// FreeFunction is a module-level function with the test name prefix.
	FreeFunction Style = "function"
	// MethodOnTestCase is a method defined on a test-case class.
	MethodOnTestCase Style = "method"
)

// TestItem is a single discovered test. It is created during discovery and
// never mutated afterwards; the scheduler consumes each item exactly once.
type TestItem struct {
	File   string `json:"file"`
	Module string `json:"module"`
	Class  string `json:"class,omitempty"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Style  Style  `json:"style"`

	// Markers found on the item during discovery, interpreted at run time.
	Skip          bool   `json:"skip,omitempty"`
	SkipReason    string `json:"skip_reason,omitempty"`
	ExpectFailure bool   `json:"expect_failure,omitempty"`

	// Index is the position of the item in discovery order. Failure listings
	// are sorted by it so output is reproducible regardless of completion order.
	Index int `json:"-"`
}

// ID returns the qualified name of the test within its file
// (Class.method for methods, the bare name for functions).
func (t TestItem) ID() string {
	if t.Class != "" {
		return t.Class + "." + t.Name
	}
	return t.Name
}

// FullName returns module plus qualified name, e.g. "test_users.TestLogin.test_ok".
func (t TestItem) FullName() string {
	parts := []string{t.Module}
	if t.Class != "" {
		parts = append(parts, t.Class)
	}
	parts = append(parts, t.Name)
	return strings.Join(parts, ".")
}
