// Package discovery turns source files into an ordered list of test items
// without executing any user code.
package discovery

import (
	"sort"
	"time"

	"pypar/internal/domain"
)

// Engine runs the full discovery pass: scan paths, parse every candidate
// file, and order the result deterministically.
type Engine struct {
	scanner *Scanner
	parser  *Parser
}

// NewEngine creates an Engine with the given exclude names.
func NewEngine(exclude []string) *Engine {
	return &Engine{
		scanner: NewScanner(exclude),
		parser:  NewParser(),
	}
}

// Result is the complete output of one discovery pass.
type Result struct {
	// Items are sorted by file path, then source line, independent of
	// filesystem iteration order. Item indices follow this order.
	Items  []domain.TestItem
	Errors []domain.DiscoveryError

	// Executable maps each parsed file to its statement-start lines,
	// computed whether or not coverage was requested.
	Executable map[string][]int

	FileCount int
	Duration  time.Duration
}

// Discover scans and parses the given paths. A file that fails to parse is
// recorded as a DiscoveryError and never aborts the pass; only an invalid
// input path is a hard error.
func (e *Engine) Discover(paths []string) (*Result, error) {
	start := time.Now()

	files, err := e.scanner.Scan(paths)
	if err != nil {
		return nil, err
	}

	result := &Result{Executable: make(map[string][]int)}
	for _, file := range files {
		parsed, err := e.parser.ParseFile(file)
		if err != nil {
			result.Errors = append(result.Errors, domain.DiscoveryError{
				File:   file,
				Reason: err.Error(),
			})
			continue
		}
		result.FileCount++
		result.Items = append(result.Items, parsed.Items...)
		result.Executable[file] = parsed.Lines
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		a, b := result.Items[i], result.Items[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.ID() < b.ID()
	})
	for i := range result.Items {
		result.Items[i].Index = i
	}

	result.Duration = time.Since(start)
	return result, nil
}
