package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	"pypar/internal/domain"
)

// testCaseBases are the base-class identifiers that mark a class as a test
// case. Resolution is purely static: a class inheriting through a
// dynamically computed or aliased base is not detected.
var testCaseBases = map[string]bool{
	"TestCase": true,
}

// maxBaseDepth bounds how many same-file inheritance hops are followed when
// resolving a class to a known test-case base.
const maxBaseDepth = 5

// Parser statically extracts test items and executable lines from a Python
// source file. No statement of the file is ever evaluated.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// FileTests is everything discovery learns about one parsed file.
type FileTests struct {
	Items []domain.TestItem
	// Lines are the statement-start line numbers of the file, sorted.
	// They form the denominator for coverage percentages.
	Lines []int
}

// ParseFile parses one source file and returns its test items and
// executable lines. A parse failure is returned as an error and must not
// abort discovery of other files.
func (p *Parser) ParseFile(path string) (*FileTests, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	tree, err := parser.Parse(f, path, py.ExecMode)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	module, ok := tree.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("parse %s: not a module", path)
	}

	moduleName := strings.TrimSuffix(filepath.Base(path), ".py")
	result := &FileTests{}

	// Top-level classes are indexed first so base chains can be resolved
	// regardless of definition order.
	classes := make(map[string]*ast.ClassDef)
	for _, stmt := range module.Body {
		if class, ok := stmt.(*ast.ClassDef); ok {
			classes[string(class.Name)] = class
		}
	}

	for _, stmt := range module.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			name := string(s.Name)
			if !strings.HasPrefix(name, "test") || requiredParams(s.Args, false) > 0 {
				continue
			}
			item := domain.TestItem{
				File:   path,
				Module: moduleName,
				Name:   name,
				Line:   s.GetLineno(),
				Style:  domain.FreeFunction,
			}
			applyMarkers(&item, s.DecoratorList)
			result.Items = append(result.Items, item)

		case *ast.ClassDef:
			if !isTestCase(s, classes, 0) {
				continue
			}
			classSkip, classReason, classXfail := markers(s.DecoratorList)
			for _, inner := range s.Body {
				method, ok := inner.(*ast.FunctionDef)
				if !ok {
					continue
				}
				name := string(method.Name)
				if !strings.HasPrefix(name, "test") || requiredParams(method.Args, true) > 0 {
					continue
				}
				item := domain.TestItem{
					File:          path,
					Module:        moduleName,
					Class:         string(s.Name),
					Name:          name,
					Line:          method.GetLineno(),
					Style:         domain.MethodOnTestCase,
					Skip:          classSkip,
					SkipReason:    classReason,
					ExpectFailure: classXfail,
				}
				applyMarkers(&item, method.DecoratorList)
				result.Items = append(result.Items, item)
			}
		}
	}

	lines := make(map[int]struct{})
	statementLines(module.Body, lines)
	result.Lines = make([]int, 0, len(lines))
	for line := range lines {
		result.Lines = append(result.Lines, line)
	}
	sort.Ints(result.Lines)

	return result, nil
}

// isTestCase resolves whether a class is a test case by matching its base
// identifiers, following same-file base classes up to maxBaseDepth hops.
func isTestCase(class *ast.ClassDef, classes map[string]*ast.ClassDef, depth int) bool {
	if depth > maxBaseDepth {
		return false
	}
	for _, base := range class.Bases {
		switch b := base.(type) {
		case *ast.Name:
			id := string(b.Id)
			if testCaseBases[id] {
				return true
			}
			if parent, ok := classes[id]; ok && parent != class {
				if isTestCase(parent, classes, depth+1) {
					return true
				}
			}
		case *ast.Attribute:
			// unittest.TestCase and similar dotted forms.
			if testCaseBases[string(b.Attr)] {
				return true
			}
		}
	}
	return false
}

// requiredParams counts parameters without defaults. Methods discount the
// self receiver. Items with required parameters are not collectable: the
// runner has nothing to bind them to.
func requiredParams(args *ast.Arguments, method bool) int {
	if args == nil {
		return 0
	}
	n := len(args.Args) - len(args.Defaults)
	if method {
		n--
	}
	if n < 0 {
		n = 0
	}
	return n
}

// applyMarkers folds decorator markers into the item without overwriting
// markers inherited from the class.
func applyMarkers(item *domain.TestItem, decorators []ast.Expr) {
	skip, reason, xfail := markers(decorators)
	if skip {
		item.Skip = true
		item.SkipReason = reason
	}
	if xfail {
		item.ExpectFailure = true
	}
}

// markers recognizes skip and expected-failure decorators in both unittest
// and pytest spellings. The markers are recorded now and interpreted at
// run time; the decorator expression itself is never executed.
func markers(decorators []ast.Expr) (skip bool, reason string, xfail bool) {
	for _, dec := range decorators {
		name, call := decoratorName(dec)
		switch name {
		case "skip", "skipIf", "skipUnless":
			skip = true
			if call != nil {
				reason = skipReason(name, call)
			}
		case "expectedFailure", "xfail":
			xfail = true
		}
	}
	return skip, reason, xfail
}

// decoratorName returns the rightmost identifier of a decorator expression
// (so @skip, @unittest.skip and @pytest.mark.skip all resolve to "skip")
// and the call node when the decorator has arguments.
func decoratorName(expr ast.Expr) (string, *ast.Call) {
	var call *ast.Call
	if c, ok := expr.(*ast.Call); ok {
		call = c
		expr = c.Func
	}
	switch e := expr.(type) {
	case *ast.Name:
		// gpython's parser keeps dotted decorator names as a single
		// identifier (e.g. Name(id='unittest.skip')); take the
		// rightmost segment.
		id := string(e.Id)
		if i := strings.LastIndex(id, "."); i >= 0 {
			id = id[i+1:]
		}
		return id, call
	case *ast.Attribute:
		return string(e.Attr), call
	}
	return "", call
}

// skipReason pulls the human reason out of a skip decorator call. For
// @skip the reason is the first argument; for @skipIf/@skipUnless it is
// the second, with a reason= keyword accepted everywhere.
func skipReason(name string, call *ast.Call) string {
	argIndex := 0
	if name == "skipIf" || name == "skipUnless" {
		argIndex = 1
	}
	if len(call.Args) > argIndex {
		if s, ok := call.Args[argIndex].(*ast.Str); ok {
			return string(s.S)
		}
	}
	for _, kw := range call.Keywords {
		if string(kw.Arg) == "reason" {
			if s, ok := kw.Value.(*ast.Str); ok {
				return string(s.S)
			}
		}
	}
	return ""
}

// statementLines collects the starting line of every statement, recursing
// into nested bodies. Multi-line statements count their first physical
// line only; the trace hook records events at the same granularity so the
// numerator and denominator stay consistent.
func statementLines(body []ast.Stmt, lines map[int]struct{}) {
	for _, stmt := range body {
		lines[stmt.GetLineno()] = struct{}{}

		switch s := stmt.(type) {
		case *ast.FunctionDef:
			statementLines(s.Body, lines)
		case *ast.ClassDef:
			statementLines(s.Body, lines)
		case *ast.If:
			statementLines(s.Body, lines)
			statementLines(s.Orelse, lines)
		case *ast.For:
			statementLines(s.Body, lines)
			statementLines(s.Orelse, lines)
		case *ast.While:
			statementLines(s.Body, lines)
			statementLines(s.Orelse, lines)
		case *ast.With:
			statementLines(s.Body, lines)
		case *ast.Try:
			statementLines(s.Body, lines)
			for _, handler := range s.Handlers {
				lines[handler.GetLineno()] = struct{}{}
				statementLines(handler.Body, lines)
			}
			statementLines(s.Orelse, lines)
			statementLines(s.Finalbody, lines)
		}
	}
}
