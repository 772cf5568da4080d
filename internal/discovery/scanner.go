package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner finds candidate test files under a set of paths.
type Scanner struct {
	exclude map[string]bool
}

// NewScanner creates a Scanner. exclude entries match directory or file
// base names and are skipped during directory walks.
func NewScanner(exclude []string) *Scanner {
	m := make(map[string]bool)
	for _, e := range exclude {
		m[filepath.Clean(e)] = true
	}
	return &Scanner{exclude: m}
}

// Scan resolves the given paths into a deduplicated, sorted list of
// candidate files. Directories are walked recursively and only files
// matching the test naming convention are kept; files named explicitly
// bypass the convention. A path that does not exist is an error.
func (s *Scanner) Scan(paths []string) ([]string, error) {
	seen := make(map[string]bool)

	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("test path does not exist: %s", p)
		}

		if !info.IsDir() {
			seen[p] = true
			continue
		}

		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if strings.HasPrefix(name, ".") && name != "." {
					return filepath.SkipDir
				}
				if s.exclude[name] {
					return filepath.SkipDir
				}
				return nil
			}
			if s.exclude[name] {
				return nil
			}
			if IsTestFile(name) {
				seen[filepath.Clean(path)] = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// IsTestFile reports whether a file name matches the test naming
// convention: a Python file named test_*.py or *_test.py.
func IsTestFile(name string) bool {
	if !strings.HasSuffix(name, ".py") {
		return false
	}
	stem := strings.TrimSuffix(name, ".py")
	return strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test")
}
