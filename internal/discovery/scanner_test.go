package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"tests/test_users.py",
		"tests/test_orders.py",
		"tests/api/payments_test.py",
		"tests/helpers.py",
		"venv/lib/test_vendored.py",
		".git/test_hidden.py",
		"readme.md",
	}
	for _, f := range files {
		writeFile(t, filepath.Join(tmpDir, f), "x = 1\n")
	}

	scanner := NewScanner([]string{"venv"})

	t.Run("selects files by naming convention", func(t *testing.T) {
		results, err := scanner.Scan([]string{tmpDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 test files, got %d: %v", len(results), results)
		}
	})

	t.Run("explicit file bypasses the naming filter", func(t *testing.T) {
		helper := filepath.Join(tmpDir, "tests", "helpers.py")
		results, err := scanner.Scan([]string{helper})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0] != helper {
			t.Errorf("expected [%s], got %v", helper, results)
		}
	})

	t.Run("deduplicates overlapping paths", func(t *testing.T) {
		results, err := scanner.Scan([]string{
			tmpDir,
			filepath.Join(tmpDir, "tests"),
			filepath.Join(tmpDir, "tests", "test_users.py"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 deduplicated files, got %d: %v", len(results), results)
		}
	})

	t.Run("output is sorted regardless of input order", func(t *testing.T) {
		a, err := scanner.Scan([]string{filepath.Join(tmpDir, "tests"), tmpDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := scanner.Scan([]string{tmpDir, filepath.Join(tmpDir, "tests")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(a) != len(b) {
			t.Fatalf("expected identical results, got %v and %v", a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("result %d differs: %s vs %s", i, a[i], b[i])
			}
		}
	})

	t.Run("returns error for non-existent path", func(t *testing.T) {
		_, err := scanner.Scan([]string{"/non/existent/path"})
		if err == nil {
			t.Error("expected error for non-existent path")
		}
	})
}

func TestIsTestFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"test_users.py", true},
		{"users_test.py", true},
		{"test_.py", true},
		{"users.py", false},
		{"test_users.txt", false},
		{"conftest.py", false},
	}
	for _, tc := range cases {
		if got := IsTestFile(tc.name); got != tc.want {
			t.Errorf("IsTestFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
