package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test so Load resolves the
// project config file against a controlled tree.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultOutputFile, cfg.OutputFile)
	assert.Contains(t, cfg.Exclude, "venv")
	assert.Contains(t, cfg.Exclude, "__pycache__")
	assert.Equal(t, 0, cfg.Workers)
	assert.False(t, cfg.Coverage)
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
include:
  - tests
exclude:
  - fixtures
workers: 3
coverage: true
fail_fast: true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0644))
	chdir(t, tmpDir)

	cfg := Load(Flags{})

	assert.Equal(t, []string{"tests"}, cfg.Paths)
	assert.Contains(t, cfg.Exclude, "fixtures")
	assert.Contains(t, cfg.Exclude, "venv", "file excludes extend the defaults")
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Coverage)
	assert.True(t, cfg.FailFast)
}

func TestLoad_ConfigFileInParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("workers: 7\n"), 0644))
	chdir(t, nested)

	cfg := Load(Flags{})
	assert.Equal(t, 7, cfg.Workers)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("workers: 3\n"), 0644))
	chdir(t, tmpDir)
	t.Setenv("PYPAR_WORKERS", "6")
	t.Setenv("PYPAR_OUTPUT_DIR", filepath.Join(tmpDir, "out"))

	cfg := Load(Flags{})

	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, filepath.Join(tmpDir, "out"), cfg.OutputDir)
}

func TestLoad_FlagsWin(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("workers: 3\ninclude:\n  - tests\n"), 0644))
	chdir(t, tmpDir)
	t.Setenv("PYPAR_WORKERS", "6")

	cfg := Load(Flags{
		Paths:   []string{"other"},
		Workers: 9,
		Filter:  "users",
		JSON:    true,
	})

	assert.Equal(t, []string{"other"}, cfg.Paths)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, "users", cfg.Filter)
	assert.True(t, cfg.JSON)
}

func TestLoad_InvalidWorkersEnvIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PYPAR_WORKERS", "not-a-number")

	cfg := Load(Flags{})
	assert.Equal(t, 0, cfg.Workers)
}

func TestConfig_OutputPath(t *testing.T) {
	cfg := New()
	cfg.OutputDir = t.TempDir()
	cfg.OutputFile = "results.json"

	path := cfg.OutputPath()
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(cfg.OutputDir, "results.json"), path)
}
