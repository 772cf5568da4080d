package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all settings for one invocation. Precedence, lowest first:
// built-in defaults, project config file, environment, command-line flags.
type Config struct {
	// Paths are the files or directories to search for tests.
	Paths   []string
	Exclude []string

	// Workers is the fixed worker count; 0 selects hardware parallelism.
	Workers int

	Coverage bool
	FailFast bool
	Filter   string
	JSON     bool

	OutputDir  string
	OutputFile string
}

// Flags holds values parsed from the command line. Zero values mean the
// flag was not provided.
type Flags struct {
	Paths    []string
	Exclude  []string
	Workers  int
	Coverage bool
	FailFast bool
	Filter   string
	JSON     bool
}

// New creates a Config with defaults only.
func New() *Config {
	cfg := &Config{
		Paths:      []string{"."},
		OutputDir:  DefaultOutputDir,
		OutputFile: DefaultOutputFile,
	}
	cfg.Exclude = make([]string, len(DefaultExclude))
	copy(cfg.Exclude, DefaultExclude)
	return cfg
}

// Load builds the effective Config: defaults, then the nearest project
// config file, then environment variables (a .env file is honored), then
// flags.
func Load(flags Flags) *Config {
	cfg := New()

	if file, err := findConfigFile("."); err == nil && file != "" {
		if fc, err := readConfigFile(file); err == nil {
			fc.apply(cfg)
		}
	}

	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()
	if v := os.Getenv("PYPAR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("PYPAR_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if len(flags.Paths) > 0 {
		cfg.Paths = flags.Paths
	}
	if len(flags.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, flags.Exclude...)
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.Coverage {
		cfg.Coverage = true
	}
	if flags.FailFast {
		cfg.FailFast = true
	}
	if flags.Filter != "" {
		cfg.Filter = flags.Filter
	}
	cfg.JSON = flags.JSON

	return cfg
}

// OutputPath returns the absolute path of the results file, so commands
// read and write the same file regardless of cwd changes.
func (c *Config) OutputPath() string {
	p := filepath.Join(c.OutputDir, c.OutputFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
