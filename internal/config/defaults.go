package config

const (
	// DefaultOutputDir is where run results are persisted.
	DefaultOutputDir = ".pypar"
	// DefaultOutputFile is the results file name inside DefaultOutputDir.
	DefaultOutputFile = "results.json"
	// ConfigFileName is the optional per-project configuration file.
	ConfigFileName = ".pypar.yml"
)

// DefaultExclude are directory names skipped when scanning for test files.
var DefaultExclude = []string{
	"venv",
	".venv",
	"env",
	"node_modules",
	"__pycache__",
	"site-packages",
	"build",
	"dist",
}
