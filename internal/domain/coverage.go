package domain

// CoverageSet records which lines ran during one test: file path to the set
// of statement-start lines executed. It is handed to the aggregator after
// the test's instance is destroyed and then discarded.
type CoverageSet map[string]map[int]struct{}

// Add records one executed line. Repeated executions of the same line
// collapse into a single entry.
func (c CoverageSet) Add(file string, line int) {
	lines, ok := c[file]
	if !ok {
		lines = make(map[int]struct{})
		c[file] = lines
	}
	lines[line] = struct{}{}
}

// CoverageRow is one file's coverage in the final report.
type CoverageRow struct {
	File string `json:"file"`
	// Lines is the number of executable (statement-start) lines.
	Lines  int `json:"lines"`
	Missed int `json:"missed"`
	// Percent is covered/executable, rounded to one decimal place.
	// Files with no executable lines report 100.
	Percent float64 `json:"percent"`
}

// CoverageReport is the aggregated coverage table, sorted by file path.
type CoverageReport struct {
	Files []CoverageRow `json:"files"`
	Total CoverageRow   `json:"total"`
}
