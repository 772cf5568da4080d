package domain

import "time"

// DiscoveryError records a candidate file that could not be parsed.
// It never aborts discovery of the remaining files, but it does make
// the overall run fail.
type DiscoveryError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Summary holds per-outcome counts for a run.
type Summary struct {
	Total             int `json:"total"`
	Passed            int `json:"passed"`
	Failed            int `json:"failed"`
	Errors            int `json:"errors"`
	Skipped           int `json:"skipped"`
	ExpectedFailures  int `json:"expected_failures"`
	UnexpectedSuccess int `json:"unexpected_success"`
}

// RunReport is the final immutable snapshot of one invocation. The core
// produces it; presentation layers only read it.
type RunReport struct {
	Results         []ExecutionResult `json:"results"`
	Failures        []ExecutionResult `json:"failures"`
	DiscoveryErrors []DiscoveryError  `json:"discovery_errors,omitempty"`
	Coverage        *CoverageReport   `json:"coverage,omitempty"`
	Summary         Summary           `json:"summary"`

	// Success holds iff no result is failing and discovery saw no errors.
	Success bool `json:"success"`

	// Duration is the wall-clock span from first dispatch to last
	// completion, not the sum of per-test durations.
	Duration time.Duration `json:"duration_ns"`
	Workers  int           `json:"workers"`
	Started  time.Time     `json:"started"`
}
