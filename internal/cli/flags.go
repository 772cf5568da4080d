package cli

import "pypar/internal/config"

// Flags holds command-line flag values before they are folded into the
// effective config.
type Flags struct {
	Exclude  []string
	Workers  int
	Coverage bool
	FailFast bool
	Filter   string
	JSON     bool
}

// ToConfigFlags converts CLI flags plus positional path arguments to
// config flags.
func (f *Flags) ToConfigFlags(paths []string) config.Flags {
	return config.Flags{
		Paths:    paths,
		Exclude:  f.Exclude,
		Workers:  f.Workers,
		Coverage: f.Coverage,
		FailFast: f.FailFast,
		Filter:   f.Filter,
		JSON:     f.JSON,
	}
}
