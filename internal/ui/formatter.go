package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"pypar/internal/domain"
)

// Formatter renders a finished run report to the terminal.
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a Formatter writing to stdout.
func NewFormatter() *Formatter {
	return &Formatter{out: os.Stdout}
}

// PrintDiscovered announces what discovery found before execution starts.
func (f *Formatter) PrintDiscovered(tests, files, parseErrors int, d time.Duration) {
	fmt.Fprintf(f.out, "Found %d tests in %d files (%.2fs)\n", tests, files, d.Seconds())
	if parseErrors > 0 {
		color.New(color.FgRed).Fprintf(f.out, "%d file(s) failed to parse\n", parseErrors)
	}
}

// PrintReport renders the failure listing, discovery errors, summary and
// coverage table of one run.
func (f *Formatter) PrintReport(report *domain.RunReport) {
	for _, failure := range report.Failures {
		f.printFailure(failure)
	}
	for _, derr := range report.DiscoveryErrors {
		color.New(color.FgRed, color.Bold).Fprint(f.out, "\nPARSE ERROR: ")
		color.New(color.FgCyan).Fprintln(f.out, derr.File)
		fmt.Fprintf(f.out, "  %s\n", derr.Reason)
	}

	f.printSummary(report)

	if report.Coverage != nil {
		f.printCoverage(report.Coverage)
	}
}

func (f *Formatter) printFailure(res domain.ExecutionResult) {
	label := "FAIL"
	if res.Outcome == domain.Error {
		label = "ERROR"
	}
	color.New(color.FgRed, color.Bold).Fprintf(f.out, "\n%s: ", label)
	color.New(color.FgRed).Fprint(f.out, res.Item.ID())
	color.New(color.FgCyan).Fprintf(f.out, " (%s:%d)\n", res.Item.File, res.Item.Line)

	if res.Kind != "" {
		fmt.Fprintf(f.out, "%s: %s\n", res.Kind, res.Message)
	} else if res.Message != "" {
		fmt.Fprintln(f.out, res.Message)
	}
	if len(res.Trace) > 0 {
		fmt.Fprintln(f.out, "Traceback:")
		for _, frame := range res.Trace {
			fmt.Fprintf(f.out, "  %s\n", frame)
		}
	}
	if res.Stdout != "" {
		fmt.Fprintf(f.out, "--- stdout ---\n%s\n", res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprintf(f.out, "--- stderr ---\n%s\n", res.Stderr)
	}
}

func (f *Formatter) printSummary(report *domain.RunReport) {
	s := report.Summary
	fmt.Fprintln(f.out, "------------")

	heading := color.New(color.Bold, color.FgGreen)
	if !report.Success {
		heading = color.New(color.Bold, color.FgRed)
	} else if s.Total == 0 {
		heading = color.New(color.Bold, color.FgYellow)
	}
	heading.Fprint(f.out, "Summary ")
	fmt.Fprintf(f.out, "[%.3fs] %d tests run: ", report.Duration.Seconds(), s.Total)
	color.New(color.FgGreen).Fprintf(f.out, "%d passed", s.Passed)

	failing := s.Failed + s.Errors + s.UnexpectedSuccess
	if failing > 0 {
		fmt.Fprint(f.out, ", ")
		color.New(color.FgRed).Fprintf(f.out, "%d failed", failing)
	}
	if s.ExpectedFailures > 0 {
		fmt.Fprintf(f.out, ", %d expected failures", s.ExpectedFailures)
	}
	fmt.Fprint(f.out, ", ")
	color.New(color.FgYellow).Fprintf(f.out, "%d skipped", s.Skipped)
	fmt.Fprintf(f.out, " (%d workers)\n", report.Workers)
}

func (f *Formatter) printCoverage(cov *domain.CoverageReport) {
	fmt.Fprintln(f.out)
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Lines", "Missed", "Coverage"})
	for _, row := range cov.Files {
		t.AppendRow(table.Row{row.File, row.Lines, row.Missed, fmt.Sprintf("%.1f%%", row.Percent)})
	}
	t.AppendFooter(table.Row{"Total", cov.Total.Lines, cov.Total.Missed, fmt.Sprintf("%.1f%%", cov.Total.Percent)})
	t.Render()
}
