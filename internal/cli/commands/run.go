package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"pypar/internal/cli"
	"pypar/internal/config"
	"pypar/internal/coverage"
	"pypar/internal/discovery"
	"pypar/internal/domain"
	"pypar/internal/execution"
	"pypar/internal/interp"
	"pypar/internal/report"
	"pypar/internal/storage"
	"pypar/internal/ui"
)

// RunCommand discovers, executes and reports.
type RunCommand struct {
	engine interp.Engine
}

// NewRunCommand creates a RunCommand on the given runtime engine.
func NewRunCommand(engine interp.Engine) *RunCommand {
	return &RunCommand{engine: engine}
}

// Execute runs the full pipeline. It returns ErrTestsFailed when the run
// was unsuccessful so the process exits nonzero.
func (rc *RunCommand) Execute(flags *cli.Flags, paths []string) error {
	cfg := config.Load(flags.ToConfigFlags(paths))
	formatter := ui.NewFormatter()
	caps := rc.engine.Capabilities()

	// Discovery completes fully before any scheduling begins.
	discoverer := discovery.NewEngine(cfg.Exclude)
	discovered, err := discoverer.Discover(cfg.Paths)
	if err != nil {
		return err
	}
	items := discovery.FilterByName(discovered.Items, cfg.Filter)

	if !cfg.JSON {
		formatter.PrintDiscovered(len(items), discovered.FileCount, len(discovered.Errors), discovered.Duration)
		if cfg.Coverage && !caps.Trace {
			color.Yellow("coverage requested, but %s has no line tracing; the table will report 0%%", caps.Version)
		}
	}
	if len(items) == 0 && len(discovered.Errors) == 0 {
		if !cfg.JSON {
			color.Yellow("No tests to execute")
		}
		return nil
	}

	var covAgg *coverage.Aggregator
	if cfg.Coverage {
		covAgg = coverage.NewAggregator(discovered.Executable)
	}
	results := report.NewAggregator(discovered.Errors)

	workers := cfg.Workers
	if !caps.Parallel && workers != 1 {
		// Degraded runtime builds interleave cooperatively; one worker
		// avoids pointless contention. Correctness is unaffected.
		workers = 1
	}
	pool := execution.NewPool(rc.engine, cfg.Paths)
	scheduler := execution.NewScheduler(pool, workers)
	scheduler.SetFailFast(cfg.FailFast)

	var progress *ui.ProgressBar
	if !cfg.JSON {
		progress = ui.NewProgressBar(len(items))
		scheduler.SetOnResult(progress.Record)
	}

	duration := scheduler.Run(items, cfg.Coverage, results, covAgg)
	if progress != nil {
		progress.Finish()
	}

	var covReport *domain.CoverageReport
	if covAgg != nil {
		covReport = covAgg.Report()
	}
	runReport := results.Finalize(duration, scheduler.Workers(), covReport)

	if err := storage.NewJSONStorage(cfg).Save(runReport); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save results: %v\n", err)
	}

	if cfg.JSON {
		data, err := json.MarshalIndent(runReport, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		formatter.PrintReport(runReport)
	}

	if !runReport.Success {
		return ErrTestsFailed
	}
	return nil
}
