// Package commands wires the CLI commands to the runner's components.
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"pypar/internal/cli"
	"pypar/internal/interp/gpyengine"
)

// ErrTestsFailed marks an unsuccessful run after the report has already
// been printed; main exits nonzero without printing it again.
var ErrTestsFailed = errors.New("tests failed")

// Commands holds all CLI commands.
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands. The gpython engine is the only real
// runtime; it is injected here so everything below stays testable against
// the interp interfaces.
func NewCommands() *Commands {
	engine := gpyengine.New()
	return &Commands{
		Run:      NewRunCommand(engine),
		List:     NewListCommand(),
		Failures: NewFailuresCommand(),
	}
}

// Register registers all commands with cobra.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run Python tests in parallel",
		Long:  "Discover tests in the given paths (default: current directory) and execute each one in its own isolated interpreter instance.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run.Execute(flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of worker threads (default: available CPUs)")
	runCmd.Flags().BoolVar(&flags.Coverage, "coverage", false, "Collect and report line coverage")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop dispatching tests after the first failure")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only run tests whose full name matches the pattern (wildcards allowed)")
	runCmd.Flags().StringSliceVar(&flags.Exclude, "exclude", nil, "Additional directory names to exclude from scanning")
	runCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the run report as JSON instead of the standard output")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List discovered tests",
		Long:  "Scan and statically parse the given paths, listing every test without executing anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only list tests whose full name matches the pattern")
	listCmd.Flags().StringSliceVar(&flags.Exclude, "exclude", nil, "Additional directory names to exclude from scanning")
	rootCmd.AddCommand(listCmd)

	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "Browse the last run's failures interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Failures.Execute(flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(failuresCmd)
}
