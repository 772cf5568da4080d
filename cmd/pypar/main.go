package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pypar/internal/cli"
	"pypar/internal/cli/commands"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "pypar",
		Short:   "Parallel isolated Python test runner",
		Long:    "pypar statically discovers Python tests and runs each one in its own isolated interpreter instance, in parallel, with optional line coverage.",
		Version: version,
	}

	var flags cli.Flags
	cmds := commands.NewCommands()
	cmds.Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		// The run report already explains test failures; anything else
		// is an operational error worth printing.
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
