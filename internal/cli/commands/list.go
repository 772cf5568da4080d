package commands

import (
	"fmt"

	"github.com/fatih/color"

	"pypar/internal/cli"
	"pypar/internal/config"
	"pypar/internal/discovery"
)

// ListCommand prints discovered tests without executing anything.
type ListCommand struct{}

// NewListCommand creates a ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// Execute scans and lists tests in discovery order.
func (lc *ListCommand) Execute(flags *cli.Flags, paths []string) error {
	cfg := config.Load(flags.ToConfigFlags(paths))

	discoverer := discovery.NewEngine(cfg.Exclude)
	discovered, err := discoverer.Discover(cfg.Paths)
	if err != nil {
		return err
	}
	items := discovery.FilterByName(discovered.Items, cfg.Filter)

	for _, item := range items {
		marker := ""
		if item.Skip {
			marker = color.YellowString(" [skip]")
		} else if item.ExpectFailure {
			marker = color.YellowString(" [xfail]")
		}
		fmt.Printf("%s:%d %s%s\n", item.File, item.Line, color.CyanString(item.ID()), marker)
	}
	fmt.Printf("%d tests in %d files\n", len(items), discovered.FileCount)

	for _, derr := range discovered.Errors {
		color.Red("parse error: %s: %s", derr.File, derr.Reason)
	}
	return nil
}
