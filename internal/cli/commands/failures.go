package commands

import (
	"fmt"

	"pypar/internal/cli"
	"pypar/internal/config"
	"pypar/internal/storage"
	"pypar/internal/ui"
)

// FailuresCommand opens the interactive viewer on the last saved run.
type FailuresCommand struct{}

// NewFailuresCommand creates a FailuresCommand.
func NewFailuresCommand() *FailuresCommand {
	return &FailuresCommand{}
}

// Execute loads the last run report and shows its failures.
func (fc *FailuresCommand) Execute(flags *cli.Flags) error {
	cfg := config.Load(flags.ToConfigFlags(nil))

	report, err := storage.NewJSONStorage(cfg).Load()
	if err != nil {
		return fmt.Errorf("no saved run found (run `pypar run` first): %w", err)
	}
	return ui.NewFailureViewer().View(report)
}
