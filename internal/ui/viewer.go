package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pypar/internal/domain"
)

// FailureViewer displays the failures of a saved run in an interactive
// terminal UI: a list of failing tests on the left, details on the right.
type FailureViewer struct{}

// NewFailureViewer creates a FailureViewer.
func NewFailureViewer() *FailureViewer {
	return &FailureViewer{}
}

// View opens the interactive viewer for the report's failures. Returns
// immediately when the run had none.
func (v *FailureViewer) View(report *domain.RunReport) error {
	failures := report.Failures
	if len(failures) == 0 {
		color.Green("✓ No failures in the last run")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	list.SetBorder(true).SetTitle(fmt.Sprintf(" %d failing test(s) ", len(failures)))

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	details.SetBorder(true).SetTitle(" Details ")

	for i, failure := range failures {
		list.AddItem(
			fmt.Sprintf("[yellow]%d.[white] %s", i+1, failure.Item.ID()),
			fmt.Sprintf("   %s:%d", failure.Item.File, failure.Item.Line),
			0, nil)
	}

	show := func(index int) {
		if index < 0 || index >= len(failures) {
			return
		}
		details.SetText(formatFailure(failures[index]))
		details.ScrollToBeginning()
	}
	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		show(index)
	})
	show(0)

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(details, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Rune() == 'q':
			app.Stop()
			return nil
		case event.Key() == tcell.KeyTab:
			if list.HasFocus() {
				app.SetFocus(details)
			} else {
				app.SetFocus(list)
			}
			return nil
		}
		return event
	})

	return app.SetRoot(layout, true).Run()
}

// formatFailure renders one failure with tview color tags.
func formatFailure(res domain.ExecutionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red::b]%s[-:-:-]\n", res.Item.FullName())
	fmt.Fprintf(&b, "[cyan]%s:%d[-]\n\n", res.Item.File, res.Item.Line)
	if res.Kind != "" {
		fmt.Fprintf(&b, "[yellow]%s[-]: %s\n", res.Kind, res.Message)
	} else if res.Message != "" {
		fmt.Fprintf(&b, "%s\n", res.Message)
	}
	if len(res.Trace) > 0 {
		b.WriteString("\n[::b]Traceback[-:-:-]\n")
		for _, frame := range res.Trace {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(frame))
		}
	}
	if res.Stdout != "" {
		fmt.Fprintf(&b, "\n[::b]Stdout[-:-:-]\n%s\n", tview.Escape(res.Stdout))
	}
	if res.Stderr != "" {
		fmt.Fprintf(&b, "\n[::b]Stderr[-:-:-]\n%s\n", tview.Escape(res.Stderr))
	}
	return b.String()
}
