package litmus

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// ResultsTable renders a run report as a terminal table.
func ResultsTable(report *RunReport) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%s)", report.Suite, formatDuration(report.Duration)))

	t.AppendHeader(table.Row{
		"Test", "Name", "File", "Duration", "Passed", "Failed", "Status",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", Align: text.AlignRight},
		{Name: "Name", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "File", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
	})

	for _, rec := range report.Records {
		duration := formatDuration(rec.Duration)
		if rec.Aborted {
			duration = "-"
		}
		t.AppendRow(table.Row{
			rec.Index,
			rec.Name,
			rec.File,
			duration,
			rec.Stats.Passes,
			rec.Stats.Fails,
			getResultString(rec.Status()),
		})
	}

	if report.Failed() {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		"",
		formatDuration(report.Duration),
		report.Total.Passes,
		report.Total.Fails,
		getRunResultString(report),
	})

	return t.Render()
}

// PrintResultsTable prints a run report table to stdout.
func PrintResultsTable(report *RunReport) {
	fmt.Fprintln(os.Stdout, ResultsTable(report))
}

// getResultString returns a short marker string for a test status.
func getResultString(status types.TestStatus) string {
	switch status {
	case types.TestStatusPass:
		return "✓ pass"
	case types.TestStatusAborted:
		return "╳ abort"
	default:
		return "✗ fail"
	}
}

func getRunResultString(report *RunReport) string {
	if report.Failed() {
		return "✗ fail"
	}
	return "✓ pass"
}

// formatDuration formats a duration to seconds with 1 decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
