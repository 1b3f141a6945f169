package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"gold/internal/observ"
)

// printTimings renders finished timer phases as a table.
func printTimings(out io.Writer, timer *observ.Timer) error {
	report := timer.Report()
	if len(report.Phases) == 0 {
		return nil
	}
	data := pterm.TableData{{"phase", "ms", "note"}}
	for _, p := range report.Phases {
		data = append(data, []string{p.Name, fmt.Sprintf("%.2f", p.DurationMS), p.Note})
	}
	data = append(data, []string{"total", fmt.Sprintf("%.2f", report.TotalMS), ""})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, table)
	return err
}
