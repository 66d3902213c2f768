package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kernelbot/hypercorn/internal/stats"
	"github.com/kernelbot/hypercorn/internal/summary"
)

// numPrinter renders row counts with thousands separators (1,423,991).
var numPrinter = message.NewPrinter(language.English)

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// writeSummaryReport renders a dataset profile as an aligned text table.
//
//nolint:errcheck // display function — fmt.Fprintf errors to stdout are not actionable
func writeSummaryReport(w io.Writer, s *summary.DatasetSummary) {
	fmt.Fprintf(w, "Dataset: %s\n", s.Path)
	fmt.Fprintf(w, "Rows:    %s\n\n", numPrinter.Sprintf("%d", s.RowCount))

	// Column table, sized to the longest column name.
	nameWidth := len("Column")
	for _, c := range s.Columns {
		if cw := runewidth.StringWidth(c.Name); cw > nameWidth {
			nameWidth = cw
		}
	}

	fmt.Fprintf(w, "%s  %s\n", padRight("Column", nameWidth), "Nulls")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", nameWidth+7))
	for _, c := range s.Columns {
		fmt.Fprintf(w, "%s  %s\n", padRight(c.Name, nameWidth), numPrinter.Sprintf("%d", c.NullCount))
	}
	fmt.Fprintf(w, "\n")

	writeScoreReport(w, s.Scores)
}

// writeScoreReport renders the run score distribution.
//
//nolint:errcheck
func writeScoreReport(w io.Writer, s stats.ScoreSummary) {
	fmt.Fprintf(w, "Run scores: %s scored of %s rows\n",
		numPrinter.Sprintf("%d", s.Scored), numPrinter.Sprintf("%d", s.Rows))
	if s.Passed+s.Failed > 0 {
		fmt.Fprintf(w, "Pass rate:  %.1f%% (%s passed, %s failed)\n",
			s.PassRate*100,
			numPrinter.Sprintf("%d", s.Passed), numPrinter.Sprintf("%d", s.Failed))
	}
	if s.Scored == 0 {
		return
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  mean    %.4f\n", s.Mean)
	fmt.Fprintf(w, "  stddev  %.4f\n", s.StdDev)
	fmt.Fprintf(w, "  min     %.4f\n", s.Min)
	fmt.Fprintf(w, "  p50     %.4f\n", s.P50)
	fmt.Fprintf(w, "  p90     %.4f\n", s.P90)
	fmt.Fprintf(w, "  p99     %.4f\n", s.P99)
	fmt.Fprintf(w, "  max     %.4f\n", s.Max)
	if s.CI.NumBootstraps > 0 {
		fmt.Fprintf(w, "  %.0f%% CI  [%.4f, %.4f]\n",
			s.CI.ConfidenceLevel*100, s.CI.Lower, s.CI.Upper)
	}
}
