package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/aggregate"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
)

var levelMarks = map[types.Level]string{
	types.LevelSuccess: "OK",
	types.LevelError:   "ERROR",
	types.LevelInfo:    "INFO",
	types.LevelWarning: "WARN",
}

func render(w io.Writer, format string, out dashboard.Outputs) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "text", "":
		return renderText(w, out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, out dashboard.Outputs) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, m := range out.Messages {
		if m.Dataset != "" {
			fmt.Fprintf(tw, "[%s] %s: %s\n", levelMarks[m.Level], m.Dataset, m.Text)
		} else {
			fmt.Fprintf(tw, "[%s] %s\n", levelMarks[m.Level], m.Text)
		}
	}
	if out.Halted || len(out.Sections) == 0 {
		return tw.Flush()
	}

	fmt.Fprintf(tw, "\nPeriod: %s to %s\n", out.Start.Format(time.DateOnly), out.End.Format(time.DateOnly))
	for _, s := range out.Sections {
		renderSection(tw, s)
	}
	return tw.Flush()
}

func renderSection(w io.Writer, s aggregate.Section) {
	fmt.Fprintf(w, "\n== %s (%d rows, %s view, %s) ==\n", s.Analysis, s.Rows, s.View, s.Period)
	if s.Operator != "" {
		fmt.Fprintf(w, "Operator: %s\n", s.Operator)
	}

	if len(s.Summary) > 0 {
		fmt.Fprintln(w, "Operator\tTotal\tPercent\t")
		for _, row := range s.Summary {
			fmt.Fprintf(w, "%s\t%d\t%s\t\n", row.Operator, row.Total, row.PercentLabel)
		}
	}

	if len(s.Series) > 0 {
		fmt.Fprintln(w, "\nPeriod\tOperator\tTotal\t")
		for _, p := range s.Series {
			fmt.Fprintf(w, "%s\t%s\t%d\t\n", p.Period, p.Operator, p.Total)
		}
	}
}
