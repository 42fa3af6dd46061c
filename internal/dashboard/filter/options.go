package filter

import (
	"sort"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
)

// DefaultLookback is the date range offered when no table is loaded.
const DefaultLookback = 365 * 24 * time.Hour

// Options are the choices the presentation layer offers for the loaded data.
// Every list starts with types.AllOption. A category list is nil when its
// analysis has no table.
type Options struct {
	MinDate           time.Time `json:"min_date"`
	MaxDate           time.Time `json:"max_date"`
	Operators         []string  `json:"operators"`
	LegalizationTypes []string  `json:"legalization_types,omitempty"`
	RipsStatuses      []string  `json:"rips_statuses,omitempty"`
	BillingTypes      []string  `json:"billing_types,omitempty"`
}

// Available derives the options from the validated tables of each analysis.
// Absent or empty tables are ignored.
func Available(tables map[types.Analysis]dataframe.DataFrame, now time.Time) Options {
	var opts Options
	var minDay, maxDay string
	var operators []string

	for _, a := range types.Analyses {
		df, ok := tables[a]
		if !ok || frame.IsAbsent(df) || df.Nrow() == 0 {
			continue
		}
		schema := types.Schemas[a]

		for _, v := range frame.Distinct(df, schema.TemporalColumn) {
			if len(v) < len(time.DateOnly) {
				continue
			}
			day := v[:len(time.DateOnly)]
			if minDay == "" || day < minDay {
				minDay = day
			}
			if day > maxDay {
				maxDay = day
			}
		}
		operators = append(operators, frame.Distinct(df, schema.OperatorColumn)...)

		switch a {
		case types.LegalizationAnalysis:
			opts.LegalizationTypes = withAll(frame.Distinct(df, schema.CategoryColumn))
		case types.RipsAnalysis:
			statuses := frame.Distinct(df, schema.CategoryColumn)
			sort.Strings(statuses)
			opts.RipsStatuses = withAll(statuses)
		case types.BillingAnalysis:
			opts.BillingTypes = withAll(frame.Distinct(df, schema.CategoryColumn))
		}
	}

	opts.Operators = withAll(uniqueSorted(operators))

	today := dateOf(now)
	opts.MinDate, opts.MaxDate = today.Add(-DefaultLookback), today
	if minDay != "" {
		if t, err := time.Parse(time.DateOnly, minDay); err == nil {
			opts.MinDate = t
		}
		if t, err := time.Parse(time.DateOnly, maxDay); err == nil {
			opts.MaxDate = t
		}
	}
	return opts
}

// Range resolves the user's date choice against the bounds: no date means
// the full bounds, a single date means that one day.
func (o Options) Range(start, end *time.Time) (time.Time, time.Time) {
	switch {
	case start == nil && end == nil:
		return o.MinDate, o.MaxDate
	case start == nil:
		return dateOf(*end), dateOf(*end)
	case end == nil:
		return dateOf(*start), dateOf(*start)
	default:
		return dateOf(*start), dateOf(*end)
	}
}

func withAll(values []string) []string {
	return append([]string{types.AllOption}, values...)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
