package filter

import (
	"fmt"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Criteria are the user's filter choices for one analysis.
type Criteria struct {
	Start      time.Time
	End        time.Time
	Categories types.Selection
	Operators  types.Selection
}

// CheckRange rejects a date range whose start falls after its end.
func CheckRange(start, end time.Time) error {
	if dateOf(start).After(dateOf(end)) {
		return fmt.Errorf("%w: %s > %s", types.ErrInvalidDateSelection,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Apply returns the rows of a validated table that fall within the inclusive
// date range and match the category and operator selections. df is never
// modified, so applying the same criteria twice gives the same rows.
func Apply(df dataframe.DataFrame, schema types.Schema, c Criteria) (dataframe.DataFrame, error) {
	if frame.IsAbsent(df) {
		return dataframe.DataFrame{}, nil
	}

	// Validated timestamps are text in TimestampLayout, so day bounds
	// compare lexically: [start 00:00, end+1 00:00).
	lower := dateOf(c.Start).Format(time.DateOnly)
	upper := dateOf(c.End).AddDate(0, 0, 1).Format(time.DateOnly)

	out, err := frame.Where(df, schema.TemporalColumn, series.GreaterEq, lower)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	out, err = frame.Where(out, schema.TemporalColumn, series.Less, upper)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if values := c.Categories.Explicit(); values != nil && frame.HasColumn(out, schema.CategoryColumn) {
		out, err = frame.Where(out, schema.CategoryColumn, series.In, values)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	if values := c.Operators.Explicit(); values != nil {
		out, err = frame.Where(out, schema.OperatorColumn, series.In, values)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}
	return out, nil
}
