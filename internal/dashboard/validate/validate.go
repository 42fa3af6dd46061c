package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/normalize"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
)

// Result describes what validation did to a table.
type Result struct {
	Rows    int
	Dropped int
}

// Validate checks a dataset's table against its analysis schema and returns
// the cleaned table: text-typed identity and category columns, canonical
// timestamps, invalid dates dropped, rows sorted by time. A table missing a
// required column yields an absent table and an error wrapping
// types.ErrSchemaFailure.
func Validate(ds types.Dataset, df dataframe.DataFrame) (dataframe.DataFrame, Result, []types.Message, error) {
	if frame.IsAbsent(df) {
		return dataframe.DataFrame{}, Result{}, nil, nil
	}
	schema := types.Schemas[ds.Analysis()]

	if ds == types.Billing {
		df = normalize.UpperColumns(df)
	}

	if missing := frame.MissingColumns(df, schema.RequiredColumns); len(missing) > 0 {
		msg := types.Error(ds.String(), "Missing required columns: %s. Check the file format.", strings.Join(missing, ", "))
		return dataframe.DataFrame{}, Result{}, []types.Message{msg},
			fmt.Errorf("%s: %w: %s", ds, types.ErrSchemaFailure, strings.Join(missing, ", "))
	}

	df = frame.AsText(df, schema.TextColumns()...)

	raw := frame.Text(df, schema.TemporalColumn)
	canonical := make([]string, len(raw))
	keep := make([]int, 0, len(raw))
	for i, v := range raw {
		t, ok := ParseTimestamp(v)
		if !ok {
			canonical[i] = frame.NaN
			continue
		}
		canonical[i] = t.Format(types.TimestampLayout)
		keep = append(keep, i)
	}
	df = frame.WithText(df, schema.TemporalColumn, canonical)

	sort.SliceStable(keep, func(a, b int) bool {
		return canonical[keep[a]] < canonical[keep[b]]
	})
	df = frame.Subset(df, keep)

	res := Result{Rows: len(keep), Dropped: len(raw) - len(keep)}
	var msgs []types.Message
	if res.Dropped > 0 {
		msgs = append(msgs, types.Warning(ds.String(),
			"%d rows with an invalid or missing %s were discarded.", res.Dropped, schema.TemporalColumn))
	}
	return df, res, msgs, nil
}

// SortByTime stably sorts a validated table ascending by col.
func SortByTime(df dataframe.DataFrame, col string) dataframe.DataFrame {
	if frame.IsAbsent(df) || !frame.HasColumn(df, col) {
		return df
	}
	values := frame.Text(df, col)
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})
	return frame.Subset(df, idx)
}
