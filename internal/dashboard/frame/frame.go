package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NaN is how gota renders a missing cell as text.
const NaN = "NaN"

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// IsAbsent reports whether df stands for "no table": the zero DataFrame or
// one carrying an error.
func IsAbsent(df dataframe.DataFrame) bool {
	return df.Error() != nil || df.Ncol() == 0
}

func HasColumn(df dataframe.DataFrame, col string) bool {
	return containsString(df.Names(), col)
}

// MissingColumns returns the columns of required that df lacks, in order.
func MissingColumns(df dataframe.DataFrame, required []string) []string {
	names := df.Names()
	var missing []string
	for _, c := range required {
		if !containsString(names, c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Text returns the column as strings, nil when the column is absent.
func Text(df dataframe.DataFrame, col string) []string {
	if !HasColumn(df, col) {
		return nil
	}
	return df.Col(col).Records()
}

// AsText converts the named columns to series.String. Columns that are
// missing or already text are left untouched.
func AsText(df dataframe.DataFrame, cols ...string) dataframe.DataFrame {
	for _, c := range cols {
		if !HasColumn(df, c) {
			continue
		}
		s := df.Col(c)
		if s.Type() == series.String {
			continue
		}
		df = df.Mutate(series.New(s.Records(), series.String, c))
	}
	return df
}

// WithConstant sets col to value on every row, adding the column if needed.
func WithConstant(df dataframe.DataFrame, col, value string) dataframe.DataFrame {
	values := make([]string, df.Nrow())
	for i := range values {
		values[i] = value
	}
	return WithText(df, col, values)
}

// WithText sets col to the given values, adding the column if needed.
func WithText(df dataframe.DataFrame, col string, values []string) dataframe.DataFrame {
	s := series.New(values, series.String, col)
	if df.Ncol() == 0 {
		return dataframe.New(s)
	}
	return df.Mutate(s)
}

// EmptyLike returns a table with the columns and types of df and no rows.
func EmptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}
	}
	names := df.Names()
	kinds := df.Types()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, kinds[i], name)
	}
	return dataframe.New(cols...)
}

// Subset returns a copy of the rows at idx, in that order.
func Subset(df dataframe.DataFrame, idx []int) dataframe.DataFrame {
	if len(idx) == 0 {
		return EmptyLike(df)
	}
	return df.Subset(idx)
}

// Where keeps the rows whose col satisfies comparator against comparando.
// The input is never modified.
func Where(df dataframe.DataFrame, col string, comparator series.Comparator, comparando interface{}) (dataframe.DataFrame, error) {
	if !HasColumn(df, col) {
		return dataframe.DataFrame{}, fmt.Errorf("unknown column %q", col)
	}
	if df.Nrow() == 0 {
		return df.Copy(), nil
	}
	mask := df.Col(col).Compare(comparator, comparando)
	if err := mask.Err; err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("compare %s: %w", col, err)
	}
	keep, err := mask.Bool()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("compare %s: %w", col, err)
	}
	idx := make([]int, 0, len(keep))
	for i, ok := range keep {
		if ok {
			idx = append(idx, i)
		}
	}
	return Subset(df, idx), nil
}

// Concat stacks b under a. Columns are the union of both, a's first; cells
// of a column one side lacks are missing. A column keeps its type when both
// sides agree and falls back to text otherwise.
func Concat(a, b dataframe.DataFrame) dataframe.DataFrame {
	switch {
	case IsAbsent(a):
		return b.Copy()
	case IsAbsent(b):
		return a.Copy()
	}

	names := append([]string{}, a.Names()...)
	for _, n := range b.Names() {
		if !containsString(names, n) {
			names = append(names, n)
		}
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		kind := series.String
		inA, inB := HasColumn(a, name), HasColumn(b, name)
		if inA && inB && a.Col(name).Type() == b.Col(name).Type() {
			kind = a.Col(name).Type()
		}
		values := make([]string, 0, a.Nrow()+b.Nrow())
		values = append(values, cellsOrNaN(a, name, inA)...)
		values = append(values, cellsOrNaN(b, name, inB)...)
		cols[i] = series.New(values, kind, name)
	}
	return dataframe.New(cols...)
}

func cellsOrNaN(df dataframe.DataFrame, col string, present bool) []string {
	if present {
		return Text(df, col)
	}
	values := make([]string, df.Nrow())
	for i := range values {
		values[i] = NaN
	}
	return values
}

// Distinct returns the unique values of col in first-seen order, skipping
// missing cells.
func Distinct(df dataframe.DataFrame, col string) []string {
	if !HasColumn(df, col) {
		return nil
	}
	s := df.Col(col)
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
