package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// SummaryRow is one operator's accumulated count over the filtered range.
type SummaryRow struct {
	Operator     string  `json:"operator"`
	Total        int     `json:"total"`
	Percent      float64 `json:"percent"`
	PercentLabel string  `json:"percent_label"`
}

// SeriesPoint is one operator's count within one period.
type SeriesPoint struct {
	Period   string    `json:"period"`
	Operator string    `json:"operator"`
	Total    int       `json:"total"`
	Start    time.Time `json:"start"`
}

var hundred = decimal.NewFromInt(100)

// Summarize counts rows per operator, largest first; ties go by operator
// name. Rows with no operator are not counted.
func Summarize(df dataframe.DataFrame, operatorCol string) []SummaryRow {
	counts := make(map[string]int)
	total := 0
	for _, op := range operators(df, operatorCol) {
		counts[op]++
		total++
	}

	rows := make([]SummaryRow, 0, len(counts))
	for op, n := range counts {
		rows = append(rows, SummaryRow{Operator: op, Total: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Operator < rows[j].Operator
	})

	for i := range rows {
		if total == 0 {
			rows[i].PercentLabel = "0%"
			continue
		}
		pct := decimal.NewFromInt(int64(rows[i].Total)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(hundred).
			Round(2)
		rows[i].Percent = pct.InexactFloat64()
		rows[i].PercentLabel = percentLabel(pct)
	}
	return rows
}

// percentLabel prints a rounded percentage the way the reports always have:
// at least one decimal place, so 50 reads "50.0%".
func percentLabel(pct decimal.Decimal) string {
	s := pct.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// Series counts rows per (period, operator). Points are ordered by period
// label, then operator. FiveDay periods are counted from the first day in
// df.
func Series(df dataframe.DataFrame, temporalCol, operatorCol string, g types.Granularity) []SeriesPoint {
	if frame.IsAbsent(df) || df.Nrow() == 0 || !frame.HasColumn(df, temporalCol) || !frame.HasColumn(df, operatorCol) {
		return nil
	}

	stamps := frame.Text(df, temporalCol)
	ops := df.Col(operatorCol)

	times := make([]time.Time, len(stamps))
	valid := make([]bool, len(stamps))
	var anchor time.Time
	for i, s := range stamps {
		t, err := time.Parse(types.TimestampLayout, s)
		if err != nil {
			continue
		}
		times[i], valid[i] = t, true
		if anchor.IsZero() || t.Before(anchor) {
			anchor = t
		}
	}

	type key struct {
		start    time.Time
		operator string
	}
	counts := make(map[key]int)
	for i := range stamps {
		e := ops.Elem(i)
		if !valid[i] || e.IsNA() {
			continue
		}
		counts[key{BucketStart(times[i], g, anchor), e.String()}]++
	}

	points := make([]SeriesPoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, SeriesPoint{
			Period:   Label(k.start, g),
			Operator: k.operator,
			Total:    n,
			Start:    k.start,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		if points[i].Operator != points[j].Operator {
			return points[i].Operator < points[j].Operator
		}
		return points[i].Start.Before(points[j].Start)
	})
	return points
}

func operators(df dataframe.DataFrame, col string) []string {
	if frame.IsAbsent(df) || !frame.HasColumn(df, col) {
		return nil
	}
	s := df.Col(col)
	out := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out = append(out, e.String())
	}
	return out
}
