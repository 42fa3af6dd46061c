package aggregate

import (
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
)

// View is the presentation an operator selection calls for.
type View string

const (
	// Accumulated shows the per-operator summary only.
	Accumulated View = "accumulated"
	// Comparison shows the summary and one series per selected operator.
	Comparison View = "comparison"
	// Evolution shows the series of the single selected operator.
	Evolution View = "evolution"
)

func ViewFor(sel types.Selection) View {
	switch {
	case sel.All, len(sel.Explicit()) == 0:
		return Accumulated
	case len(sel.Explicit()) > 1:
		return Comparison
	default:
		return Evolution
	}
}

// Section is everything shown for one analysis.
type Section struct {
	Analysis string        `json:"analysis"`
	Rows     int           `json:"rows"`
	View     View          `json:"view"`
	Period   string        `json:"period"`
	Summary  []SummaryRow  `json:"summary,omitempty"`
	Series   []SeriesPoint `json:"series,omitempty"`
	Operator string        `json:"operator,omitempty"`
}

// Build aggregates an already filtered table according to the operator
// selection.
func Build(a types.Analysis, df dataframe.DataFrame, operators types.Selection, g types.Granularity) Section {
	schema := types.Schemas[a]
	sec := Section{
		Analysis: a.String(),
		Rows:     df.Nrow(),
		View:     ViewFor(operators),
		Period:   g.String(),
	}
	if sec.View != Evolution {
		sec.Summary = Summarize(df, schema.OperatorColumn)
	}
	if sec.View != Accumulated {
		sec.Series = Series(df, schema.TemporalColumn, schema.OperatorColumn, g)
	}
	if sec.View == Evolution {
		sec.Operator = operators.Explicit()[0]
	}
	return sec
}
