package normalize

import (
	"errors"
	"strings"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A Caser keeps state between calls, so one is built per use.
func toUpper(s string) string {
	return cases.Upper(language.Spanish).String(s)
}

// Normalize turns a parsed upload into the typed table a dataset expects.
func Normalize(ds types.Dataset, raw Raw) (dataframe.DataFrame, []types.Message, error) {
	if len(raw.Header) == 0 {
		return dataframe.DataFrame{}, nil, errors.New("table has no columns")
	}

	header := raw.Header
	if ds == types.Billing {
		header = upperAll(header)
	}

	// Identity columns are typed as text while loading so that values such
	// as "00123" keep their leading zeros
	forced := make(map[string]series.Type)
	for _, c := range types.Schemas[ds.Analysis()].IdentityColumns {
		forced[c] = series.String
	}

	var df dataframe.DataFrame
	if len(raw.Rows) == 0 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df = dataframe.New(cols...)
	} else {
		records := make([][]string, 0, len(raw.Rows)+1)
		records = append(records, header)
		records = append(records, raw.Rows...)
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.WithTypes(forced),
		)
	}
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, nil, err
	}

	df, msgs := Apply(ds, df)
	return df, msgs, nil
}

// Apply brings a table to the shape a dataset expects. It is idempotent and
// runs both after an upload and after a snapshot reload.
func Apply(ds types.Dataset, df dataframe.DataFrame) (dataframe.DataFrame, []types.Message) {
	if frame.IsAbsent(df) {
		return df, nil
	}
	schema := types.Schemas[ds.Analysis()]

	switch ds {
	case types.LegalizationPPL, types.LegalizationConvenios:
		df = frame.AsText(df, schema.IdentityColumns...)
		df = frame.WithConstant(df, types.ColLegalizationType, ds.LegalizationTag())
		return df, nil

	case types.Rips:
		return frame.AsText(df, schema.IdentityColumns...), nil

	case types.Billing:
		df = UpperColumns(df)
		df = frame.AsText(df, schema.IdentityColumns...)
		if !frame.HasColumn(df, types.ColPrefix) {
			df = frame.WithConstant(df, types.ColBillingType, types.BillingTypeUnknown)
			return df, []types.Message{types.Warning(ds.String(),
				"Column '%s' not found in the billing file. Filtering by type (PPL/Convenios) is not possible.", types.ColPrefix)}
		}
		prefixes := frame.Text(df, types.ColPrefix)
		kinds := make([]string, len(prefixes))
		for i, p := range prefixes {
			kinds[i] = TypeFor(p)
		}
		return frame.WithText(df, types.ColBillingType, kinds), nil
	}
	return df, nil
}

// TypeFor maps an invoice prefix to its billing type.
func TypeFor(prefix string) string {
	switch toUpper(strings.TrimSpace(prefix)) {
	case "SM":
		return types.BillingTypePPL
	case "E":
		return types.BillingTypeConvenios
	default:
		return types.BillingTypeOther
	}
}

// UpperColumns upper-cases every column name. The derived billing type
// column keeps its mixed-case name.
func UpperColumns(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		if name == types.ColBillingType {
			continue
		}
		up := toUpper(name)
		if up == name || frame.HasColumn(df, up) {
			continue
		}
		df = df.Rename(up, name)
	}
	return df
}

func upperAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = toUpper(n)
	}
	return uniqueNames(out)
}
