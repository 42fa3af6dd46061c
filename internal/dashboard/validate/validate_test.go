package validate

import (
	"testing"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-05", "2024-01-05 00:00:00", true},
		{"2024-01-05 08:30:15", "2024-01-05 08:30:15", true},
		{"2024-01-05T08:30:15", "2024-01-05 08:30:15", true},
		{"2024-01-05T08:30:15Z", "2024-01-05 08:30:15", true},
		{"05/01/2024", "2024-01-05 00:00:00", true},
		{"5/1/2024 14:20", "2024-01-05 14:20:00", true},
		{"1/5/2024 8:30 AM", "2024-05-01 08:30:00", true},
		{"1/5/2024 8:30:10 PM", "2024-05-01 20:30:10", true},
		{"2024-01-05 00:00:00+00:00", "2024-01-05 00:00:00", true},
		{"2024-01-05 23:10:00-05:00", "2024-01-05 23:10:00", true},
		{"2024-01-05 07:00:00Z", "2024-01-05 07:00:00", true},
		{"2024/01/05", "2024-01-05 00:00:00", true},
		{"01-05-24", "2024-01-05 00:00:00", true},
		{"45292", "2024-01-01 00:00:00", true},
		{"", "", false},
		{"NaN", "", false},
		{"not a date", "", false},
		{"31/02/2024", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tc.in)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got.Format(types.TimestampLayout))
			}
		})
	}
}

func TestValidateDropsInvalidDatesAndSorts(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Ana", "Luis", "Ana", "Eva"}, series.String, types.ColUser),
		series.New([]string{"2024-01-07", "bad", "2024-01-05", "2024-01-06"}, series.String, types.ColRealDate),
		series.New([]int{1, 2, 3, 4}, series.Int, types.ColIdentificationNumber),
	)

	out, res, msgs, err := Validate(types.LegalizationPPL, df)
	require.NoError(t, err)

	assert.Equal(t, Result{Rows: 3, Dropped: 1}, res)
	require.Len(t, msgs, 1)
	assert.Equal(t, types.LevelWarning, msgs[0].Level)

	assert.Equal(t, []string{"2024-01-05 00:00:00", "2024-01-06 00:00:00", "2024-01-07 00:00:00"},
		out.Col(types.ColRealDate).Records())
	assert.Equal(t, []string{"Ana", "Eva", "Ana"}, out.Col(types.ColUser).Records())
	assert.Equal(t, series.String, out.Col(types.ColIdentificationNumber).Type())
	assert.Equal(t, []string{"3", "4", "1"}, out.Col(types.ColIdentificationNumber).Records())
}

func TestValidateKeepsEqualTimestampsInInputOrder(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"b", "a", "c"}, series.String, types.ColName),
		series.New([]string{"Aprobado", "Aprobado", "Aprobado"}, series.String, types.ColStatus),
		series.New([]string{"2024-03-01", "2024-03-01", "2024-02-01"}, series.String, types.ColLastModified),
	)

	out, _, _, err := Validate(types.Rips, df)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, out.Col(types.ColName).Records())
}

func TestValidateMissingColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Ana"}, series.String, types.ColName),
	)

	out, _, msgs, err := Validate(types.Rips, df)
	require.ErrorIs(t, err, types.ErrSchemaFailure)
	assert.Equal(t, 0, out.Ncol())
	require.Len(t, msgs, 1)
	assert.Equal(t, types.LevelError, msgs[0].Level)
	assert.Contains(t, msgs[0].Text, types.ColStatus)
	assert.Contains(t, msgs[0].Text, types.ColLastModified)
}

func TestValidateBillingUpperCasesColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"ana"}, series.String, "usuario"),
		series.New([]string{"05/01/2024"}, series.String, "Fecha Factura"),
		series.New([]string{"SM"}, series.String, "prefijo"),
		series.New([]string{"PPL"}, series.String, types.ColBillingType),
	)

	out, res, _, err := Validate(types.Billing, df)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.ElementsMatch(t,
		[]string{types.ColBillingUser, types.ColInvoiceDate, types.ColPrefix, types.ColBillingType},
		out.Names())
	assert.Equal(t, "2024-01-05 00:00:00", out.Col(types.ColInvoiceDate).Elem(0).String())
}

func TestValidateAllRowsInvalid(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Ana"}, series.String, types.ColUser),
		series.New([]string{"nope"}, series.String, types.ColRealDate),
	)

	out, res, _, err := Validate(types.LegalizationConvenios, df)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.Equal(t, 1, res.Dropped)
	assert.Contains(t, out.Names(), types.ColRealDate)
}

func TestSortByTime(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"x", "y", "z"}, series.String, types.ColUser),
		series.New([]string{"2024-01-02 00:00:00", "2024-01-01 00:00:00", "2024-01-02 00:00:00"}, series.String, types.ColRealDate),
	)
	out := SortByTime(df, types.ColRealDate)
	assert.Equal(t, []string{"y", "x", "z"}, out.Col(types.ColUser).Records())
}
