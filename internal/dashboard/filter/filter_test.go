package filter

import (
	"testing"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func legalizations() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Ana", "Luis", "Ana", "Eva", "Luis"}, series.String, types.ColUser),
		series.New([]string{
			"2024-01-01 00:00:00",
			"2024-01-02 09:00:00",
			"2024-01-03 23:59:59",
			"2024-01-04 00:00:00",
			"2024-01-05 12:00:00",
		}, series.String, types.ColRealDate),
		series.New([]string{"PPL", "PPL", "Convenios", "Convenios", "PPL"}, series.String, types.ColLegalizationType),
	)
}

var legalizationSchema = types.Schemas[types.LegalizationAnalysis]

func TestCheckRange(t *testing.T) {
	assert.NoError(t, CheckRange(day("2024-01-01"), day("2024-01-01")))
	assert.NoError(t, CheckRange(day("2024-01-01"), day("2024-01-02")))
	assert.ErrorIs(t, CheckRange(day("2024-01-03"), day("2024-01-02")), types.ErrInvalidDateSelection)
}

func TestApplyDateRangeIsInclusive(t *testing.T) {
	out, err := Apply(legalizations(), legalizationSchema, Criteria{
		Start:      day("2024-01-02"),
		End:        day("2024-01-03"),
		Categories: types.NewSelection(nil),
		Operators:  types.NewSelection(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Luis", "Ana"}, out.Col(types.ColUser).Records())
}

func TestApplyCategoryAndOperator(t *testing.T) {
	out, err := Apply(legalizations(), legalizationSchema, Criteria{
		Start:      day("2024-01-01"),
		End:        day("2024-01-31"),
		Categories: types.NewSelection([]string{"PPL"}),
		Operators:  types.NewSelection([]string{"Luis", "Eva"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02 09:00:00", "2024-01-05 12:00:00"}, out.Col(types.ColRealDate).Records())
}

func TestApplyAllWinsOverExplicitValues(t *testing.T) {
	c := Criteria{Start: day("2024-01-01"), End: day("2024-01-31")}

	c.Operators = types.NewSelection([]string{types.AllOption, "Ana"})
	withAll, err := Apply(legalizations(), legalizationSchema, c)
	require.NoError(t, err)

	c.Operators = types.NewSelection([]string{types.AllOption})
	allOnly, err := Apply(legalizations(), legalizationSchema, c)
	require.NoError(t, err)

	assert.Equal(t, allOnly.Records(), withAll.Records())
	assert.Equal(t, 5, withAll.Nrow())
}

func TestApplyIsIdempotentAndLeavesInputAlone(t *testing.T) {
	df := legalizations()
	before := df.Records()
	c := Criteria{
		Start:      day("2024-01-02"),
		End:        day("2024-01-05"),
		Categories: types.NewSelection([]string{"Convenios"}),
		Operators:  types.NewSelection(nil),
	}

	once, err := Apply(df, legalizationSchema, c)
	require.NoError(t, err)
	twice, err := Apply(once, legalizationSchema, c)
	require.NoError(t, err)

	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, before, df.Records())
}

func TestApplyNoMatchKeepsColumns(t *testing.T) {
	out, err := Apply(legalizations(), legalizationSchema, Criteria{
		Start:     day("2023-01-01"),
		End:       day("2023-12-31"),
		Operators: types.NewSelection(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.Equal(t, legalizations().Names(), out.Names())
}

func TestAvailable(t *testing.T) {
	rips := dataframe.New(
		series.New([]string{"Zoe", "Ana"}, series.String, types.ColName),
		series.New([]string{"Pendiente", "Aprobado"}, series.String, types.ColStatus),
		series.New([]string{"2023-12-30 10:00:00", "2024-02-01 00:00:00"}, series.String, types.ColLastModified),
	)
	opts := Available(map[types.Analysis]dataframe.DataFrame{
		types.LegalizationAnalysis: legalizations(),
		types.RipsAnalysis:         rips,
	}, day("2025-06-01"))

	assert.Equal(t, day("2023-12-30"), opts.MinDate)
	assert.Equal(t, day("2024-02-01"), opts.MaxDate)
	assert.Equal(t, []string{types.AllOption, "Ana", "Eva", "Luis", "Zoe"}, opts.Operators)
	assert.Equal(t, []string{types.AllOption, "PPL", "Convenios"}, opts.LegalizationTypes)
	assert.Equal(t, []string{types.AllOption, "Aprobado", "Pendiente"}, opts.RipsStatuses)
	assert.Nil(t, opts.BillingTypes)
}

func TestAvailableDefaultsWhenNothingLoaded(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	opts := Available(nil, now)

	assert.Equal(t, day("2025-06-01"), opts.MaxDate)
	assert.Equal(t, day("2024-06-01"), opts.MinDate)
	assert.Equal(t, []string{types.AllOption}, opts.Operators)
}

func TestRange(t *testing.T) {
	opts := Options{MinDate: day("2024-01-01"), MaxDate: day("2024-03-01")}
	single := day("2024-02-10")

	start, end := opts.Range(nil, nil)
	assert.Equal(t, opts.MinDate, start)
	assert.Equal(t, opts.MaxDate, end)

	start, end = opts.Range(&single, nil)
	assert.Equal(t, single, start)
	assert.Equal(t, single, end)
}
