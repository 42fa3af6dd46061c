package normalize

import (
	"testing"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseDelimited(t *testing.T) {
	raw, err := Parse([]byte("Usuario,FECHA_REAL\nAna,2024-01-05\nLuis,2024-01-06\n"))
	require.NoError(t, err)

	assert.Equal(t, FormatDelimited, raw.Format)
	assert.Equal(t, []string{"Usuario", "FECHA_REAL"}, raw.Header)
	assert.Equal(t, [][]string{{"Ana", "2024-01-05"}, {"Luis", "2024-01-06"}}, raw.Rows)
}

func TestParseSniffsSemicolon(t *testing.T) {
	raw, err := Parse([]byte("NOMBRE;ESTADO;ULTIMA_MODIFICACION\nAna;Aprobado;05/01/2024\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NOMBRE", "ESTADO", "ULTIMA_MODIFICACION"}, raw.Header)
	assert.Equal(t, []string{"Ana", "Aprobado", "05/01/2024"}, raw.Rows[0])
}

func TestParseSkipsRaggedLines(t *testing.T) {
	raw, err := Parse([]byte("a,b\n1,2\n3\n4,5,6\n7,8\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}, {"7", "8"}}, raw.Rows)
	assert.Equal(t, 2, raw.Skipped)
}

func TestParseTrailingDelimiter(t *testing.T) {
	raw, err := Parse([]byte("a,b,\n1,2,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, raw.Header)
	assert.Equal(t, [][]string{{"1", "2"}}, raw.Rows)
}

func TestParseRenamesDuplicateHeaders(t *testing.T) {
	raw, err := Parse([]byte("NOMBRE,ESTADO,NOMBRE,ULTIMA_MODIFICACION,NOMBRE\nAna,Aprobado,X,2024-01-05,Y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NOMBRE", "ESTADO", "NOMBRE.1", "ULTIMA_MODIFICACION", "NOMBRE.2"}, raw.Header)
}

func TestUniqueNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueNames([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "a.1", "a.2"}, uniqueNames([]string{"a", "a", "a"}))
	assert.Equal(t, []string{"a", "a.2", "a.1"}, uniqueNames([]string{"a", "a", "a.1"}))
	assert.Equal(t, []string{"", ""}, uniqueNames([]string{"", ""}))
}

func TestParseWindows1252(t *testing.T) {
	// "Facturación" with ó as 0xF3
	raw, err := Parse([]byte("USUARIO\nFacturaci\xf3n\n"))
	require.NoError(t, err)
	assert.Equal(t, "Facturación", raw.Rows[0][0])
}

func TestParseSpreadsheetFallback(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"NOMBRE", "ESTADO", "ULTIMA_MODIFICACION"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Ana", "Aprobado", "2024-01-05"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Luis"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	raw, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatSpreadsheet, raw.Format)
	assert.Equal(t, []string{"NOMBRE", "ESTADO", "ULTIMA_MODIFICACION"}, raw.Header)
	assert.Equal(t, [][]string{
		{"Ana", "Aprobado", "2024-01-05"},
		{"Luis", "", ""},
	}, raw.Rows)
}

func TestParseFailure(t *testing.T) {
	for name, content := range map[string][]byte{
		"empty":  {},
		"binary": []byte("\x00\x01\x02\x03"),
		"zip":    []byte("PK\x03\x04not really a workbook"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(content)
			assert.ErrorIs(t, err, types.ErrParseFailure)
		})
	}
}

func TestCacheParsesOnce(t *testing.T) {
	c := NewCache()
	content := []byte("a,b\n1,2\n")

	first, err := c.Parse(content)
	require.NoError(t, err)
	second, err := c.Parse(append([]byte{}, content...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Hits())
	assert.Equal(t, 1, c.Len())

	_, err = c.Parse([]byte("\x00"))
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Hits())
}

func TestChecksumHex(t *testing.T) {
	assert.Len(t, ChecksumHex([]byte("abc")), 16)
	assert.Equal(t, ChecksumHex([]byte("abc")), ChecksumHex([]byte("abc")))
	assert.NotEqual(t, ChecksumHex([]byte("abc")), ChecksumHex([]byte("abd")))
}

func TestNormalizeLegalizationKeepsLeadingZeros(t *testing.T) {
	raw, err := Parse([]byte("NUMERO_IDENTIFICACION,Usuario,FECHA_REAL,VALOR\n00123,Ana,2024-01-05,10\n00456,Luis,2024-01-06,20\n"))
	require.NoError(t, err)

	df, msgs, err := Normalize(types.LegalizationConvenios, raw)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.Equal(t, series.String, df.Col(types.ColIdentificationNumber).Type())
	assert.Equal(t, []string{"00123", "00456"}, df.Col(types.ColIdentificationNumber).Records())
	assert.Equal(t, series.Int, df.Col("VALOR").Type())
	assert.Equal(t, []string{"Convenios", "Convenios"}, df.Col(types.ColLegalizationType).Records())
}

func TestNormalizeBillingPrefixes(t *testing.T) {
	raw, err := Parse([]byte("usuario,Fecha Factura,Prefijo\nAna,05/01/2024,sm \nLuis,06/01/2024,E\nEva,07/01/2024,X\n"))
	require.NoError(t, err)

	df, msgs, err := Normalize(types.Billing, raw)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, []string{types.ColBillingUser, types.ColInvoiceDate, types.ColPrefix, types.ColBillingType}, df.Names())
	assert.Equal(t,
		[]string{types.BillingTypePPL, types.BillingTypeConvenios, types.BillingTypeOther},
		df.Col(types.ColBillingType).Records())
}

func TestNormalizeBillingWithoutPrefix(t *testing.T) {
	raw, err := Parse([]byte("USUARIO,FECHA FACTURA\nAna,05/01/2024\n"))
	require.NoError(t, err)

	df, msgs, err := Normalize(types.Billing, raw)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, types.LevelWarning, msgs[0].Level)
	assert.Equal(t, []string{types.BillingTypeUnknown}, df.Col(types.ColBillingType).Records())
}

func TestNormalizeDuplicateColumnKeepsFirst(t *testing.T) {
	raw, err := Parse([]byte("NOMBRE,ESTADO,ULTIMA_MODIFICACION,NOMBRE\nAna,Aprobado,2024-01-05,Otro\n"))
	require.NoError(t, err)

	df, _, err := Normalize(types.Rips, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, df.Col(types.ColName).Records())
	assert.Equal(t, []string{"Otro"}, df.Col("NOMBRE.1").Records())
}

func TestNormalizeBillingDuplicatesAfterUpperCasing(t *testing.T) {
	raw, err := Parse([]byte("usuario,USUARIO,Fecha Factura,prefijo\nAna,Luis,05/01/2024,SM\n"))
	require.NoError(t, err)

	df, _, err := Normalize(types.Billing, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, df.Col(types.ColBillingUser).Records())
	assert.Equal(t, []string{"Luis"}, df.Col("USUARIO.1").Records())
}

func TestNormalizeHeaderOnly(t *testing.T) {
	raw, err := Parse([]byte("NOMBRE,ESTADO,ULTIMA_MODIFICACION\n"))
	require.NoError(t, err)

	df, _, err := Normalize(types.Rips, raw)
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, 3, df.Ncol())
}

func TestApplyIsIdempotent(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"SM", "e"}, series.String, "prefijo"),
		series.New([]int{1, 2}, series.Int, "identificacion"),
	)

	once, _ := Apply(types.Billing, df)
	twice, _ := Apply(types.Billing, once)

	assert.Equal(t, once.Names(), twice.Names())
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, []string{"PPL", "Convenios"}, twice.Col(types.ColBillingType).Records())
	assert.Equal(t, series.String, twice.Col(types.ColIdentification).Type())
}

func TestTypeFor(t *testing.T) {
	assert.Equal(t, types.BillingTypePPL, TypeFor(" sm "))
	assert.Equal(t, types.BillingTypeConvenios, TypeFor("e"))
	assert.Equal(t, types.BillingTypeOther, TypeFor("SMX"))
	assert.Equal(t, types.BillingTypeOther, TypeFor(""))
}
