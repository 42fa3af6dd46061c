package types

import (
	"fmt"
	"strings"
)

type Dataset int

const (
	LegalizationPPL Dataset = iota
	LegalizationConvenios
	Rips
	Billing
)

// Datasets lists every slot in the order uploads are applied.
var Datasets = []Dataset{LegalizationPPL, LegalizationConvenios, Rips, Billing}

var DatasetNames = map[Dataset]string{
	LegalizationPPL:       "PPL",
	LegalizationConvenios: "Convenios",
	Rips:                  "RIPS",
	Billing:               "Facturación",
}

var datasetSlots = map[Dataset]string{
	LegalizationPPL:       "ppl",
	LegalizationConvenios: "convenios",
	Rips:                  "rips",
	Billing:               "facturacion",
}

func (d Dataset) String() string {
	if name, ok := DatasetNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dataset(%d)", int(d))
}

// Slot is the snapshot slot name and the path segment used by the API.
func (d Dataset) Slot() string {
	return datasetSlots[d]
}

// Analysis returns the analysis a dataset feeds. Both legalization
// sub-types feed the unified legalization analysis.
func (d Dataset) Analysis() Analysis {
	switch d {
	case Rips:
		return RipsAnalysis
	case Billing:
		return BillingAnalysis
	default:
		return LegalizationAnalysis
	}
}

// LegalizationTag is the constant Tipo_Legalizacion value of a legalization
// sub-type, empty for the other datasets.
func (d Dataset) LegalizationTag() string {
	switch d {
	case LegalizationPPL:
		return TagPPL
	case LegalizationConvenios:
		return TagConvenios
	default:
		return ""
	}
}

func ParseDataset(s string) (Dataset, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for ds, slot := range datasetSlots {
		if key == slot || key == strings.ToLower(DatasetNames[ds]) {
			return ds, nil
		}
	}
	if key == "billing" {
		return Billing, nil
	}
	return 0, fmt.Errorf("unknown dataset %q", s)
}

type Analysis int

const (
	LegalizationAnalysis Analysis = iota
	RipsAnalysis
	BillingAnalysis
)

var Analyses = []Analysis{LegalizationAnalysis, RipsAnalysis, BillingAnalysis}

var AnalysisNames = map[Analysis]string{
	LegalizationAnalysis: "Legalizaciones",
	RipsAnalysis:         "RIPS",
	BillingAnalysis:      "Facturación",
}

func (a Analysis) String() string {
	return AnalysisNames[a]
}

// Column names as they appear in the uploaded files.
const (
	ColIdentificationNumber = "NUMERO_IDENTIFICACION"
	ColProcedure            = "PROCEDIMIENTO"
	ColSpecialtyCode        = "CodigoEspecialidad"
	ColUser                 = "Usuario"
	ColRealDate             = "FECHA_REAL"
	ColLegalizationType     = "Tipo_Legalizacion"

	ColName         = "NOMBRE"
	ColStatus       = "ESTADO"
	ColLastModified = "ULTIMA_MODIFICACION"

	ColIdentification = "IDENTIFICACION"
	ColPrefix         = "PREFIJO"
	ColBillingUser    = "USUARIO"
	ColInvoiceDate    = "FECHA FACTURA"
	ColBillingType    = "Tipo_Facturacion"
)

const (
	TagPPL       = "PPL"
	TagConvenios = "Convenios"

	BillingTypePPL       = "PPL"
	BillingTypeConvenios = "Convenios"
	BillingTypeOther     = "Otro"
	BillingTypeUnknown   = "Desconocido"
)

// Schema describes the columns one analysis works with.
type Schema struct {
	IdentityColumns []string
	RequiredColumns []string
	TemporalColumn  string
	OperatorColumn  string
	CategoryColumn  string
}

var Schemas = map[Analysis]Schema{
	LegalizationAnalysis: {
		IdentityColumns: []string{ColIdentificationNumber, ColProcedure, ColSpecialtyCode, ColUser},
		RequiredColumns: []string{ColUser, ColRealDate},
		TemporalColumn:  ColRealDate,
		OperatorColumn:  ColUser,
		CategoryColumn:  ColLegalizationType,
	},
	RipsAnalysis: {
		IdentityColumns: []string{ColName, ColStatus},
		RequiredColumns: []string{ColName, ColStatus, ColLastModified},
		TemporalColumn:  ColLastModified,
		OperatorColumn:  ColName,
		CategoryColumn:  ColStatus,
	},
	BillingAnalysis: {
		IdentityColumns: []string{ColIdentification, ColPrefix, ColBillingUser},
		RequiredColumns: []string{ColBillingUser, ColInvoiceDate, ColPrefix},
		TemporalColumn:  ColInvoiceDate,
		OperatorColumn:  ColBillingUser,
		CategoryColumn:  ColBillingType,
	},
}

// TextColumns returns the identity and category columns of a schema, the
// set that must always be text-typed.
func (s Schema) TextColumns() []string {
	cols := append([]string{}, s.IdentityColumns...)
	for _, c := range cols {
		if c == s.CategoryColumn {
			return cols
		}
	}
	return append(cols, s.CategoryColumn)
}

// Canonical timestamp layout of validated temporal columns. Lexical order
// of values in this layout is chronological order.
const TimestampLayout = "2006-01-02 15:04:05"
