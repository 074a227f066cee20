package model

import (
	"strconv"
	"strings"
)

// Price kinds carried in LongRow.PriceType.
const (
	PriceChargemaster         = "chargemaster"
	PriceCash                 = "cash"
	PriceNegotiatedDollar     = "negotiated_dollar"
	PriceNegotiatedPercentage = "negotiated_percentage"
	PriceMin                  = "min"
	PriceMax                  = "max"
)

// LongRow is one price fact in canonical long format. Rows are only built
// when Code, CodeType and PriceAmount are all present.
type LongRow struct {
	HospitalName           string   `parquet:"hospital_name,optional"`
	Code                   string   `parquet:"code"`
	CodeType               string   `parquet:"code_type"`
	Code2                  string   `parquet:"code_2,optional"`
	Code2Type              string   `parquet:"code_2_type,optional"`
	PayerName              string   `parquet:"payer_name,optional"`
	PlanName               string   `parquet:"plan_name,optional"`
	BillingClass           string   `parquet:"billing_class,optional"`
	Setting                string   `parquet:"setting,optional"`
	PriceType              string   `parquet:"price_type"`
	PriceAmount            float64  `parquet:"price_amount"`
	Currency               string   `parquet:"currency,optional"`
	EffectiveDate          string   `parquet:"effective_date,optional"`
	ExpiresOn              string   `parquet:"expires_on,optional"`
	Description            string   `parquet:"description,optional"`
	Modifiers              string   `parquet:"modifiers,optional"`
	DrugUnitOfMeasurement  string   `parquet:"drug_unit_of_measurement,optional"`
	DrugTypeOfMeasurement  string   `parquet:"drug_type_of_measurement,optional"`
	NegotiatedAlgorithm    string   `parquet:"negotiated_algorithm,optional"`
	EstimatedAmount        *float64 `parquet:"estimated_amount,optional"`
	Methodology            string   `parquet:"methodology,optional"`
	AdditionalGenericNotes string   `parquet:"additional_generic_notes,optional"`
	Metadata               string   `parquet:"metadata,optional"`
	SourceFile             string   `parquet:"source_file"`
}

// LongColumns returns the ordered column names shared by the CSV output and
// COPY into hp.charge_long.
func LongColumns() []string {
	return []string{
		"hospital_name",
		"code",
		"code_type",
		"code_2",
		"code_2_type",
		"payer_name",
		"plan_name",
		"billing_class",
		"setting",
		"price_type",
		"price_amount",
		"currency",
		"effective_date",
		"expires_on",
		"description",
		"modifiers",
		"drug_unit_of_measurement",
		"drug_type_of_measurement",
		"negotiated_algorithm",
		"estimated_amount",
		"methodology",
		"additional_generic_notes",
		"metadata",
		"source_file",
	}
}

// Record returns the row as strings in LongColumns order.
func (r *LongRow) Record() []string {
	est := ""
	if r.EstimatedAmount != nil {
		est = FormatAmount(*r.EstimatedAmount)
	}
	return []string{
		r.HospitalName,
		r.Code,
		r.CodeType,
		r.Code2,
		r.Code2Type,
		r.PayerName,
		r.PlanName,
		r.BillingClass,
		r.Setting,
		r.PriceType,
		FormatAmount(r.PriceAmount),
		r.Currency,
		r.EffectiveDate,
		r.ExpiresOn,
		r.Description,
		r.Modifiers,
		r.DrugUnitOfMeasurement,
		r.DrugTypeOfMeasurement,
		r.NegotiatedAlgorithm,
		est,
		r.Methodology,
		r.AdditionalGenericNotes,
		r.Metadata,
		r.SourceFile,
	}
}

// CopyValues returns the row values in LongColumns order for pgx
// CopyFromSource. Empty optional text becomes NULL.
func (r *LongRow) CopyValues() []any {
	return []any{
		optStr(r.HospitalName),
		r.Code,
		r.CodeType,
		optStr(r.Code2),
		optStr(r.Code2Type),
		optStr(r.PayerName),
		optStr(r.PlanName),
		optStr(r.BillingClass),
		optStr(r.Setting),
		r.PriceType,
		r.PriceAmount,
		optStr(r.Currency),
		optStr(r.EffectiveDate),
		optStr(r.ExpiresOn),
		optStr(r.Description),
		optStr(r.Modifiers),
		optStr(r.DrugUnitOfMeasurement),
		optStr(r.DrugTypeOfMeasurement),
		optStr(r.NegotiatedAlgorithm),
		r.EstimatedAmount,
		optStr(r.Methodology),
		optStr(r.AdditionalGenericNotes),
		optStr(r.Metadata),
		r.SourceFile,
	}
}

// FormatAmount renders a cleaned amount with at least one decimal place,
// e.g. 100 → "100.0", 12.5 → "12.5".
func FormatAmount(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
