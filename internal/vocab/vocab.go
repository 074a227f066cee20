// Package vocab holds the synonym tables, price-kind tables, sentinel
// tokens and code-type spellings used to interpret hospital price headers
// and cells. A Vocabulary is built once and only read afterwards, so it can
// be shared by concurrent workers.
package vocab

import (
	"fmt"
	"strings"

	"github.com/gyeh/pricemelt/internal/header"
	"github.com/gyeh/pricemelt/internal/model"
)

// Field is a canonical identifier field of the long output.
type Field string

const (
	FieldCode                Field = "code"
	FieldCodeType            Field = "code_type"
	FieldPayer               Field = "payer_name"
	FieldPlan                Field = "plan_name"
	FieldBillingClass        Field = "billing_class"
	FieldSetting             Field = "setting"
	FieldCurrency            Field = "currency"
	FieldEffectiveDate       Field = "effective_date"
	FieldExpiresOn           Field = "expires_on"
	FieldNegotiatedAlgorithm Field = "negotiated_algorithm"
	FieldMethodology         Field = "methodology"
	FieldEstimatedAmount     Field = "estimated_amount"
	FieldNotes               Field = "additional_generic_notes"
	FieldModifiers           Field = "modifiers"
	FieldDrugUnit            Field = "drug_unit_of_measurement"
	FieldDrugType            Field = "drug_type_of_measurement"
	FieldDescription         Field = "description"
)

// fieldOrder is the order synonyms are matched in. Earlier fields win when
// two synonym sets contain the same name.
var fieldOrder = []Field{
	FieldPayer,
	FieldPlan,
	FieldBillingClass,
	FieldSetting,
	FieldCurrency,
	FieldEffectiveDate,
	FieldExpiresOn,
	FieldNegotiatedAlgorithm,
	FieldMethodology,
	FieldEstimatedAmount,
	FieldNotes,
	FieldModifiers,
	FieldDrugUnit,
	FieldDrugType,
	FieldDescription,
}

// Hospital metadata keys recognized in banner rows.
const (
	MetaHospitalName     = "hospital_name"
	MetaHospitalLocation = "hospital_location"
	MetaHospitalAddress  = "hospital_address"
	MetaLastUpdatedOn    = "last_updated_on"
	MetaVersion          = "version"
	MetaLicenseNumber    = "license_number"
)

var metaOrder = []string{
	MetaHospitalName,
	MetaHospitalLocation,
	MetaHospitalAddress,
	MetaLastUpdatedOn,
	MetaVersion,
	MetaLicenseNumber,
}

var priceKinds = map[string]bool{
	model.PriceChargemaster:         true,
	model.PriceCash:                 true,
	model.PriceNegotiatedDollar:     true,
	model.PriceNegotiatedPercentage: true,
	model.PriceMin:                  true,
	model.PriceMax:                  true,
}

type fieldHit struct {
	field     Field
	canonical bool
}

// Vocabulary is the compiled, read-only form of a Spec.
type Vocabulary struct {
	identifiers   map[string]fieldHit
	priceSuffixes map[string]string
	priceAliases  map[string]string
	nulls         map[string]struct{}
	absurd        []float64
	headerPrefix  []string
	headerNames   map[string]struct{}
	pricingTokens []string
	adminTokens   []string
	codeTypes     map[string]string
	meta          map[string]string
}

// Default compiles DefaultSpec. It panics only if the built-in tables are
// inconsistent.
func Default() *Vocabulary {
	v, err := New(DefaultSpec())
	if err != nil {
		panic(err)
	}
	return v
}

// New validates and compiles a Spec.
func New(s Spec) (*Vocabulary, error) {
	v := &Vocabulary{
		identifiers:   make(map[string]fieldHit),
		priceSuffixes: make(map[string]string, len(s.PriceSuffixes)),
		priceAliases:  make(map[string]string, len(s.PriceAliases)),
		nulls:         make(map[string]struct{}, len(s.NullTokens)),
		absurd:        append([]float64(nil), s.AbsurdAmounts...),
		headerNames:   make(map[string]struct{}, len(s.HeaderNames)),
		codeTypes:     model.CodeTypeAliases(),
		meta:          make(map[string]string),
	}

	known := make(map[string]bool, len(fieldOrder))
	for _, f := range fieldOrder {
		known[string(f)] = true
	}
	for name := range s.Synonyms {
		if !known[name] {
			return nil, fmt.Errorf("unknown identifier field %q", name)
		}
	}
	for _, f := range fieldOrder {
		for _, syn := range s.Synonyms[string(f)] {
			hit := fieldHit{field: f}
			key := lookupKey(syn)
			hit.canonical = key == string(f)
			for _, k := range []string{key, strings.ReplaceAll(key, " ", "_")} {
				if _, exists := v.identifiers[k]; !exists {
					v.identifiers[k] = hit
				}
			}
		}
	}

	for suffix, kind := range s.PriceSuffixes {
		if !priceKinds[kind] {
			return nil, fmt.Errorf("price suffix %q: unknown price kind %q", suffix, kind)
		}
		v.priceSuffixes[lookupKey(suffix)] = kind
	}
	for alias, kind := range s.PriceAliases {
		if !priceKinds[kind] {
			return nil, fmt.Errorf("price alias %q: unknown price kind %q", alias, kind)
		}
		v.priceAliases[lookupKey(alias)] = kind
	}

	for _, tok := range s.NullTokens {
		v.nulls[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	for _, p := range s.HeaderPrefix {
		v.headerPrefix = append(v.headerPrefix, header.Normalize(p))
	}
	for _, n := range s.HeaderNames {
		v.headerNames[header.Normalize(n)] = struct{}{}
	}
	for _, tok := range s.PricingTokens {
		v.pricingTokens = append(v.pricingTokens, strings.ToLower(tok))
	}
	for _, tok := range s.AdminTokens {
		v.adminTokens = append(v.adminTokens, strings.ToLower(tok))
	}
	for alias, canonical := range s.CodeTypes {
		v.codeTypes[strings.ToUpper(strings.TrimSpace(alias))] = strings.ToUpper(strings.TrimSpace(canonical))
	}

	knownMeta := make(map[string]bool, len(metaOrder))
	for _, k := range metaOrder {
		knownMeta[k] = true
	}
	for key := range s.MetaSynonyms {
		if !knownMeta[key] {
			return nil, fmt.Errorf("unknown metadata key %q", key)
		}
	}
	for _, key := range metaOrder {
		for _, syn := range s.MetaSynonyms[key] {
			k := lookupKey(syn)
			if _, exists := v.meta[k]; !exists {
				v.meta[k] = key
			}
		}
	}
	return v, nil
}

// lookupKey is the single case-insensitive comparison form for every
// synonym lookup.
func lookupKey(name string) string {
	return header.Normalize(name)
}

// Identifier maps a column name to its identifier field. canonical reports
// whether the name is the field's own name rather than an alias.
func (v *Vocabulary) Identifier(name string) (f Field, canonical bool, ok bool) {
	key := lookupKey(name)
	if hit, found := v.identifiers[key]; found {
		return hit.field, hit.canonical, true
	}
	if hit, found := v.identifiers[strings.ReplaceAll(key, " ", "_")]; found {
		return hit.field, hit.canonical, true
	}
	return "", false, false
}

// PriceSuffix maps the part after "standard_charge|" to a price kind.
func (v *Vocabulary) PriceSuffix(suffix string) (string, bool) {
	kind, ok := v.priceSuffixes[lookupKey(suffix)]
	return kind, ok
}

// PriceAlias maps a bare column name such as "gross" or "cash" to a price kind.
func (v *Vocabulary) PriceAlias(name string) (string, bool) {
	key := lookupKey(name)
	if kind, ok := v.priceAliases[key]; ok {
		return kind, true
	}
	kind, ok := v.priceAliases[strings.ReplaceAll(key, " ", "_")]
	return kind, ok
}

// IsNull reports whether a cell is empty or a null sentinel token.
func (v *Vocabulary) IsNull(cell string) bool {
	s := strings.ToLower(strings.TrimSpace(cell))
	if s == "" {
		return true
	}
	_, ok := v.nulls[s]
	return ok
}

// IsAbsurd reports whether a parsed amount is a known placeholder value.
func (v *Vocabulary) IsAbsurd(f float64) bool {
	for _, a := range v.absurd {
		if f == a {
			return true
		}
	}
	return false
}

// IsHeaderName reports whether a normalized name proves its row is a
// genuine pricing header.
func (v *Vocabulary) IsHeaderName(normalized string) bool {
	if _, ok := v.headerNames[normalized]; ok {
		return true
	}
	for _, p := range v.headerPrefix {
		if strings.HasPrefix(normalized, p) {
			return true
		}
	}
	return false
}

// Score rates a joined row of text: +2 per pricing token it contains and
// -1 per administrative token.
func (v *Vocabulary) Score(line string) int {
	s := strings.ToLower(line)
	score := 0
	for _, tok := range v.pricingTokens {
		if strings.Contains(s, tok) {
			score += 2
		}
	}
	for _, tok := range v.adminTokens {
		if strings.Contains(s, tok) {
			score--
		}
	}
	return score
}

// CodeType collapses vendor spellings (CPT-4, MS-DRG, ...) to a canonical
// code type. Unknown spellings are upper-cased.
func (v *Vocabulary) CodeType(raw string) string {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if up == "" {
		return ""
	}
	if canonical, ok := v.codeTypes[up]; ok {
		return canonical
	}
	return up
}

// MetaKey maps a banner key such as "Facility Name" to a metadata key.
func (v *Vocabulary) MetaKey(name string) (string, bool) {
	key := lookupKey(name)
	if k, ok := v.meta[key]; ok {
		return k, true
	}
	if k, ok := v.meta[strings.ReplaceAll(key, " ", "_")]; ok {
		return k, true
	}
	// "license_number|CA" and similar state-qualified keys
	if strings.Contains(key, "license") && strings.Contains(key, "number") {
		return MetaLicenseNumber, true
	}
	return "", false
}

// Fields lists the identifier fields in match order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// IsPriceKind reports whether kind is one of the canonical price kinds.
func IsPriceKind(kind string) bool {
	return priceKinds[kind]
}
