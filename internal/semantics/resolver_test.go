package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/vocab"
)

func resolve(names ...string) *HeaderMap {
	return NewResolver(vocab.Default()).Resolve(names)
}

func roleOf(t *testing.T, m *HeaderMap, i int) Role {
	t.Helper()
	require.Less(t, i, len(m.Columns))
	return m.Columns[i].Role
}

func TestResolve_RowWise(t *testing.T) {
	m := resolve(
		"description", "code|1", "code|1|type", "code|2", "code|2|type",
		"payer_name", "plan_name", "standard_charge|gross", "standard_charge|discounted_cash",
		"standard_charge|negotiated_dollar", "standard_charge|negotiated_percentage",
		"standard_charge|min", "standard_charge|max", "standard_charge|methodology", "mystery",
	)
	assert.Equal(t, RowWise, m.Variant())
	assert.Equal(t, Role{Kind: Identifier, Field: vocab.FieldDescription, Precedence: PrecedenceCanonical}, roleOf(t, m, 0))
	assert.Equal(t, Role{Kind: Identifier, Field: vocab.FieldCode, Slot: 1, Precedence: PrecedenceCanonical}, roleOf(t, m, 1))
	assert.Equal(t, Role{Kind: Identifier, Field: vocab.FieldCodeType, Slot: 2, Precedence: PrecedenceCanonical}, roleOf(t, m, 4))
	assert.Equal(t, vocab.FieldPayer, roleOf(t, m, 5).Field)

	kinds := []string{}
	for _, c := range m.PriceFacts() {
		kinds = append(kinds, c.Role.PriceKind)
	}
	assert.Equal(t, []string{
		model.PriceChargemaster, model.PriceCash, model.PriceNegotiatedDollar,
		model.PriceNegotiatedPercentage, model.PriceMin, model.PriceMax,
	}, kinds)

	assert.Equal(t, vocab.FieldMethodology, roleOf(t, m, 13).Field)
	assert.Equal(t, Unassigned, roleOf(t, m, 14).Kind)
	require.Len(t, m.Unassigned(), 1)
	assert.Equal(t, "mystery", m.Unassigned()[0].Name)
}

func TestResolve_EveryColumnHasOneRole(t *testing.T) {
	names := []string{"code", "Code", "description", "gross", "", "notes", "standard_charge|foo"}
	m := resolve(names...)
	require.Len(t, m.Columns, len(names))
	total := len(m.PriceFacts()) + len(m.Identifiers()) + len(m.Unassigned())
	assert.Equal(t, len(names), total)
	assert.Equal(t, []string{"code", "code#1", "description", "gross", "", "notes", "standard_charge|foo"}, m.Names())
}

func TestResolve_UnknownSuffixIsChargemaster(t *testing.T) {
	m := resolve("standard_charge|something_new", "Standard Charge")
	assert.Equal(t, model.PriceChargemaster, roleOf(t, m, 0).PriceKind)
	assert.Equal(t, model.PriceChargemaster, roleOf(t, m, 1).PriceKind)
}

func TestResolve_WideEmbeddedPayerPlan(t *testing.T) {
	m := resolve(
		"description", "code|1", "code|1|type",
		"standard_charge|gross",
		"standard_charge|Blue_Cross|PPO Gold|negotiated_dollar",
		"standard_charge|Blue_Cross|PPO Gold|negotiated_percentage",
		"standard_charge|Blue_Cross|PPO Gold|methodology",
		"estimated_amount|Blue_Cross|PPO Gold",
		"standard_charge|Aetna|HMO|negotiated_dollar",
	)
	assert.Equal(t, Wide, m.Variant())
	assert.Equal(t, []Group{{Payer: "Blue Cross", Plan: "PPO Gold"}, {Payer: "Aetna", Plan: "HMO"}}, m.Groups())

	r := roleOf(t, m, 4)
	assert.Equal(t, PriceFact, r.Kind)
	assert.Equal(t, model.PriceNegotiatedDollar, r.PriceKind)
	assert.Equal(t, "Blue Cross", r.Payer)
	assert.Equal(t, "PPO Gold", r.Plan)

	col, ok := m.GroupIdentifier(vocab.FieldMethodology, Group{Payer: "Blue Cross", Plan: "PPO Gold"})
	require.True(t, ok)
	assert.Equal(t, 6, col.Index)

	col, ok = m.GroupIdentifier(vocab.FieldEstimatedAmount, Group{Payer: "Blue Cross", Plan: "PPO Gold"})
	require.True(t, ok)
	assert.Equal(t, 7, col.Index)

	_, ok = m.Best(vocab.FieldMethodology)
	assert.False(t, ok, "group-scoped columns are not table-wide")
}

func TestResolve_HeuristicPayer(t *testing.T) {
	m := resolve("Aetna - Negotiated Rate", "UNITED_HEALTHCARE allowed amount", "Cigna contracted %", "negotiated_rate")

	r := roleOf(t, m, 0)
	assert.Equal(t, PrecedenceHeuristic, r.Precedence)
	assert.Equal(t, model.PriceNegotiatedDollar, r.PriceKind)
	assert.Equal(t, "Aetna", r.Payer)

	assert.Equal(t, "United Healthcare", roleOf(t, m, 1).Payer)

	r = roleOf(t, m, 2)
	assert.Equal(t, model.PriceNegotiatedPercentage, r.PriceKind)
	assert.Equal(t, "Cigna", r.Payer)

	r = roleOf(t, m, 3)
	assert.Equal(t, PrecedenceAlias, r.Precedence)
	assert.Equal(t, "", r.Payer)
	assert.Equal(t, Wide, m.Variant())
}

func TestResolve_HeuristicNeedsWordBoundary(t *testing.T) {
	m := resolve("disallowed_reason", "reallowed", "uncontracted flag", "Aetna_allowed")

	for i := 0; i < 3; i++ {
		assert.NotEqual(t, PriceFact, roleOf(t, m, i).Kind, m.Columns[i].Original)
	}
	r := roleOf(t, m, 3)
	assert.Equal(t, PriceFact, r.Kind)
	assert.Equal(t, "Aetna", r.Payer)
}

func TestResolve_PayerScopedIdentifier(t *testing.T) {
	m := resolve("code", "code_type", "standard_charge|Aetna|negotiated_dollar", "standard_charge|Aetna|methodology")

	r := roleOf(t, m, 3)
	assert.Equal(t, Identifier, r.Kind)
	assert.Equal(t, vocab.FieldMethodology, r.Field)
	assert.Equal(t, "Aetna", r.Payer)
	assert.Len(t, m.PriceFacts(), 1)

	col, ok := m.GroupIdentifier(vocab.FieldMethodology, Group{Payer: "Aetna"})
	require.True(t, ok)
	assert.Equal(t, 3, col.Index)

	// unrecognized suffixes keep the chargemaster default
	r = roleOf(t, resolve("standard_charge|Aetna|whatever"), 0)
	assert.Equal(t, PriceFact, r.Kind)
	assert.Equal(t, model.PriceChargemaster, r.PriceKind)
}

func TestResolve_SlotlessCode(t *testing.T) {
	m := resolve("code", "code_type", "standard_charge")
	slots := m.CodeSlots()
	require.Len(t, slots, 1)
	assert.Equal(t, CodeSlot{Slot: 1, CodeCol: 0, TypeCol: 1}, slots[0])

	m = resolve("code", "code|2", "code|1", "code|1|type", "code|2|type")
	slots = m.CodeSlots()
	require.Len(t, slots, 3)
	assert.Equal(t, 1, slots[0].Slot)
	assert.Equal(t, 2, slots[0].CodeCol)
	assert.Equal(t, 2, slots[1].Slot)
	assert.Equal(t, 0, slots[2].Slot)
	assert.Equal(t, 0, slots[2].CodeCol)
	assert.Equal(t, -1, slots[2].TypeCol)
}

func TestBest_PrefersCanonical(t *testing.T) {
	m := resolve("insurance", "payer_name", "carrier")
	col, ok := m.Best(vocab.FieldPayer)
	require.True(t, ok)
	assert.Equal(t, 1, col.Index)

	m = resolve("insurance", "carrier")
	col, ok = m.Best(vocab.FieldPayer)
	require.True(t, ok)
	assert.Equal(t, 0, col.Index)
}

func TestRole_String(t *testing.T) {
	r := Role{Kind: PriceFact, PriceKind: "negotiated_dollar", Payer: "Aetna", Plan: "PPO", Precedence: PrecedencePattern}
	assert.Equal(t, "price(negotiated_dollar, payer=Aetna, plan=PPO) [pattern]", r.String())
	assert.Equal(t, "identifier(code, slot 2) [canonical]", Role{Kind: Identifier, Field: vocab.FieldCode, Slot: 2, Precedence: PrecedenceCanonical}.String())
	assert.Equal(t, "unassigned", Role{}.String())
}
