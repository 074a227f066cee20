// Package semantics assigns a role to every column of a price table:
// identifier (code slots, payer, plan, description, ...), price fact
// (chargemaster, cash, negotiated, min, max) or unassigned.
package semantics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gyeh/pricemelt/internal/header"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/normalize"
	"github.com/gyeh/pricemelt/internal/vocab"
)

var (
	codeSlot     = regexp.MustCompile(`^code\|(\d+)$`)
	codeTypeSlot = regexp.MustCompile(`^code\|(\d+)\|type$`)
	negotiated   = regexp.MustCompile(`(?:^|[ _|\-])(?:negotiated|payer[_ ]?specific|allowed|contracted)`)
	separators   = regexp.MustCompile(`[_\-|]+`)
)

var codeTypeNames = map[string]bool{
	"code_type": true,
	"code type": true,
	"code|type": true,
}

var standardCharge = map[string]bool{
	"standard_charge": true,
	"standard charge": true,
}

// Resolver builds HeaderMaps from a vocabulary.
type Resolver struct {
	vocab *vocab.Vocabulary
}

// NewResolver returns a Resolver over v.
func NewResolver(v *vocab.Vocabulary) *Resolver {
	return &Resolver{vocab: v}
}

// Resolve assigns one role per column. names are the raw header cells;
// casing is kept for payer and plan names embedded in headers.
func (r *Resolver) Resolve(names []string) *HeaderMap {
	bases := header.NormalizeAll(names)
	unique := header.MakeUnique(bases)

	m := &HeaderMap{Columns: make([]Column, len(names))}
	for i, orig := range names {
		m.Columns[i] = Column{
			Index:    i,
			Original: orig,
			Base:     bases[i],
			Name:     unique[i],
			Role:     r.role(orig, bases[i]),
		}
	}
	promoteSlotless(m, vocab.FieldCode)
	promoteSlotless(m, vocab.FieldCodeType)

	for _, c := range m.Columns {
		if c.Role.Kind == PriceFact && c.Role.Grouped() {
			m.variant = Wide
			break
		}
	}
	return m
}

// promoteSlotless moves the first slot-less code (or code type) column to
// slot 1 when no numbered slot 1 exists.
func promoteSlotless(m *HeaderMap, field vocab.Field) {
	first := -1
	for i, c := range m.Columns {
		if c.Role.Kind != Identifier || c.Role.Field != field {
			continue
		}
		if c.Role.Slot == 1 {
			return
		}
		if c.Role.Slot == 0 && first < 0 {
			first = i
		}
	}
	if first >= 0 {
		m.Columns[first].Role.Slot = 1
	}
}

func (r *Resolver) role(orig, base string) Role {
	if base == "" {
		return Role{}
	}
	if role, ok := codeRole(base); ok {
		return role
	}

	parts := strings.Split(base, "|")
	origParts := splitOriginal(orig, len(parts))

	if role, ok := r.groupedRole(parts, origParts); ok {
		return role
	}

	if field, canonical, ok := r.vocab.Identifier(base); ok {
		p := PrecedenceAlias
		if canonical {
			p = PrecedenceCanonical
		}
		return Role{Kind: Identifier, Field: field, Precedence: p}
	}

	if standardCharge[parts[0]] && len(parts) <= 3 {
		return r.standardChargeRole(parts, origParts)
	}

	if kind, ok := r.vocab.PriceAlias(base); ok {
		return Role{Kind: PriceFact, PriceKind: kind, Precedence: PrecedenceAlias}
	}

	if loc := negotiated.FindStringIndex(base); loc != nil {
		kind := model.PriceNegotiatedDollar
		if strings.Contains(base, "percent") || strings.Contains(base, "pct") || strings.Contains(base, "%") {
			kind = model.PriceNegotiatedPercentage
		}
		payer := normalize.CleanName(separators.ReplaceAllString(base[:loc[0]], " "))
		if payer != "" {
			payer = normalize.TitleCase(payer)
		}
		return Role{Kind: PriceFact, PriceKind: kind, Payer: payer, Precedence: PrecedenceHeuristic}
	}

	return Role{}
}

func codeRole(base string) (Role, bool) {
	if m := codeSlot.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Role{Kind: Identifier, Field: vocab.FieldCode, Slot: n, Precedence: PrecedenceCanonical}, true
	}
	if m := codeTypeSlot.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Role{Kind: Identifier, Field: vocab.FieldCodeType, Slot: n, Precedence: PrecedenceCanonical}, true
	}
	if base == "code" {
		return Role{Kind: Identifier, Field: vocab.FieldCode, Precedence: PrecedenceCanonical}, true
	}
	if codeTypeNames[base] {
		return Role{Kind: Identifier, Field: vocab.FieldCodeType, Precedence: PrecedenceCanonical}, true
	}
	return Role{}, false
}

// groupedRole handles headers that embed a payer and plan:
// standard_charge|<payer>|<plan>|<metric> and <field>|<payer>|<plan>.
func (r *Resolver) groupedRole(parts, origParts []string) (Role, bool) {
	switch {
	case standardCharge[parts[0]] && len(parts) >= 4:
		metric := parts[len(parts)-1]
		payer := embeddedName(origParts[1])
		plan := embeddedName(strings.Join(origParts[2:len(origParts)-1], "|"))
		if kind, ok := r.vocab.PriceSuffix(metric); ok {
			return Role{Kind: PriceFact, PriceKind: kind, Payer: payer, Plan: plan, Precedence: PrecedencePattern}, true
		}
		if field, _, ok := r.vocab.Identifier(metric); ok {
			return Role{Kind: Identifier, Field: field, Payer: payer, Plan: plan, Precedence: PrecedencePattern}, true
		}
		return Role{}, true

	case len(parts) == 3 && !standardCharge[parts[0]]:
		field, _, ok := r.vocab.Identifier(parts[0])
		if !ok || field == vocab.FieldPayer || field == vocab.FieldPlan || field == vocab.FieldDescription {
			return Role{}, false
		}
		return Role{
			Kind:       Identifier,
			Field:      field,
			Payer:      embeddedName(origParts[1]),
			Plan:       embeddedName(origParts[2]),
			Precedence: PrecedencePattern,
		}, true
	}
	return Role{}, false
}

// standardChargeRole handles standard_charge, standard_charge|<suffix> and
// standard_charge|<payer>|<suffix>. A payer-scoped identifier suffix such
// as methodology makes the column an identifier; any other unrecognized
// suffix is treated as the chargemaster price.
func (r *Resolver) standardChargeRole(parts, origParts []string) Role {
	role := Role{Kind: PriceFact, PriceKind: model.PriceChargemaster, Precedence: PrecedencePattern}
	switch len(parts) {
	case 2:
		if kind, ok := r.vocab.PriceSuffix(parts[1]); ok {
			role.PriceKind = kind
		}
	case 3:
		if kind, ok := r.vocab.PriceSuffix(parts[2]); ok {
			role.PriceKind = kind
			role.Payer = embeddedName(origParts[1])
		} else if field, _, ok := r.vocab.Identifier(parts[2]); ok {
			return Role{Kind: Identifier, Field: field, Payer: embeddedName(origParts[1]), Precedence: PrecedencePattern}
		} else if kind, ok := r.vocab.PriceSuffix(parts[1]); ok {
			role.PriceKind = kind
		}
	}
	return role
}

// splitOriginal splits the raw header on pipes so that embedded payer and
// plan names keep their casing. It falls back to the normalized parts'
// count when the raw header does not line up.
func splitOriginal(orig string, n int) []string {
	parts := strings.Split(strings.TrimSpace(orig), "|")
	if len(parts) != n {
		out := make([]string, n)
		for i := range out {
			if i < len(parts) {
				out[i] = parts[i]
			}
		}
		return out
	}
	return parts
}

func embeddedName(s string) string {
	return normalize.CleanName(strings.ReplaceAll(s, "_", " "))
}
