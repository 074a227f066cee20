package semantics

import (
	"slices"

	"github.com/gyeh/pricemelt/internal/vocab"
)

// Variant is the schema layout of a table, chosen once per HeaderMap.
type Variant int

const (
	// RowWise tables carry payer and plan (when present) in their own
	// columns; each price column applies to every row.
	RowWise Variant = iota
	// Wide tables embed payer and plan in price headers, e.g.
	// standard_charge|Aetna|PPO|negotiated_dollar.
	Wide
)

func (v Variant) String() string {
	if v == Wide {
		return "wide"
	}
	return "row_wise"
}

// Column is one resolved header position.
type Column struct {
	Index    int
	Original string
	Base     string // normalized name before de-duplication
	Name     string // normalized, unique within the table
	Role     Role
}

// HeaderMap assigns exactly one role to every column. It is read-only
// once built.
type HeaderMap struct {
	Columns []Column
	variant Variant
}

// Variant reports the table layout.
func (m *HeaderMap) Variant() Variant {
	return m.variant
}

// PriceFacts returns price-fact columns in header order.
func (m *HeaderMap) PriceFacts() []Column {
	return m.filter(PriceFact)
}

// Identifiers returns identifier columns in header order.
func (m *HeaderMap) Identifiers() []Column {
	return m.filter(Identifier)
}

// Unassigned returns columns with no recognized role.
func (m *HeaderMap) Unassigned() []Column {
	return m.filter(Unassigned)
}

func (m *HeaderMap) filter(k Kind) []Column {
	var out []Column
	for _, c := range m.Columns {
		if c.Role.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the unique normalized names in header order.
func (m *HeaderMap) Names() []string {
	out := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		out[i] = c.Name
	}
	return out
}

// Groups lists the distinct embedded (payer, plan) pairs of the price
// columns, in header order.
func (m *HeaderMap) Groups() []Group {
	var out []Group
	seen := make(map[Group]bool)
	for _, c := range m.Columns {
		if c.Role.Kind != PriceFact || !c.Role.Grouped() {
			continue
		}
		g := c.Role.Group()
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// Best returns the table-wide column for field: highest precedence, then
// leftmost. Group-scoped columns are ignored.
func (m *HeaderMap) Best(field vocab.Field) (Column, bool) {
	var best Column
	found := false
	for _, c := range m.Columns {
		r := c.Role
		if r.Kind != Identifier || r.Field != field || r.Grouped() {
			continue
		}
		if !found || r.Precedence > best.Role.Precedence {
			best = c
			found = true
		}
	}
	return best, found
}

// GroupIdentifier returns the group-scoped column for field in group g.
func (m *HeaderMap) GroupIdentifier(field vocab.Field, g Group) (Column, bool) {
	for _, c := range m.Columns {
		r := c.Role
		if r.Kind == Identifier && r.Field == field && r.Grouped() && r.Group() == g {
			return c, true
		}
	}
	return Column{}, false
}

// CodeSlot pairs the code and code-type columns of one slot. A missing
// column has index -1.
type CodeSlot struct {
	Slot    int
	CodeCol int
	TypeCol int
}

// CodeSlots returns numbered slots in ascending order followed by the
// slot-less pair, if any.
func (m *HeaderMap) CodeSlots() []CodeSlot {
	bySlot := make(map[int]*CodeSlot)
	var numbered []int
	get := func(slot int) *CodeSlot {
		s, ok := bySlot[slot]
		if !ok {
			s = &CodeSlot{Slot: slot, CodeCol: -1, TypeCol: -1}
			bySlot[slot] = s
			if slot > 0 {
				numbered = append(numbered, slot)
			}
		}
		return s
	}
	for _, c := range m.Columns {
		r := c.Role
		if r.Kind != Identifier || r.Grouped() {
			continue
		}
		switch r.Field {
		case vocab.FieldCode:
			if s := get(r.Slot); s.CodeCol < 0 {
				s.CodeCol = c.Index
			}
		case vocab.FieldCodeType:
			if s := get(r.Slot); s.TypeCol < 0 {
				s.TypeCol = c.Index
			}
		}
	}
	slices.Sort(numbered)
	out := make([]CodeSlot, 0, len(bySlot))
	for _, n := range numbered {
		out = append(out, *bySlot[n])
	}
	if s, ok := bySlot[0]; ok {
		out = append(out, *s)
	}
	return out
}
