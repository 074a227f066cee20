package semantics

import (
	"fmt"
	"strings"

	"github.com/gyeh/pricemelt/internal/vocab"
)

// Kind is the broad category of a column.
type Kind int

const (
	Unassigned Kind = iota
	Identifier
	PriceFact
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case PriceFact:
		return "price"
	default:
		return "unassigned"
	}
}

// Precedence records how a role was recognized. When several columns
// resolve to the same field, the higher precedence wins.
type Precedence int

const (
	PrecedenceNone Precedence = iota
	PrecedenceHeuristic
	PrecedencePattern
	PrecedenceAlias
	PrecedenceCanonical
)

func (p Precedence) String() string {
	switch p {
	case PrecedenceCanonical:
		return "canonical"
	case PrecedenceAlias:
		return "alias"
	case PrecedencePattern:
		return "pattern"
	case PrecedenceHeuristic:
		return "heuristic"
	default:
		return "none"
	}
}

// Role is the meaning assigned to one column.
type Role struct {
	Kind       Kind
	Field      vocab.Field // Identifier only
	Slot       int         // code/code_type slot; 0 means slot-less
	PriceKind  string      // PriceFact only
	Payer      string      // payer embedded in the header, if any
	Plan       string      // plan embedded in the header, if any
	Precedence Precedence
}

// Grouped reports whether the header carried its own payer or plan.
func (r Role) Grouped() bool {
	return r.Payer != "" || r.Plan != ""
}

// Group returns the embedded (payer, plan) pair.
func (r Role) Group() Group {
	return Group{Payer: r.Payer, Plan: r.Plan}
}

func (r Role) String() string {
	var b strings.Builder
	switch r.Kind {
	case Identifier:
		fmt.Fprintf(&b, "identifier(%s", r.Field)
		if r.Slot > 0 {
			fmt.Fprintf(&b, ", slot %d", r.Slot)
		}
	case PriceFact:
		fmt.Fprintf(&b, "price(%s", r.PriceKind)
	default:
		return "unassigned"
	}
	if r.Payer != "" {
		fmt.Fprintf(&b, ", payer=%s", r.Payer)
	}
	if r.Plan != "" {
		fmt.Fprintf(&b, ", plan=%s", r.Plan)
	}
	fmt.Fprintf(&b, ") [%s]", r.Precedence)
	return b.String()
}

// Group is a (payer, plan) pair embedded in wide-format headers.
type Group struct {
	Payer string
	Plan  string
}
