package shape

import (
	"strings"

	"github.com/gyeh/pricemelt/internal/normalize"
	"github.com/gyeh/pricemelt/internal/table"
)

// Profile is the per-column summary the detectors work from. It is
// computed once per table.
type Profile struct {
	Names   []string
	Rows    int
	Cols    int
	Numeric []bool
	// Distinct counts non-empty distinct values per column.
	Distinct []int
	// Groups counts distinct values per column, empty included.
	Groups []int
}

// NumericCount is the number of numeric columns.
func (p *Profile) NumericCount() int {
	n := 0
	for _, num := range p.Numeric {
		if num {
			n++
		}
	}
	return n
}

// NewProfile infers column types and cardinalities. A column is numeric
// when it has at least one non-empty cell and every non-empty cell parses
// as a number.
func NewProfile(t table.Table) *Profile {
	hdr := t.Header()
	data := t.Data()
	p := &Profile{
		Names:    make([]string, len(hdr)),
		Rows:     len(data),
		Cols:     len(hdr),
		Numeric:  make([]bool, len(hdr)),
		Distinct: make([]int, len(hdr)),
		Groups:   make([]int, len(hdr)),
	}
	for c, name := range hdr {
		p.Names[c] = strings.TrimSpace(name)

		seen := make(map[string]struct{})
		nonEmpty, numeric := 0, 0
		hasEmpty := false
		for _, row := range data {
			v := strings.TrimSpace(table.Cell(row, c))
			if v == "" {
				hasEmpty = true
				continue
			}
			nonEmpty++
			if _, ok := normalize.ParseNumber(v); ok {
				numeric++
			}
			seen[v] = struct{}{}
		}
		p.Numeric[c] = nonEmpty > 0 && numeric == nonEmpty
		p.Distinct[c] = len(seen)
		p.Groups[c] = len(seen)
		if hasEmpty {
			p.Groups[c]++
		}
	}
	return p
}
