// Package table holds the in-memory representation of a parsed tabular
// file: ordered rows of ordered string cells.
package table

// Table is a parsed table. Row 0 is the header candidate. A Table is not
// modified after construction; operations that drop rows return a new
// Table sharing the underlying cells.
type Table struct {
	Label string
	Rows  [][]string
}

// New wraps rows under a label (usually the source file name).
func New(label string, rows [][]string) Table {
	return Table{Label: label, Rows: rows}
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Data returns every row after the header.
func (t Table) Data() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// NumRows is the number of data rows.
func (t Table) NumRows() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows) - 1
}

// NumCols is the header width.
func (t Table) NumCols() int {
	return len(t.Header())
}

// Row returns raw row i (0 = header) or nil when out of range.
func (t Table) Row(i int) []string {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i]
}

// DropRows returns the table without its first n rows.
func (t Table) DropRows(n int) Table {
	if n <= 0 {
		return t
	}
	if n >= len(t.Rows) {
		return Table{Label: t.Label}
	}
	return Table{Label: t.Label, Rows: t.Rows[n:]}
}

// Cell returns row[col], or "" when the row is shorter than col.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
