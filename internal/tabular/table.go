// Package tabular loads questionnaire CSV exports into a simple row/column
// structure, tolerating unknown encodings, delimiters and leading metadata rows.
package tabular

// Table holds parsed CSV data. Column names keep their source order and may
// contain duplicates; rows are positional and padded to the header width.
// A Table is built once by Parse and read-only afterwards.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Value returns the trimmed-width cell for the first column matching name.
// Missing columns and short rows yield "".
func (t *Table) Value(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	for i, c := range t.Columns {
		if c == column {
			if i < len(t.Rows[row]) {
				return t.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}

// HasColumn reports whether the header contains the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
