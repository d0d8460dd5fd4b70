// Package recordset defines the in-memory representation of a parsed tabular
// file: an ordered column list plus ordered rows of values. A RecordSet is
// built once by a parser and treated as read-only afterwards; missing values
// are represented as nil.
package recordset

import "fmt"

// RecordSet holds parsed tabular data. Columns preserves the source header
// order; every row in Rows is aligned to Columns by index.
type RecordSet struct {
	Columns []string
	Rows    [][]any
}

// New constructs a RecordSet and verifies every row width matches the column
// count. Parsers are expected to enforce width while reading; this check
// guards construction from other call sites.
func New(columns []string, rows [][]any) (*RecordSet, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("recordset: row %d has %d values, want %d", i, len(row), len(columns))
		}
	}
	return &RecordSet{Columns: columns, Rows: rows}, nil
}

// NumRows returns the number of data rows (header excluded by construction).
func (rs *RecordSet) NumRows() int { return len(rs.Rows) }

// NumCols returns the number of columns.
func (rs *RecordSet) NumCols() int { return len(rs.Columns) }

// Head returns up to n leading rows. The returned slice aliases the
// underlying rows; callers must not mutate it.
func (rs *RecordSet) Head(n int) [][]any {
	if n < 0 {
		n = 0
	}
	if n > len(rs.Rows) {
		n = len(rs.Rows)
	}
	return rs.Rows[:n]
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (rs *RecordSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MissingCounts tallies nil values per column and returns only the columns
// that have at least one missing value, in column order.
func (rs *RecordSet) MissingCounts() []MissingCount {
	counts := make([]int, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, v := range row {
			if v == nil {
				counts[i]++
			}
		}
	}
	var out []MissingCount
	for i, n := range counts {
		if n > 0 {
			out = append(out, MissingCount{Column: rs.Columns[i], Count: n})
		}
	}
	return out
}

// MissingCount pairs a column name with its nil-value tally.
type MissingCount struct {
	Column string
	Count  int
}
