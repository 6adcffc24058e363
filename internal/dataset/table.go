// Package dataset implements the in-memory table the pipeline threads through each step,
// along with payload shaping, joining, cleaning and summary statistics.
package dataset

import (
	"fmt"
	"math"

	"github.com/desertthunder/staffx/internal/shared"
)

// Table is a column-ordered set of rows. A nil cell is a missing value.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// NewTable creates an empty [Table] with the given columns. Duplicate names are ignored.
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AddColumn appends a column, padding existing rows with missing cells, and returns its index.
// Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.columns = append(t.columns, name)
	t.index[name] = len(t.columns) - 1
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], nil)
	}
	return len(t.columns) - 1
}

// AppendRow appends a row whose cells line up with [Table.Columns].
func (t *Table) AppendRow(cells []any) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: row has %d cells, table has %d columns", shared.ErrSchema, len(cells), len(t.columns))
	}
	t.rows = append(t.rows, cells)
	return nil
}

// Row returns row i. The slice is shared with the table.
func (t *Table) Row(i int) []any { return t.rows[i] }

// Value returns the cell at row i in column name.
func (t *Table) Value(i int, name string) (any, bool) {
	c, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.rows[i][c], true
}

// Set stores v at row i in column name, adding the column when it does not exist.
func (t *Table) Set(i int, name string, v any) {
	c := t.AddColumn(name)
	t.rows[i][c] = v
}

// Column returns a copy of the cells in column name.
func (t *Table) Column(name string) ([]any, bool) {
	c, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, true
}

// Grow reserves capacity for n more rows.
func (t *Table) Grow(n int) {
	if n <= 0 {
		return
	}
	if cap(t.rows)-len(t.rows) < n {
		rows := make([][]any, len(t.rows), len(t.rows)+n)
		copy(rows, t.rows)
		t.rows = rows
	}
}

// Concat returns a new table holding the rows of t followed by the rows of other.
//
// Columns are the union of both, t's first; cells a row does not have are missing.
func Concat(t, other *Table) *Table {
	out := NewTable(t.columns...)
	for _, c := range other.columns {
		out.AddColumn(c)
	}
	out.rows = make([][]any, 0, t.Len()+other.Len())

	for _, src := range []*Table{t, other} {
		mapping := make([]int, len(src.columns))
		for i, c := range src.columns {
			mapping[i] = out.index[c]
		}
		for _, row := range src.rows {
			cells := make([]any, len(out.columns))
			for i, v := range row {
				cells[mapping[i]] = v
			}
			out.rows = append(out.rows, cells)
		}
	}
	return out
}

// IsMissing reports whether v counts as a missing value: nil or a float NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}
