// Package table provides the in-memory table value flowing through the
// pipeline and the pure cleaning transformations applied to it.
package table

// Table is a rectangular, column-ordered table of strings. Every row
// has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t Table) NumCols() int {
	return len(t.Columns)
}

// Clone returns a deep copy. The cleaning transformations operate on
// copies so upstream cached values are never mutated.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// selectColumns returns a table containing only the columns at the
// given indices, in order.
func (t Table) selectColumns(keep []int) Table {
	out := Table{
		Columns: make([]string, len(keep)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, col := range keep {
		out.Columns[i] = t.Columns[col]
	}
	for r, row := range t.Rows {
		newRow := make([]string, len(keep))
		for i, col := range keep {
			newRow[i] = row[col]
		}
		out.Rows[r] = newRow
	}
	return out
}
