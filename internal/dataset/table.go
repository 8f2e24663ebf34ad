// Package dataset provides the tabular value type passed between the
// transformation stage and the output sinks.
package dataset

import (
	"fmt"
	"math"
)

// Table is an ordered, in-memory table: named columns plus rows of cells.
// Cells hold int64, float64 or string values (nil is allowed and rendered
// as SQL NULL / empty spreadsheet cell).
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// New creates an empty table with the given name and column order.
func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds one row. The row must have exactly one cell per column.
func (t *Table) Append(row []interface{}) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, want %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// RowCount returns the number of data rows (the header is not a row).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Chunks partitions the rows into consecutive slices of at most size rows,
// preserving order. An empty table yields no chunks. The returned slices
// share the table's backing array.
func (t *Table) Chunks(size int) [][][]interface{} {
	if size <= 0 || t.Empty() {
		return nil
	}
	n := int(math.Ceil(float64(len(t.Rows)) / float64(size)))
	chunks := make([][][]interface{}, 0, n)
	for start := 0; start < len(t.Rows); start += size {
		end := start + size
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		chunks = append(chunks, t.Rows[start:end])
	}
	return chunks
}

// ColumnType is the SQL affinity inferred for a column.
type ColumnType string

const (
	ColumnInteger ColumnType = "INTEGER"
	ColumnReal    ColumnType = "REAL"
	ColumnText    ColumnType = "TEXT"
)

// ColumnTypes infers a SQL type per column from the cell values: all-integer
// columns map to INTEGER, numeric columns to REAL, anything else to TEXT.
// Nil cells do not influence the inference; an all-nil column is TEXT.
func (t *Table) ColumnTypes() []ColumnType {
	types := make([]ColumnType, len(t.Columns))
	for i := range types {
		types[i] = t.columnType(i)
	}
	return types
}

func (t *Table) columnType(col int) ColumnType {
	seen := false
	allInt := true
	for _, row := range t.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case int, int32, int64:
			seen = true
		case float64, float32:
			seen = true
			allInt = false
		default:
			return ColumnText
		}
	}
	if !seen {
		return ColumnText
	}
	if allInt {
		return ColumnInteger
	}
	return ColumnReal
}
