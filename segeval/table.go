package segeval

import (
	"github.com/google/uuid"
)

// Field names of metric rows
const (
	FieldImage         = "Image"
	FieldThreshold     = "Threshold"
	FieldPrecision     = "Precision"
	FieldArea          = "Area"
	FieldFalseNegative = "False_Negative"
	FieldImageName     = "Image_Name"
	FieldMerges        = "Merges"
	FieldSplits        = "Splits"
)

// Row maps field names to scalar values (string, float64 or int)
type Row map[string]any

// Table is an append-only sequence of metric rows owned by the caller.
// Metric functions append to it and return it for chaining. Not safe for concurrent use.
type Table struct {
	// ID identifies accumulation run. Evaluator logs it as "run"; otherwise it is
	// only meant for external persistence to tell runs apart.
	ID   uuid.UUID
	rows []Row
}

// NewTable creates empty table with fresh ID
func NewTable() *Table {
	return &Table{
		ID:   uuid.New(),
		rows: make([]Row, 0),
	}
}

// Append adds rows to the end of table
func (t *Table) Append(rows ...Row) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Len returns number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns rows in append order. Returned slice must not be modified.
func (t *Table) Rows() []Row {
	return t.rows
}

// Row returns i-th row
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Column returns values of given field over all rows (nil where absent)
func (t *Table) Column(field string) []any {
	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[field]
	}
	return values
}
