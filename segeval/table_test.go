package segeval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	a := NewTable()
	b := NewTable()
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 0, a.Len())
}

func TestTableAppend(t *testing.T) {
	table := NewTable()
	same := table.Append(Row{FieldImage: "a", FieldPrecision: 0.5}).
		Append(Row{FieldImage: "b"}, Row{FieldImage: "c", FieldPrecision: 1.0})
	assert.Same(t, table, same)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []any{"a", "b", "c"}, table.Column(FieldImage))
	assert.Equal(t, []any{0.5, nil, 1.0}, table.Column(FieldPrecision))
	assert.Equal(t, "b", table.Row(1)[FieldImage])
}
