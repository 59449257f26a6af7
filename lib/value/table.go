package value

import (
	"strings"
)

// Row is one fixed width row of a table or table stream. Rows are immutable.
type Row struct {
	cells []Value
}

// NewRow creates a row from the given cells.
func NewRow(cells ...Value) Row {
	c := make([]Value, len(cells))
	copy(c, cells)
	return Row{cells: c}
}

// Cells returns a copy of the cells.
func (r Row) Cells() []Value {
	c := make([]Value, len(r.cells))
	copy(c, r.cells)
	return c
}

// Cell returns the cell at index i.
func (r Row) Cell(i int) (Value, bool) {
	if i < 0 || i >= len(r.cells) {
		return nil, false
	}
	return r.cells[i], true
}

// Len returns the width of the row.
func (r Row) Len() int { return len(r.cells) }

func (r Row) equal(o Row, p pairPath) bool {
	if len(r.cells) != len(o.cells) {
		return false
	}
	for i := range r.cells {
		if !equalValues(r.cells[i], o.cells[i], p) {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var sb strings.Builder
	r.render(&sb, path{})
	return sb.String()
}

func (r Row) render(sb *strings.Builder, p path) {
	sb.WriteByte('[')
	renderSeq(sb, r.cells, p)
	sb.WriteByte(']')
}

// Table is an immutable list of rows with a fixed column schema.
type Table struct {
	columns []ColumnType
	rows    []Row
}

// NewTable creates a table. Every row must have one cell per column and each
// cell must satisfy its column type.
func NewTable(columns []ColumnType, rows []Row) (Table, error) {
	for i, r := range rows {
		if err := checkRow(columns, r); err != nil {
			return Table{}, ArgumentError("row %d: %s", i, err.Msg)
		}
	}
	rs := make([]Row, len(rows))
	copy(rs, rows)
	return Table{columns: cloneColumns(columns), rows: rs}, nil
}

func checkRow(columns []ColumnType, r Row) *Error {
	if len(r.cells) != len(columns) {
		return ArgumentError("expected %d cells, got %d", len(columns), len(r.cells))
	}
	for i, c := range columns {
		if !c.Type.Is(r.cells[i]) {
			return ArgumentError("column %s: expected %s, got %s", c.Name, c.Type, r.cells[i].Type())
		}
	}
	return nil
}

// Columns returns the column schema.
func (t Table) Columns() []ColumnType { return cloneColumns(t.columns) }

// Rows returns the rows.
func (t Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Readable returns a row stream over the table.
func (t Table) Readable() Readable { return NewTableReader(t) }

// ---- Value Methods ----

func (Table) Kind() Kind { return KindTable }
func (t Table) Type() ValueType { return TableType(t.columns...) }

func (t Table) String() string {
	var sb strings.Builder
	t.render(&sb, path{})
	return sb.String()
}

// Tables are values, a cycle through a table always passes a shared container
// which stops the walk.
func (t Table) render(sb *strings.Builder, p path) {
	sb.WriteString("table{")
	for i, r := range t.rows {
		if i > 0 {
			sb.WriteByte(' ')
		}
		r.render(sb, p)
	}
	sb.WriteByte('}')
}

func (t Table) Equal(other Value) bool { return t.equal(other, pairPath{}) }

func (t Table) equal(other Value, p pairPath) bool {
	o, ok := other.(Table)
	if !ok || len(o.rows) != len(t.rows) || !t.Type().Equal(o.Type()) {
		return false
	}
	for i := range t.rows {
		if !t.rows[i].equal(o.rows[i], p) {
			return false
		}
	}
	return true
}

func (t Table) Hash() uint64 { return t.hash(path{}) }

func (t Table) hash(p path) uint64 {
	h := combineOrdered(uint64(offset64)^hashSeed^uint64(KindTable), t.Type().Hash())
	for _, r := range t.rows {
		for _, c := range r.cells {
			h = combineOrdered(h, hashValue(c, p))
		}
	}
	return h
}

func (t Table) Materialize() Value {
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		cells := make([]Value, len(r.cells))
		for j, c := range r.cells {
			cells[j] = c.Materialize()
		}
		rows[i] = Row{cells: cells}
	}
	return Table{columns: materializeColumns(t.columns), rows: rows}
}
