package serialization

import (
	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// serializeTable encodes a table as
//
//	[columnCount, rowCount, name1, type1, ..., cells in row-major order]
//
// Tables are immutable values without identity and are encoded per occurrence.
func serializeTable(t value.Table, doc *arena.Document, state *SerializationState) (uint64, error) {
	columns := t.Columns()
	rows := t.Rows()

	colCount, err := serializeUint(uint64(len(columns)), doc, state)
	if err != nil {
		return 0, err
	}
	rowCount, err := serializeUint(uint64(len(rows)), doc, state)
	if err != nil {
		return 0, err
	}
	children := make([]uint64, 0, 2+2*len(columns)+len(rows)*len(columns))
	children = append(children, colCount, rowCount)

	cols, err := serializeColumns(columns, doc, state)
	if err != nil {
		return 0, err
	}
	children = append(children, cols...)

	for _, r := range rows {
		for _, cell := range r.Cells() {
			c, err := state.Serialize(cell, doc)
			if err != nil {
				return 0, err
			}
			children = append(children, c)
		}
	}

	return doc.Append(arena.Element{Kind: arena.ElemTable, Children: children}), nil
}

func deserializeTable(idx uint64, doc *arena.Document, state *DeserializationState) (value.Value, error) {
	if v, ok := state.Values[idx]; ok {
		return v, nil
	}
	e, err := expect(doc, idx, arena.ElemTable)
	if err != nil {
		return nil, err
	}
	if len(e.Children) < 2 {
		return nil, value.DecodeError("element %d: invalid table with %d children", idx, len(e.Children))
	}
	if err := state.enter(idx); err != nil {
		return nil, err
	}
	defer state.leave(idx)

	colCount, err := decodeUint(e.Children[0], doc, state)
	if err != nil {
		return nil, err
	}
	rowCount, err := decodeUint(e.Children[1], doc, state)
	if err != nil {
		return nil, err
	}
	n := uint64(len(e.Children) - 2)
	if !tableShapeValid(colCount, rowCount, n) {
		return nil, value.DecodeError("element %d: table of %d columns and %d rows does not match %d children", idx, colCount, rowCount, n)
	}

	columns, err := deserializeColumns(idx, e.Children[2:2+2*colCount], doc, state)
	if err != nil {
		return nil, err
	}
	cells := e.Children[2+2*colCount:]
	rows := make([]value.Row, 0, rowCount)
	for r := uint64(0); r < rowCount; r++ {
		row := make([]value.Value, colCount)
		for c := uint64(0); c < colCount; c++ {
			v, err := state.Deserialize(cells[r*colCount+c], doc)
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		rows = append(rows, value.NewRow(row...))
	}

	t, err := value.NewTable(columns, rows)
	if err != nil {
		return nil, &value.Error{Code: value.ErrCDecode, Msg: "invalid table", Cause: err}
	}
	state.Values[idx] = t
	return t, nil
}

// maxEmptyRows limits the rows of a table without columns, which occupy no
// children and could otherwise claim arbitrary memory
const maxEmptyRows = 1 << 16

// tableShapeValid checks that n children hold the column header and cells
// without overflowing
func tableShapeValid(colCount, rowCount, n uint64) bool {
	if colCount > n/2 {
		return false
	}
	cells := n - 2*colCount
	if colCount == 0 {
		return cells == 0 && rowCount <= maxEmptyRows
	}
	return cells%colCount == 0 && cells/colCount == rowCount
}
