package serialization

import (
	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// serializeType encodes a type descriptor as [kindTag, parameters...]:
//
//	list:                         [tag, elementType]
//	dict:                         [tag, keyType, valueType]
//	table, table_stream, struct:  [tag, name1, type1, ...]
//
// Types are immutable and interned like scalars.
func serializeType(t value.ValueType, doc *arena.Document, state *SerializationState) (uint64, error) {
	key := t.HashKey()
	if idx, ok := state.Values[key]; ok {
		return idx, nil
	}

	tag, err := serializeUint(uint64(t.TypeKind()), doc, state)
	if err != nil {
		return 0, err
	}
	children := []uint64{tag}

	switch t.TypeKind() {
	case value.TypeList:
		elem, err := serializeType(t.Elem(), doc, state)
		if err != nil {
			return 0, err
		}
		children = append(children, elem)
	case value.TypeDict:
		k, err := serializeType(t.KeyType(), doc, state)
		if err != nil {
			return 0, err
		}
		v, err := serializeType(t.ValueType(), doc, state)
		if err != nil {
			return 0, err
		}
		children = append(children, k, v)
	case value.TypeTable, value.TypeTableStream, value.TypeStruct:
		cols, err := serializeColumns(t.Columns(), doc, state)
		if err != nil {
			return 0, err
		}
		children = append(children, cols...)
	}

	idx := doc.Append(arena.Element{Kind: arena.ElemType, Children: children})
	state.Values[key] = idx
	return idx, nil
}

func serializeColumns(columns []value.ColumnType, doc *arena.Document, state *SerializationState) ([]uint64, error) {
	out := make([]uint64, 0, 2*len(columns))
	for _, c := range columns {
		name, err := serializeScalar(value.String(c.Name), doc, state)
		if err != nil {
			return nil, err
		}
		typ, err := serializeType(c.Type, doc, state)
		if err != nil {
			return nil, err
		}
		out = append(out, name, typ)
	}
	return out, nil
}

func deserializeType(idx uint64, doc *arena.Document, state *DeserializationState) (value.ValueType, error) {
	if t, ok := state.Types[idx]; ok {
		return t, nil
	}
	e, err := expect(doc, idx, arena.ElemType)
	if err != nil {
		return value.ValueType{}, err
	}
	if len(e.Children) == 0 {
		return value.ValueType{}, value.DecodeError("element %d: type without kind tag", idx)
	}
	if err := state.enter(idx); err != nil {
		return value.ValueType{}, err
	}
	defer state.leave(idx)

	tag, err := decodeUint(e.Children[0], doc, state)
	if err != nil {
		return value.ValueType{}, err
	}
	kind := value.TypeKind(tag)
	if tag >= 256 || !kind.Valid() {
		return value.ValueType{}, value.DecodeError("element %d: unknown type kind %d", idx, tag)
	}

	params := e.Children[1:]
	var t value.ValueType
	switch kind {
	case value.TypeList:
		if len(params) != 1 {
			return t, value.DecodeError("element %d: list type needs 1 parameter, found %d", idx, len(params))
		}
		elem, err := deserializeType(params[0], doc, state)
		if err != nil {
			return t, err
		}
		t = value.ListType(elem)
	case value.TypeDict:
		if len(params) != 2 {
			return t, value.DecodeError("element %d: dict type needs 2 parameters, found %d", idx, len(params))
		}
		k, err := deserializeType(params[0], doc, state)
		if err != nil {
			return t, err
		}
		v, err := deserializeType(params[1], doc, state)
		if err != nil {
			return t, err
		}
		t = value.DictType(k, v)
	case value.TypeTable, value.TypeTableStream, value.TypeStruct:
		cols, err := deserializeColumns(idx, params, doc, state)
		if err != nil {
			return t, err
		}
		switch kind {
		case value.TypeTable:
			t = value.TableType(cols...)
		case value.TypeTableStream:
			t = value.TableStreamType(cols...)
		default:
			t = value.StructType(cols...)
		}
	default:
		if len(params) != 0 {
			return t, value.DecodeError("element %d: %s type takes no parameters", idx, kind)
		}
		t, _ = value.SimpleType(kind)
	}

	state.Types[idx] = t
	return t, nil
}

func deserializeColumns(idx uint64, params []uint64, doc *arena.Document, state *DeserializationState) ([]value.ColumnType, error) {
	if len(params)%2 != 0 {
		return nil, value.DecodeError("element %d: column list has odd length %d", idx, len(params))
	}
	cols := make([]value.ColumnType, 0, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		name, err := decodeString(params[i], doc, state)
		if err != nil {
			return nil, err
		}
		typ, err := deserializeType(params[i+1], doc, state)
		if err != nil {
			return nil, err
		}
		cols = append(cols, value.ColumnType{Name: name, Type: typ})
	}
	return cols, nil
}
