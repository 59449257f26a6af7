package serialization

import (
	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// --------------------------------------------------------------------------
// List: [elementType, item1, item2, ...]
// --------------------------------------------------------------------------

func serializeList(l value.List, doc *arena.Document, state *SerializationState) (uint64, error) {
	if idx, ok := state.WithID[l.StorageID()]; ok {
		return idx, nil
	}
	idx := doc.Reserve()
	state.WithID[l.StorageID()] = idx

	items := l.Elements()
	children := make([]uint64, 0, 1+len(items))
	elemType, err := serializeType(l.ElemType(), doc, state)
	if err != nil {
		return 0, err
	}
	children = append(children, elemType)
	for _, item := range items {
		c, err := state.Serialize(item, doc)
		if err != nil {
			return 0, err
		}
		children = append(children, c)
	}

	doc.Set(idx, arena.Element{Kind: arena.ElemList, Children: children})
	return idx, nil
}

func deserializeList(idx uint64, doc *arena.Document, state *DeserializationState) (value.List, error) {
	if l, ok := state.Lists[idx]; ok {
		return l, nil
	}
	e, err := expect(doc, idx, arena.ElemList)
	if err != nil {
		return value.List{}, err
	}
	if len(e.Children) < 1 {
		return value.List{}, value.DecodeError("element %d: list without element type", idx)
	}
	elemType, err := deserializeType(e.Children[0], doc, state)
	if err != nil {
		return value.List{}, err
	}

	l := value.NewList(elemType)
	state.Lists[idx] = l

	items := make([]value.Value, 0, len(e.Children)-1)
	for _, c := range e.Children[1:] {
		item, err := state.Deserialize(c, doc)
		if err != nil {
			return value.List{}, err
		}
		items = append(items, item)
	}
	err = state.fill(func() error {
		if err := l.Append(items...); err != nil {
			return &value.Error{Code: value.ErrCDecode, Msg: "invalid list item", Cause: err}
		}
		return nil
	})
	if err != nil {
		return value.List{}, err
	}
	return l, nil
}

// --------------------------------------------------------------------------
// Dict: [keyType, valueType, key1, value1, ...]
// --------------------------------------------------------------------------

func serializeDict(d value.Dict, doc *arena.Document, state *SerializationState) (uint64, error) {
	if idx, ok := state.WithID[d.StorageID()]; ok {
		return idx, nil
	}
	idx := doc.Reserve()
	state.WithID[d.StorageID()] = idx

	entries := d.Elements()
	children := make([]uint64, 0, 2+2*len(entries))
	keyType, err := serializeType(d.KeyType(), doc, state)
	if err != nil {
		return 0, err
	}
	valueType, err := serializeType(d.ValueType(), doc, state)
	if err != nil {
		return 0, err
	}
	children = append(children, keyType, valueType)
	for _, entry := range entries {
		k, err := state.Serialize(entry.Key, doc)
		if err != nil {
			return 0, err
		}
		v, err := state.Serialize(entry.Value, doc)
		if err != nil {
			return 0, err
		}
		children = append(children, k, v)
	}

	doc.Set(idx, arena.Element{Kind: arena.ElemDict, Children: children})
	return idx, nil
}

func deserializeDict(idx uint64, doc *arena.Document, state *DeserializationState) (value.Dict, error) {
	if d, ok := state.Dicts[idx]; ok {
		return d, nil
	}
	e, err := expect(doc, idx, arena.ElemDict)
	if err != nil {
		return value.Dict{}, err
	}
	if len(e.Children) < 2 || len(e.Children)%2 != 0 {
		return value.Dict{}, value.DecodeError("element %d: invalid dict with %d children", idx, len(e.Children))
	}
	keyType, err := deserializeType(e.Children[0], doc, state)
	if err != nil {
		return value.Dict{}, err
	}
	valueType, err := deserializeType(e.Children[1], doc, state)
	if err != nil {
		return value.Dict{}, err
	}
	if !keyType.IsHashable() {
		return value.Dict{}, value.DecodeError("element %d: dict key type %s is not hashable", idx, keyType)
	}

	d := value.NewDict(keyType, valueType)
	state.Dicts[idx] = d

	entries := make([]value.Entry, 0, (len(e.Children)-2)/2)
	for i := 2; i < len(e.Children); i += 2 {
		k, err := state.Deserialize(e.Children[i], doc)
		if err != nil {
			return value.Dict{}, err
		}
		v, err := state.Deserialize(e.Children[i+1], doc)
		if err != nil {
			return value.Dict{}, err
		}
		entries = append(entries, value.Entry{Key: k, Value: v})
	}
	err = state.fill(func() error {
		for _, entry := range entries {
			if err := d.Insert(entry.Key, entry.Value); err != nil {
				return &value.Error{Code: value.ErrCDecode, Msg: "invalid dict entry", Cause: err}
			}
		}
		return nil
	})
	if err != nil {
		return value.Dict{}, err
	}
	return d, nil
}

// --------------------------------------------------------------------------
// Struct: [parent-or-empty, name1, value1, ...]
// --------------------------------------------------------------------------

func serializeStruct(s value.Struct, doc *arena.Document, state *SerializationState) (uint64, error) {
	if idx, ok := state.WithID[s.StorageID()]; ok {
		return idx, nil
	}
	idx := doc.Reserve()
	state.WithID[s.StorageID()] = idx

	fields := s.Fields()
	children := make([]uint64, 0, 1+2*len(fields))

	var parent value.Value = value.Empty{}
	if p, ok := s.Parent(); ok {
		parent = p
	}
	p, err := state.Serialize(parent, doc)
	if err != nil {
		return 0, err
	}
	children = append(children, p)

	for _, f := range fields {
		name, err := serializeScalar(value.String(f.Name), doc, state)
		if err != nil {
			return 0, err
		}
		v, err := state.Serialize(f.Value, doc)
		if err != nil {
			return 0, err
		}
		children = append(children, name, v)
	}

	doc.Set(idx, arena.Element{Kind: arena.ElemStruct, Children: children})
	return idx, nil
}

func deserializeStruct(idx uint64, doc *arena.Document, state *DeserializationState) (value.Struct, error) {
	if s, ok := state.Structs[idx]; ok {
		return s, nil
	}
	e, err := expect(doc, idx, arena.ElemStruct)
	if err != nil {
		return value.Struct{}, err
	}
	if len(e.Children)%2 != 1 {
		return value.Struct{}, value.DecodeError("element %d: invalid struct with %d children", idx, len(e.Children))
	}

	s := value.NewStruct()
	state.Structs[idx] = s
	state.building++
	defer func() { state.building-- }()

	parent, err := element(doc, e.Children[0])
	if err != nil {
		return value.Struct{}, err
	}
	switch parent.Kind {
	case arena.ElemEmpty:
	case arena.ElemStruct:
		p, err := deserializeStruct(e.Children[0], doc, state)
		if err != nil {
			return value.Struct{}, err
		}
		s.SetParent(p)
	default:
		return value.Struct{}, value.DecodeError("element %d: struct parent must be struct or empty, found %s", idx, parent.Kind)
	}

	for i := 1; i < len(e.Children); i += 2 {
		name, err := decodeString(e.Children[i], doc, state)
		if err != nil {
			return value.Struct{}, err
		}
		v, err := state.Deserialize(e.Children[i+1], doc)
		if err != nil {
			return value.Struct{}, err
		}
		s.Set(name, v)
	}
	return s, nil
}
