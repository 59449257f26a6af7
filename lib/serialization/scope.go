package serialization

import (
	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// Scope flag bits
const (
	scopeReadOnly uint64 = 1 << 0
	scopeLoop     uint64 = 1 << 1
)

// serializeScope encodes a scope as
//
//	[parent-or-empty, calling-or-empty, name, flags, useCount, use1, ..., name1, value1, ...]
func serializeScope(s value.Scope, doc *arena.Document, state *SerializationState) (uint64, error) {
	if idx, ok := state.WithID[s.StorageID()]; ok {
		return idx, nil
	}
	idx := doc.Reserve()
	state.WithID[s.StorageID()] = idx

	var flags uint64
	if s.ReadOnly() {
		flags |= scopeReadOnly
	}
	if s.IsLoop() {
		flags |= scopeLoop
	}
	uses := s.Uses()
	members := s.Members()
	children := make([]uint64, 0, 5+len(uses)+2*len(members))

	for _, link := range []func() (value.Scope, bool){s.Parent, s.Calling} {
		var v value.Value = value.Empty{}
		if l, ok := link(); ok {
			v = l
		}
		c, err := state.Serialize(v, doc)
		if err != nil {
			return 0, err
		}
		children = append(children, c)
	}

	name, err := serializeScalar(value.String(s.Name()), doc, state)
	if err != nil {
		return 0, err
	}
	flagIdx, err := serializeUint(flags, doc, state)
	if err != nil {
		return 0, err
	}
	useCount, err := serializeUint(uint64(len(uses)), doc, state)
	if err != nil {
		return 0, err
	}
	children = append(children, name, flagIdx, useCount)

	for _, u := range uses {
		c, err := serializeScope(u, doc, state)
		if err != nil {
			return 0, err
		}
		children = append(children, c)
	}
	for _, m := range members {
		n, err := serializeScalar(value.String(m.Name), doc, state)
		if err != nil {
			return 0, err
		}
		v, err := state.Serialize(m.Value, doc)
		if err != nil {
			return 0, err
		}
		children = append(children, n, v)
	}

	doc.Set(idx, arena.Element{Kind: arena.ElemScope, Children: children})
	return idx, nil
}

func deserializeScope(idx uint64, doc *arena.Document, state *DeserializationState) (value.Scope, error) {
	if s, ok := state.Scopes[idx]; ok {
		return s, nil
	}
	e, err := expect(doc, idx, arena.ElemScope)
	if err != nil {
		return value.Scope{}, err
	}
	if len(e.Children) < 5 {
		return value.Scope{}, value.DecodeError("element %d: invalid scope with %d children", idx, len(e.Children))
	}

	// the scalar header is decoded before the scope is registered
	name, err := decodeString(e.Children[2], doc, state)
	if err != nil {
		return value.Scope{}, err
	}
	flags, err := decodeUint(e.Children[3], doc, state)
	if err != nil {
		return value.Scope{}, err
	}
	useCount, err := decodeUint(e.Children[4], doc, state)
	if err != nil {
		return value.Scope{}, err
	}
	rest := uint64(len(e.Children) - 5)
	if useCount > rest || (rest-useCount)%2 != 0 {
		return value.Scope{}, value.DecodeError("element %d: invalid scope layout (%d uses, %d trailing children)", idx, useCount, rest)
	}

	s := value.NewScope(name)
	state.Scopes[idx] = s
	s.SetLoop(flags&scopeLoop != 0)

	for i, set := range []func(value.Scope){s.SetParent, s.SetCalling} {
		link, err := optionalScope(e.Children[i], doc, state)
		if err != nil {
			return value.Scope{}, err
		}
		if link != nil {
			set(*link)
		}
	}

	uses := e.Children[5 : 5+useCount]
	for _, u := range uses {
		used, err := deserializeScope(u, doc, state)
		if err != nil {
			return value.Scope{}, err
		}
		s.Use(used)
	}

	members := e.Children[5+useCount:]
	for i := 0; i < len(members); i += 2 {
		n, err := decodeString(members[i], doc, state)
		if err != nil {
			return value.Scope{}, err
		}
		v, err := state.Deserialize(members[i+1], doc)
		if err != nil {
			return value.Scope{}, err
		}
		if err := s.Redeclare(n, v); err != nil {
			return value.Scope{}, &value.Error{Code: value.ErrCDecode, Msg: "invalid scope member", Cause: err}
		}
	}

	// members are populated first, a read-only scope rejects declarations
	s.SetReadOnly(flags&scopeReadOnly != 0)
	return s, nil
}

// optionalScope decodes a scope reference that may be empty
func optionalScope(idx uint64, doc *arena.Document, state *DeserializationState) (*value.Scope, error) {
	e, err := element(doc, idx)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case arena.ElemEmpty:
		return nil, nil
	case arena.ElemScope:
		s, err := deserializeScope(idx, doc, state)
		if err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, value.DecodeError("element %d: expected scope or empty, found %s", idx, e.Kind)
	}
}
