package serialization

import (
	"strings"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// serializeCommand stores a command by its full name path: [segment1, segment2, ...]
func serializeCommand(c value.Command, doc *arena.Document, state *SerializationState) (uint64, error) {
	path := c.Path()
	if len(path) == 0 {
		return 0, value.ArgumentError("can not serialize command without name")
	}
	children := make([]uint64, 0, len(path))
	for _, seg := range path {
		idx, err := serializeScalar(value.String(seg), doc, state)
		if err != nil {
			return 0, err
		}
		children = append(children, idx)
	}
	return doc.Append(arena.Element{Kind: arena.ElemCommand, Children: children}), nil
}

// deserializeCommand resolves a command by name in the environment.
func deserializeCommand(idx uint64, doc *arena.Document, state *DeserializationState) (value.Value, error) {
	if v, ok := state.Values[idx]; ok {
		return v, nil
	}
	e, err := expect(doc, idx, arena.ElemCommand)
	if err != nil {
		return nil, err
	}
	if len(e.Children) == 0 {
		return nil, value.DecodeError("element %d: command without name", idx)
	}
	path := make([]string, len(e.Children))
	for i, c := range e.Children {
		seg, err := decodeString(c, doc, state)
		if err != nil {
			return nil, err
		}
		path[i] = seg
	}

	name := strings.Join(path, ":")
	if state.Env == nil {
		return nil, value.DecodeError("can not resolve command %s without environment", name)
	}
	v, ok := state.Env.Lookup(path)
	if !ok {
		return nil, value.DecodeError("unknown command %s", name)
	}
	cmd, ok := v.(value.Command)
	if !ok {
		return nil, value.DecodeError("%s is a %s, not a command", name, v.Kind())
	}
	state.Values[idx] = cmd
	return cmd, nil
}
