package serialization

import (
	"time"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("serialization")

// Serialize walks v and returns the arena document encoding it.
//
// Streams met during the walk are drained into their resident form (and are
// consumed). Shared containers are encoded once per storage, so aliasing and
// cycles are preserved. No document is returned on error.
func Serialize(v value.Value) (*arena.Document, error) {
	start := time.Now()
	doc := &arena.Document{}
	state := NewSerializationState()

	root, err := state.Serialize(v, doc)
	if err != nil {
		serializeErrors.Inc()
		return nil, err
	}
	doc.Root = root

	serializeTotal.Inc()
	arenaElements.Update(float64(len(doc.Elements)))
	plog.Debugf("serialized %s into %d elements (%d containers) in %s", v.Kind(), len(doc.Elements), len(state.WithID), time.Since(start))
	return doc, nil
}

// Deserialize reconstructs the value at the root of doc. Commands are
// resolved in env, which may be nil if the document contains no commands.
func Deserialize(doc *arena.Document, env Environment) (value.Value, error) {
	if err := doc.Validate(); err != nil {
		deserializeErrors.Inc()
		plog.Warningf("rejected invalid document: %v", err)
		return nil, &value.Error{Code: value.ErrCDecode, Msg: "invalid document", Cause: err}
	}

	state := NewDeserializationState(env)
	v, err := state.Deserialize(doc.Root, doc)
	if err == nil {
		err = state.finish()
	}
	if err != nil {
		deserializeErrors.Inc()
		plog.Warningf("failed to deserialize document with %d elements: %v", len(doc.Elements), err)
		return nil, err
	}

	deserializeTotal.Inc()
	plog.Debugf("deserialized %s from %d elements", v.Kind(), len(doc.Elements))
	return v, nil
}

// Serialize appends the encoding of v to doc and returns its index. Containers
// already serialized with this state are referenced, not encoded again.
func (s *SerializationState) Serialize(v value.Value, doc *arena.Document) (uint64, error) {
	switch tv := v.(type) {
	case value.ValueType:
		return serializeType(tv, doc, s)
	case value.List:
		return serializeList(tv, doc, s)
	case value.Dict:
		return serializeDict(tv, doc, s)
	case value.Struct:
		return serializeStruct(tv, doc, s)
	case value.Scope:
		return serializeScope(tv, doc, s)
	case value.Table:
		return serializeTable(tv, doc, s)
	case value.Command:
		return serializeCommand(tv, doc, s)
	case value.BinaryStream, value.TableStream:
		return s.Serialize(tv.Materialize(), doc)
	case value.Hashable:
		return serializeScalar(tv, doc, s)
	default:
		return 0, value.NewError(value.ErrCInternal, "can not serialize value of kind "+v.Kind().String())
	}
}

// Deserialize reconstructs the value at index idx of doc.
func (s *DeserializationState) Deserialize(idx uint64, doc *arena.Document) (value.Value, error) {
	e, err := element(doc, idx)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case arena.ElemType:
		return deserializeType(idx, doc, s)
	case arena.ElemList:
		return deserializeList(idx, doc, s)
	case arena.ElemDict:
		return deserializeDict(idx, doc, s)
	case arena.ElemStruct:
		return deserializeStruct(idx, doc, s)
	case arena.ElemScope:
		return deserializeScope(idx, doc, s)
	case arena.ElemTable:
		return deserializeTable(idx, doc, s)
	case arena.ElemCommand:
		return deserializeCommand(idx, doc, s)
	default:
		return deserializeScalar(idx, doc, s)
	}
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// element returns the element at idx as a decode error if idx is dangling
func element(doc *arena.Document, idx uint64) (arena.Element, error) {
	e, err := doc.Get(idx)
	if err != nil {
		return e, &value.Error{Code: value.ErrCDecode, Msg: "dangling reference", Cause: err}
	}
	return e, nil
}

// expect returns the element at idx if it has the given kind
func expect(doc *arena.Document, idx uint64, kind arena.ElementKind) (arena.Element, error) {
	e, err := element(doc, idx)
	if err != nil {
		return e, err
	}
	if e.Kind != kind {
		return e, value.DecodeError("element %d: expected %s, found %s", idx, kind, e.Kind)
	}
	return e, nil
}
