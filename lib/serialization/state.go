package serialization

import (
	"github.com/ValentinKolb/vgraph/lib/value"
)

// Environment resolves the full name of a command to the command value.
// value.Scope and env.Registry implement it.
type Environment interface {
	Lookup(path []string) (value.Value, bool)
}

// SerializationState is the identity cache of one Serialize call.
type SerializationState struct {
	// WithID maps container storage ids to the arena index of the container
	WithID map[uint64]uint64
	// Values maps interned scalars and types to their arena index
	Values map[value.Key]uint64
}

// NewSerializationState creates an empty state.
func NewSerializationState() *SerializationState {
	return &SerializationState{
		WithID: make(map[uint64]uint64),
		Values: make(map[value.Key]uint64),
	}
}

// DeserializationState is the reconstruction cache of one Deserialize call.
// All caches map arena indices to the object built from that element.
type DeserializationState struct {
	Env     Environment
	Values  map[uint64]value.Value
	Types   map[uint64]value.ValueType
	Lists   map[uint64]value.List
	Dicts   map[uint64]value.Dict
	Structs map[uint64]value.Struct
	Scopes  map[uint64]value.Scope

	// indices of non-shareable elements currently being decoded
	pending map[uint64]struct{}

	// number of structs whose fields are being decoded
	building int
	// container fills that failed their type check while a struct was
	// incomplete, retried by finish
	fills []func() error
}

// NewDeserializationState creates an empty state resolving commands in env.
func NewDeserializationState(env Environment) *DeserializationState {
	return &DeserializationState{
		Env:     env,
		Values:  make(map[uint64]value.Value),
		Types:   make(map[uint64]value.ValueType),
		Lists:   make(map[uint64]value.List),
		Dicts:   make(map[uint64]value.Dict),
		Structs: make(map[uint64]value.Struct),
		Scopes:  make(map[uint64]value.Scope),
		pending: make(map[uint64]struct{}),
	}
}

// enter marks idx as being decoded. It fails if idx is already in progress,
// which can only happen for a document whose types or tables contain themselves.
func (s *DeserializationState) enter(idx uint64) error {
	if _, ok := s.pending[idx]; ok {
		return value.DecodeError("element %d refers to itself", idx)
	}
	s.pending[idx] = struct{}{}
	return nil
}

func (s *DeserializationState) leave(idx uint64) {
	delete(s.pending, idx)
}

// fill runs f, the insertion of decoded items into a container. A struct that
// is still being decoded may not satisfy a typed element yet, so while one is
// open a failing fill is postponed to finish.
func (s *DeserializationState) fill(f func() error) error {
	err := f()
	if err != nil && s.building > 0 {
		s.fills = append(s.fills, f)
		return nil
	}
	return err
}

// finish retries the postponed fills once every struct is complete.
func (s *DeserializationState) finish() error {
	for _, f := range s.fills {
		if err := f(); err != nil {
			return err
		}
	}
	s.fills = nil
	return nil
}
