package value

import (
	"strings"
	"sync"
)

// Field is a named value of a struct or scope.
type Field struct {
	Name  string
	Value Value
}

// Struct is a record of ordered named fields with an optional parent. Field
// lookups that miss locally fall back to the parent chain. Copies of a Struct
// handle alias the same storage.
type Struct struct {
	data *structStorage
}

type structStorage struct {
	id     uint64
	mu     sync.Mutex
	parent *structStorage
	names  []string
	values []Value
	index  map[string]int
}

// NewStruct creates a struct with the given fields. Later fields with a
// duplicate name replace earlier ones.
func NewStruct(fields ...Field) Struct {
	s := Struct{data: &structStorage{
		id:    nextStorageID(),
		index: make(map[string]int, len(fields)),
	}}
	for _, f := range fields {
		s.data.set(f.Name, f.Value)
	}
	return s
}

// set requires the lock to be held (or the storage to be unpublished)
func (st *structStorage) set(name string, v Value) {
	if i, ok := st.index[name]; ok {
		st.values[i] = v
		return
	}
	st.index[name] = len(st.names)
	st.names = append(st.names, name)
	st.values = append(st.values, v)
}

// StorageID returns the identity of the struct storage.
func (s Struct) StorageID() uint64 { return s.data.id }

// Parent returns the parent struct.
func (s Struct) Parent() (Struct, bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.parent == nil {
		return Struct{}, false
	}
	return Struct{data: s.data.parent}, true
}

// SetParent sets the parent struct.
func (s Struct) SetParent(parent Struct) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.parent = parent.data
}

// ClearParent removes the parent struct.
func (s Struct) ClearParent() {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.parent = nil
}

func (s Struct) local(name string) (Value, *structStorage, bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if i, ok := s.data.index[name]; ok {
		return s.data.values[i], nil, true
	}
	return nil, s.data.parent, false
}

// Get returns the field with the given name, searching the parent chain.
func (s Struct) Get(name string) (Value, bool) {
	seen := map[*structStorage]struct{}{}
	for cur := s.data; cur != nil; {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		v, parent, ok := Struct{data: cur}.local(name)
		if ok {
			return v, true
		}
		cur = parent
	}
	return nil, false
}

// Field is like Get but returns a validation error for unknown fields.
func (s Struct) Field(name string) (Value, error) {
	v, ok := s.Get(name)
	if !ok {
		return nil, ArgumentError("unknown field %q", name)
	}
	return v, nil
}

// Set replaces the local field name or appends it.
func (s Struct) Set(name string, v Value) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.set(name, v)
}

// Remove removes the local field name.
func (s Struct) Remove(name string) (Value, bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	i, ok := s.data.index[name]
	if !ok {
		return nil, false
	}
	v := s.data.values[i]
	s.data.names = append(s.data.names[:i], s.data.names[i+1:]...)
	s.data.values = append(s.data.values[:i], s.data.values[i+1:]...)
	delete(s.data.index, name)
	for j := i; j < len(s.data.names); j++ {
		s.data.index[s.data.names[j]] = j
	}
	return v, true
}

// Len returns the number of local fields.
func (s Struct) Len() int {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return len(s.data.names)
}

// Fields returns a snapshot of the local fields in order.
func (s Struct) Fields() []Field {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	out := make([]Field, len(s.data.names))
	for i, n := range s.data.names {
		out[i] = Field{Name: n, Value: s.data.values[i]}
	}
	return out
}

// Copy returns a struct with new storage holding the same local fields and parent.
func (s Struct) Copy() Struct {
	fields := s.Fields()
	c := NewStruct(fields...)
	if p, ok := s.Parent(); ok {
		c.data.parent = p.data
	}
	return c
}

// ---- Value Methods ----

func (Struct) Kind() Kind { return KindStruct }

// Type derives the struct type from the local fields. A struct that is
// reached again through its own fields is typed as the open StructType().
func (s Struct) Type() ValueType { return s.typeOn(path{}) }

func (s Struct) typeOn(p path) ValueType {
	if !p.enter(s.data.id) {
		return StructType()
	}
	defer p.leave(s.data.id)

	fields := s.Fields()
	columns := make([]ColumnType, len(fields))
	for i, f := range fields {
		columns[i].Name = f.Name
		if fs, ok := f.Value.(Struct); ok {
			columns[i].Type = fs.typeOn(p)
		} else {
			columns[i].Type = f.Value.Type()
		}
	}
	return StructType(columns...)
}

func (s Struct) String() string {
	var sb strings.Builder
	s.render(&sb, path{})
	return sb.String()
}

func (s Struct) render(sb *strings.Builder, p path) {
	if !p.enter(s.data.id) {
		renderCycle(sb, KindStruct, s.data.id)
		return
	}
	defer p.leave(s.data.id)

	sb.WriteString("struct{")
	for i, f := range s.Fields() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		renderValue(sb, f.Value, p)
	}
	sb.WriteByte('}')
}

// Equal compares the local fields in order and the parents.
func (s Struct) Equal(other Value) bool { return s.equal(other, pairPath{}) }

func (s Struct) equal(other Value, p pairPath) bool {
	o, ok := other.(Struct)
	if !ok {
		return false
	}
	if o.data == s.data || !p.enter(s.data.id, o.data.id) {
		return true
	}
	defer p.leave(s.data.id, o.data.id)

	mine, theirs := s.Fields(), o.Fields()
	if len(mine) != len(theirs) {
		return false
	}
	for i := range mine {
		if mine[i].Name != theirs[i].Name || !equalValues(mine[i].Value, theirs[i].Value, p) {
			return false
		}
	}
	mp, mok := s.Parent()
	tp, tok := o.Parent()
	if mok != tok {
		return false
	}
	return !mok || mp.equal(tp, p)
}

func (s Struct) Hash() uint64 { return s.hash(path{}) }

func (s Struct) hash(p path) uint64 {
	if !p.enter(s.data.id) {
		return cycleHash(KindStruct)
	}
	defer p.leave(s.data.id)

	h := uint64(offset64) ^ hashSeed ^ uint64(KindStruct)
	for _, f := range s.Fields() {
		h = combineOrdered(h, hashString(f.Name))
		h = combineOrdered(h, hashValue(f.Value, p))
	}
	return h
}

// Materialize moves the local fields into a new struct and materializes them.
// The source struct is left without fields. The parent is shared, not drained.
func (s Struct) Materialize() Value {
	s.data.mu.Lock()
	names, values, parent := s.data.names, s.data.values, s.data.parent
	s.data.names, s.data.values = nil, nil
	s.data.index = make(map[string]int)
	s.data.mu.Unlock()

	out := NewStruct()
	out.data.parent = parent
	for i, n := range names {
		out.data.set(n, values[i].Materialize())
	}
	return out
}
