package value

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one key/value pair of a Dict.
type Entry struct {
	Key   Value
	Value Value
}

// Dict is a homogeneous key/value map with shared mutable storage. Copies of a
// Dict handle alias the same storage; iteration order carries no meaning.
type Dict struct {
	keyType   ValueType
	valueType ValueType
	data      *dictStorage
}

type dictStorage struct {
	id      uint64
	mu      sync.Mutex
	entries map[Key]Entry
}

// NewDict creates an empty dict.
//
// It panics if keyType is not hashable. Callers must check IsHashable first
// when the key type comes from untrusted input.
func NewDict(keyType, valueType ValueType) Dict {
	if !keyType.IsHashable() {
		panic(fmt.Sprintf("value: tried to create dict with unhashable key type %s", keyType))
	}
	return Dict{
		keyType:   keyType,
		valueType: valueType,
		data: &dictStorage{
			id:      nextStorageID(),
			entries: make(map[Key]Entry),
		},
	}
}

// KeyType returns the key type.
func (d Dict) KeyType() ValueType { return d.keyType }

// ValueType returns the value type.
func (d Dict) ValueType() ValueType { return d.valueType }

// StorageID returns the identity of the entry storage.
func (d Dict) StorageID() uint64 { return d.data.id }

// Insert stores value under key, replacing a previous value. Keys and values
// are type checked; on a mismatch nothing is stored.
func (d Dict) Insert(key, value Value) error {
	if !d.keyType.Is(key) {
		return ArgumentError("invalid key type: expected %s, got %s", d.keyType, key.Type())
	}
	if !d.valueType.Is(value) {
		return ArgumentError("invalid value type: expected %s, got %s", d.valueType, value.Type())
	}
	k, ok := KeyOf(key)
	if !ok {
		return ArgumentError("value of type %s can not be used as key", key.Type())
	}

	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	d.data.entries[k] = Entry{Key: key, Value: value}
	return nil
}

// Get returns the value stored under key.
func (d Dict) Get(key Value) (Value, bool) {
	k, ok := KeyOf(key)
	if !ok {
		return nil, false
	}
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	e, ok := d.data.entries[k]
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Remove removes key and returns the value it held.
func (d Dict) Remove(key Value) (Value, bool) {
	k, ok := KeyOf(key)
	if !ok {
		return nil, false
	}
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	e, ok := d.data.entries[k]
	if !ok {
		return nil, false
	}
	delete(d.data.entries, k)
	return e.Value, true
}

// Len returns the number of entries.
func (d Dict) Len() int {
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	return len(d.data.entries)
}

// Clear removes all entries.
func (d Dict) Clear() {
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	clear(d.data.entries)
}

// Elements returns a snapshot of the entries in unspecified order.
func (d Dict) Elements() []Entry {
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	out := make([]Entry, 0, len(d.data.entries))
	for _, e := range d.data.entries {
		out = append(out, e)
	}
	return out
}

func (d Dict) snapshot() map[Key]Entry {
	d.data.mu.Lock()
	defer d.data.mu.Unlock()
	out := make(map[Key]Entry, len(d.data.entries))
	for k, e := range d.data.entries {
		out[k] = e
	}
	return out
}

// Copy returns a dict with new storage holding the same entries (shallow).
func (d Dict) Copy() Dict {
	c := NewDict(d.keyType, d.valueType)
	c.data.entries = d.snapshot()
	return c
}

// Readable returns a row stream with the columns "key" and "value".
func (d Dict) Readable() Readable { return NewDictReader(d) }

// ---- Value Methods ----

func (Dict) Kind() Kind { return KindDict }
func (d Dict) Type() ValueType { return DictType(d.keyType, d.valueType) }

func (d Dict) String() string {
	var sb strings.Builder
	d.render(&sb, path{})
	return sb.String()
}

func (d Dict) render(sb *strings.Builder, p path) {
	if !p.enter(d.data.id) {
		renderCycle(sb, KindDict, d.data.id)
		return
	}
	defer p.leave(d.data.id)

	sb.WriteString("dict{")
	for i, e := range d.Elements() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.Key.String())
		sb.WriteString(": ")
		renderValue(sb, e.Value, p)
	}
	sb.WriteByte('}')
}

// Equal reports whether both dicts hold the same set of entries. The key and
// value types are not compared.
func (d Dict) Equal(other Value) bool { return d.equal(other, pairPath{}) }

func (d Dict) equal(other Value, p pairPath) bool {
	o, ok := other.(Dict)
	if !ok {
		return false
	}
	if o.data == d.data || !p.enter(d.data.id, o.data.id) {
		return true
	}
	defer p.leave(d.data.id, o.data.id)

	mine := d.snapshot()
	theirs := o.snapshot()
	if len(mine) != len(theirs) {
		return false
	}
	for k, e := range mine {
		oe, ok := theirs[k]
		if !ok || !equalValues(e.Value, oe.Value, p) {
			return false
		}
	}
	return true
}

// Hash folds the entry hashes with a commutative operation, so equal dicts hash
// equally regardless of insertion order.
func (d Dict) Hash() uint64 { return d.hash(path{}) }

func (d Dict) hash(p path) uint64 {
	if !p.enter(d.data.id) {
		return cycleHash(KindDict)
	}
	defer p.leave(d.data.id)

	var sum uint64
	for _, e := range d.Elements() {
		sum += entryHash(e.Key.Hash(), hashValue(e.Value, p))
	}
	return mix(sum ^ uint64(KindDict))
}

// Materialize moves the entries out of the source storage into a new dict and
// materializes them. The source dict is left empty.
func (d Dict) Materialize() Value {
	d.data.mu.Lock()
	entries := d.data.entries
	d.data.entries = make(map[Key]Entry)
	d.data.mu.Unlock()

	out := NewDict(d.keyType.materializeType(), d.valueType.materializeType())
	for k, e := range entries {
		entries[k] = Entry{Key: e.Key.Materialize(), Value: e.Value.Materialize()}
	}
	out.data.entries = entries
	return out
}
