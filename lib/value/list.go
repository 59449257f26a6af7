package value

import (
	"strings"
	"sync"
)

// List is a homogeneous, ordered, shared mutable sequence. Copies of a List
// handle alias the same storage.
type List struct {
	elemType ValueType
	data     *listStorage
}

type listStorage struct {
	id    uint64
	mu    sync.Mutex
	items []Value
}

// NewList creates an empty list with the given element type.
func NewList(elemType ValueType) List {
	return List{
		elemType: elemType,
		data:     &listStorage{id: nextStorageID()},
	}
}

// ListOf creates a list with the given element type and items.
func ListOf(elemType ValueType, items ...Value) (List, error) {
	l := NewList(elemType)
	if err := l.Append(items...); err != nil {
		return List{}, err
	}
	return l, nil
}

func (l List) checkType(v Value) error {
	if !l.elemType.Is(v) {
		return ArgumentError("invalid element type: expected %s, got %s", l.elemType, v.Type())
	}
	return nil
}

// ElemType returns the element type.
func (l List) ElemType() ValueType { return l.elemType }

// StorageID returns the identity of the list storage.
func (l List) StorageID() uint64 { return l.data.id }

// Len returns the number of items.
func (l List) Len() int {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	return len(l.data.items)
}

// Get returns the item at index i.
func (l List) Get(i int) (Value, bool) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	if i < 0 || i >= len(l.data.items) {
		return nil, false
	}
	return l.data.items[i], true
}

// Set replaces the item at index i.
func (l List) Set(i int, v Value) error {
	if err := l.checkType(v); err != nil {
		return err
	}
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	if i < 0 || i >= len(l.data.items) {
		return ArgumentError("index %d out of range for list of length %d", i, len(l.data.items))
	}
	l.data.items[i] = v
	return nil
}

// Append appends the values. Either all values are appended or, on a type
// mismatch, none.
func (l List) Append(values ...Value) error {
	for _, v := range values {
		if err := l.checkType(v); err != nil {
			return err
		}
	}
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	l.data.items = append(l.data.items, values...)
	return nil
}

// Remove removes and returns the item at index i.
func (l List) Remove(i int) (Value, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	if i < 0 || i >= len(l.data.items) {
		return nil, ArgumentError("index %d out of range for list of length %d", i, len(l.data.items))
	}
	v := l.data.items[i]
	l.data.items = append(l.data.items[:i], l.data.items[i+1:]...)
	return v, nil
}

// Pop removes and returns the last item.
func (l List) Pop() (Value, bool) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	n := len(l.data.items)
	if n == 0 {
		return nil, false
	}
	v := l.data.items[n-1]
	l.data.items[n-1] = nil
	l.data.items = l.data.items[:n-1]
	return v, true
}

// Clear removes all items.
func (l List) Clear() {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	l.data.items = nil
}

// Elements returns a snapshot of the items.
func (l List) Elements() []Value {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()
	out := make([]Value, len(l.data.items))
	copy(out, l.data.items)
	return out
}

// Copy returns a list with new storage holding the same items (shallow).
func (l List) Copy() List {
	c := NewList(l.elemType)
	c.data.items = l.Elements()
	return c
}

// Readable returns a row stream with the single column "value".
func (l List) Readable() Readable { return NewListReader(l) }

// ---- Value Methods ----

func (List) Kind() Kind { return KindList }
func (l List) Type() ValueType { return ListType(l.elemType) }

func (l List) String() string {
	var sb strings.Builder
	l.render(&sb, path{})
	return sb.String()
}

func (l List) render(sb *strings.Builder, p path) {
	if !p.enter(l.data.id) {
		renderCycle(sb, KindList, l.data.id)
		return
	}
	defer p.leave(l.data.id)

	sb.WriteString("list[")
	renderSeq(sb, l.Elements(), p)
	sb.WriteByte(']')
}

func (l List) Equal(other Value) bool { return l.equal(other, pairPath{}) }

func (l List) equal(other Value, p pairPath) bool {
	o, ok := other.(List)
	if !ok {
		return false
	}
	if o.data == l.data || !p.enter(l.data.id, o.data.id) {
		return true
	}
	defer p.leave(l.data.id, o.data.id)

	as, bs := l.Elements(), o.Elements()
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !equalValues(as[i], bs[i], p) {
			return false
		}
	}
	return true
}

func (l List) Hash() uint64 { return l.hash(path{}) }

func (l List) hash(p path) uint64 {
	if !p.enter(l.data.id) {
		return cycleHash(KindList)
	}
	defer p.leave(l.data.id)

	h := uint64(offset64) ^ hashSeed ^ uint64(KindList)
	for _, v := range l.Elements() {
		h = combineOrdered(h, hashValue(v, p))
	}
	return h
}

// Materialize drains the list into new storage and materializes the items.
// The source list is left empty.
func (l List) Materialize() Value {
	l.data.mu.Lock()
	items := l.data.items
	l.data.items = nil
	l.data.mu.Unlock()

	out := NewList(l.elemType.materializeType())
	for i, v := range items {
		items[i] = v.Materialize()
	}
	out.data.items = items
	return out
}
