package value

import (
	"bytes"
	"strings"
)

// Kind discriminates the value variants.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindFile
	KindDuration
	KindTime
	KindBinary
	KindBinaryStream
	KindTable
	KindTableStream
	KindList
	KindDict
	KindStruct
	KindScope
	KindCommand
	KindType
)

var kindNames = [...]string{
	KindEmpty:        "empty",
	KindBool:         "bool",
	KindInteger:      "integer",
	KindFloat:        "float",
	KindString:       "string",
	KindFile:         "file",
	KindDuration:     "duration",
	KindTime:         "time",
	KindBinary:       "binary",
	KindBinaryStream: "binary_stream",
	KindTable:        "table",
	KindTableStream:  "table_stream",
	KindList:         "list",
	KindDict:         "dict",
	KindStruct:       "struct",
	KindScope:        "scope",
	KindCommand:      "command",
	KindType:         "type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a runtime value.
type Value interface {
	// Kind returns the variant of the value.
	Kind() Kind
	// Type returns the type descriptor of the value.
	Type() ValueType
	// String renders the value as text.
	String() string
	// Equal reports structural equality (identity for scopes, name for commands).
	Equal(other Value) bool
	// Hash returns a hash consistent with Equal. Hashes are process local.
	Hash() uint64
	// Materialize returns a value with no lazily represented sub-values.
	// Materializing a container or stream consumes the source.
	Materialize() Value
}

// Key is the comparable identity of a hashable value. Two hashable values are
// equal iff their keys are equal.
type Key struct {
	kind Kind
	repr string
}

// Kind returns the kind of the value the key was derived from.
func (k Key) Kind() Kind { return k.kind }

// Hashable is implemented by the value kinds that may be used as dict keys.
type Hashable interface {
	Value
	HashKey() Key
}

// KeyOf returns the key of a hashable value.
func KeyOf(v Value) (Key, bool) {
	h, ok := v.(Hashable)
	if !ok {
		return Key{}, false
	}
	return h.HashKey(), true
}

// Streamable is implemented by values that can be read as a row stream.
type Streamable interface {
	Readable() Readable
}

// Compare orders two values. The boolean is false if the values are incomparable:
// different kinds, dicts, structs, scopes, commands, streams and tables.
// Lists compare lexicographically.
func Compare(a, b Value) (int, bool) {
	if a.Kind() != b.Kind() {
		return 0, false
	}
	switch av := a.(type) {
	case Empty:
		return 0, true
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0, true
		case !bool(av):
			return -1, true
		default:
			return 1, true
		}
	case Integer:
		return av.big().Cmp(b.(Integer).big()), true
	case Float:
		bv := b.(Float)
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		case av == bv:
			return 0, true
		default:
			return 0, false // NaN
		}
	case String:
		return strings.Compare(string(av), string(b.(String))), true
	case File:
		return strings.Compare(string(av), string(b.(File))), true
	case Duration:
		bv := b.(Duration)
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case Time:
		return av.t.Compare(b.(Time).t), true
	case Binary:
		return bytes.Compare(av.data, b.(Binary).data), true
	case List:
		return compareLists(av, b.(List), pairPath{})
	default:
		return 0, false
	}
}

// compareLists treats a pair of lists that is reached again as equal.
func compareLists(a, b List, p pairPath) (int, bool) {
	if a.data == b.data || !p.enter(a.data.id, b.data.id) {
		return 0, true
	}
	defer p.leave(a.data.id, b.data.id)

	as, bs := a.Elements(), b.Elements()
	for i := 0; i < len(as) && i < len(bs); i++ {
		var c int
		var ok bool
		al, aList := as[i].(List)
		bl, bList := bs[i].(List)
		if aList && bList {
			c, ok = compareLists(al, bl, p)
		} else {
			c, ok = Compare(as[i], bs[i])
		}
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	switch {
	case len(as) < len(bs):
		return -1, true
	case len(as) > len(bs):
		return 1, true
	default:
		return 0, true
	}
}
