package value

import (
	"bytes"
	"math"
	"math/big"
	"strconv"
	"time"
)

// --------------------------------------------------------------------------
// Empty
// --------------------------------------------------------------------------

// Empty is the unit value.
type Empty struct{}

func (Empty) Kind() Kind { return KindEmpty }
func (Empty) Type() ValueType { return EmptyType }
func (Empty) String() string { return "" }
func (Empty) Equal(other Value) bool { return other.Kind() == KindEmpty }
func (Empty) HashKey() Key { return Key{kind: KindEmpty} }
func (e Empty) Hash() uint64 { return hashKey(e.HashKey()) }
func (e Empty) Materialize() Value { return e }

// --------------------------------------------------------------------------
// Bool
// --------------------------------------------------------------------------

type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) Type() ValueType { return BoolType }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) HashKey() Key { return Key{kind: KindBool, repr: b.String()} }
func (b Bool) Hash() uint64 { return hashKey(b.HashKey()) }
func (b Bool) Materialize() Value { return b }

func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && o == b
}

// --------------------------------------------------------------------------
// Integer
// --------------------------------------------------------------------------

// Integer is an arbitrary precision integer. The zero value is 0.
type Integer struct {
	v *big.Int
}

// NewInteger creates an Integer from an int64.
func NewInteger(i int64) Integer {
	return Integer{v: big.NewInt(i)}
}

// NewBigInteger creates an Integer from a copy of i.
func NewBigInteger(i *big.Int) Integer {
	return Integer{v: new(big.Int).Set(i)}
}

func (i Integer) big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

// Big returns a copy of the integer as a *big.Int.
func (i Integer) Big() *big.Int { return new(big.Int).Set(i.big()) }

// Int64 returns the integer as an int64. The boolean is false if it does not fit.
func (i Integer) Int64() (int64, bool) {
	b := i.big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

func (Integer) Kind() Kind { return KindInteger }
func (Integer) Type() ValueType { return IntegerType }
func (i Integer) String() string { return i.big().String() }
func (i Integer) HashKey() Key { return Key{kind: KindInteger, repr: i.String()} }
func (i Integer) Hash() uint64 { return hashKey(i.HashKey()) }
func (i Integer) Materialize() Value { return i }

func (i Integer) Equal(other Value) bool {
	o, ok := other.(Integer)
	return ok && i.big().Cmp(o.big()) == 0
}

// --------------------------------------------------------------------------
// Float
// --------------------------------------------------------------------------

type Float float64

func (Float) Kind() Kind { return KindFloat }
func (Float) Type() ValueType { return FloatType }
func (f Float) Materialize() Value { return f }
func (f Float) Hash() uint64 { return hashKey(f.HashKey()) }

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// Equal compares the bit patterns, so NaN equals NaN and 0 differs from -0.
// This keeps Equal consistent with Hash.
func (f Float) Equal(other Value) bool {
	o, ok := other.(Float)
	return ok && math.Float64bits(float64(o)) == math.Float64bits(float64(f))
}

func (f Float) HashKey() Key {
	return Key{kind: KindFloat, repr: strconv.FormatUint(math.Float64bits(float64(f)), 16)}
}

// --------------------------------------------------------------------------
// String and File
// --------------------------------------------------------------------------

type String string

func (String) Kind() Kind { return KindString }
func (String) Type() ValueType { return StringType }
func (s String) String() string { return string(s) }
func (s String) HashKey() Key { return Key{kind: KindString, repr: string(s)} }
func (s String) Hash() uint64 { return hashKey(s.HashKey()) }
func (s String) Materialize() Value { return s }

func (s String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && o == s
}

// File is a filesystem path.
type File string

func (File) Kind() Kind { return KindFile }
func (File) Type() ValueType { return FileType }
func (f File) String() string { return string(f) }
func (f File) HashKey() Key { return Key{kind: KindFile, repr: string(f)} }
func (f File) Hash() uint64 { return hashKey(f.HashKey()) }
func (f File) Materialize() Value { return f }

func (f File) Equal(other Value) bool {
	o, ok := other.(File)
	return ok && o == f
}

// --------------------------------------------------------------------------
// Duration and Time
// --------------------------------------------------------------------------

type Duration time.Duration

func (Duration) Kind() Kind { return KindDuration }
func (Duration) Type() ValueType { return DurationType }
func (d Duration) String() string { return time.Duration(d).String() }
func (d Duration) HashKey() Key { return Key{kind: KindDuration, repr: strconv.FormatInt(int64(d), 10)} }
func (d Duration) Hash() uint64 { return hashKey(d.HashKey()) }
func (d Duration) Materialize() Value { return d }

func (d Duration) Equal(other Value) bool {
	o, ok := other.(Duration)
	return ok && o == d
}

// Time is a point in time. Two times are equal if they denote the same instant,
// regardless of their location.
type Time struct {
	t time.Time
}

func NewTime(t time.Time) Time { return Time{t: t} }

// Time returns the wrapped time.
func (t Time) Time() time.Time { return t.t }

func (Time) Kind() Kind { return KindTime }
func (Time) Type() ValueType { return TimeType }
func (t Time) String() string { return t.t.Format(time.RFC3339Nano) }
func (t Time) Hash() uint64 { return hashKey(t.HashKey()) }
func (t Time) Materialize() Value { return t }

func (t Time) HashKey() Key {
	return Key{kind: KindTime, repr: t.t.UTC().Format(time.RFC3339Nano)}
}

func (t Time) Equal(other Value) bool {
	o, ok := other.(Time)
	return ok && o.t.Equal(t.t)
}

// --------------------------------------------------------------------------
// Binary
// --------------------------------------------------------------------------

// Binary is an owned byte buffer.
type Binary struct {
	data []byte
}

// NewBinary creates a Binary holding a copy of b.
func NewBinary(b []byte) Binary {
	return Binary{data: bytes.Clone(b)}
}

// Bytes returns a copy of the buffer.
func (b Binary) Bytes() []byte { return bytes.Clone(b.data) }

// Len returns the number of bytes.
func (b Binary) Len() int { return len(b.data) }

func (Binary) Kind() Kind { return KindBinary }
func (Binary) Type() ValueType { return BinaryType }
func (b Binary) HashKey() Key { return Key{kind: KindBinary, repr: string(b.data)} }
func (b Binary) Hash() uint64 { return hashKey(b.HashKey()) }
func (b Binary) Materialize() Value { return b }

func (b Binary) String() string {
	return "<binary " + strconv.Itoa(len(b.data)) + " bytes>"
}

func (b Binary) Equal(other Value) bool {
	o, ok := other.(Binary)
	return ok && bytes.Equal(o.data, b.data)
}
