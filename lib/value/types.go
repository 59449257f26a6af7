package value

import (
	"strconv"
	"strings"
)

// TypeKind discriminates type descriptors. It mirrors Kind plus TypeAny.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeEmpty
	TypeBool
	TypeInteger
	TypeFloat
	TypeString
	TypeFile
	TypeDuration
	TypeTime
	TypeBinary
	TypeBinaryStream
	TypeTable
	TypeTableStream
	TypeList
	TypeDict
	TypeStruct
	TypeScope
	TypeCommand
	TypeType

	typeKindCount
)

func (k TypeKind) String() string {
	if k == TypeAny {
		return "any"
	}
	if k < typeKindCount {
		return Kind(k - 1).String()
	}
	return "unknown"
}

// Valid reports whether k is a known type kind.
func (k TypeKind) Valid() bool { return k < typeKindCount }

// ColumnType names one column of a table or one field of a struct type.
type ColumnType struct {
	Name string
	Type ValueType
}

// ValueType is a recursive type descriptor. ValueTypes are immutable and are
// themselves values (of kind KindType).
type ValueType struct {
	kind    TypeKind
	elem    *ValueType
	key     *ValueType
	value   *ValueType
	columns []ColumnType
}

var (
	AnyType          = ValueType{kind: TypeAny}
	EmptyType        = ValueType{kind: TypeEmpty}
	BoolType         = ValueType{kind: TypeBool}
	IntegerType      = ValueType{kind: TypeInteger}
	FloatType        = ValueType{kind: TypeFloat}
	StringType       = ValueType{kind: TypeString}
	FileType         = ValueType{kind: TypeFile}
	DurationType     = ValueType{kind: TypeDuration}
	TimeType         = ValueType{kind: TypeTime}
	BinaryType       = ValueType{kind: TypeBinary}
	BinaryStreamType = ValueType{kind: TypeBinaryStream}
	ScopeType        = ValueType{kind: TypeScope}
	CommandType      = ValueType{kind: TypeCommand}
	MetaType         = ValueType{kind: TypeType}
)

// SimpleType returns the descriptor for a type kind that has no parameters.
// The boolean is false for parameterized or unknown kinds.
func SimpleType(k TypeKind) (ValueType, bool) {
	switch k {
	case TypeList, TypeDict, TypeTable, TypeTableStream, TypeStruct:
		return ValueType{}, false
	}
	if !k.Valid() {
		return ValueType{}, false
	}
	return ValueType{kind: k}, true
}

// ListType returns the type of a list with the given element type.
func ListType(elem ValueType) ValueType {
	return ValueType{kind: TypeList, elem: &elem}
}

// DictType returns the type of a dict.
func DictType(key, value ValueType) ValueType {
	return ValueType{kind: TypeDict, key: &key, value: &value}
}

// TableType returns the type of a table with the given columns.
func TableType(columns ...ColumnType) ValueType {
	return ValueType{kind: TypeTable, columns: cloneColumns(columns)}
}

// TableStreamType returns the type of a table stream with the given columns.
func TableStreamType(columns ...ColumnType) ValueType {
	return ValueType{kind: TypeTableStream, columns: cloneColumns(columns)}
}

// StructType returns the type of a struct with the given fields. A struct type
// without fields matches every struct.
func StructType(fields ...ColumnType) ValueType {
	return ValueType{kind: TypeStruct, columns: cloneColumns(fields)}
}

func cloneColumns(columns []ColumnType) []ColumnType {
	if len(columns) == 0 {
		return nil
	}
	out := make([]ColumnType, len(columns))
	copy(out, columns)
	return out
}

// TypeKind returns the descriptor kind (not the value kind, which is always KindType).
func (t ValueType) TypeKind() TypeKind { return t.kind }

// Elem returns the element type of a list type.
func (t ValueType) Elem() ValueType {
	if t.elem == nil {
		return AnyType
	}
	return *t.elem
}

// KeyType returns the key type of a dict type.
func (t ValueType) KeyType() ValueType {
	if t.key == nil {
		return AnyType
	}
	return *t.key
}

// ValueType returns the value type of a dict type.
func (t ValueType) ValueType() ValueType {
	if t.value == nil {
		return AnyType
	}
	return *t.value
}

// Columns returns the columns of a table, table stream or struct type.
func (t ValueType) Columns() []ColumnType {
	return cloneColumns(t.columns)
}

// IsHashable reports whether values of this type may be used as dict keys.
// Any is not hashable since it admits containers.
func (t ValueType) IsHashable() bool {
	switch t.kind {
	case TypeEmpty, TypeBool, TypeInteger, TypeFloat, TypeString, TypeFile,
		TypeDuration, TypeTime, TypeBinary, TypeType:
		return true
	default:
		return false
	}
}

// Is reports whether v satisfies the type. Structs are checked field by
// field, the recursion is bounded by the depth of t.
func (t ValueType) Is(v Value) bool {
	if t.kind == TypeAny {
		return true
	}
	if s, ok := v.(Struct); ok {
		return t.isStruct(s)
	}
	return t.Accepts(v.Type())
}

func (t ValueType) isStruct(s Struct) bool {
	if t.kind != TypeStruct {
		return false
	}
	if len(t.columns) == 0 {
		return true
	}
	fields := s.Fields()
	if len(fields) != len(t.columns) {
		return false
	}
	for i, c := range t.columns {
		if c.Name != fields[i].Name || !c.Type.Is(fields[i].Value) {
			return false
		}
	}
	return true
}

// Accepts reports whether every value of type o satisfies t. Any in t matches
// every type, also in nested positions.
func (t ValueType) Accepts(o ValueType) bool {
	if t.kind == TypeAny {
		return true
	}
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case TypeList:
		return t.Elem().Accepts(o.Elem())
	case TypeDict:
		return t.KeyType().Accepts(o.KeyType()) && t.ValueType().Accepts(o.ValueType())
	case TypeStruct:
		if len(t.columns) == 0 {
			return true
		}
		return columnsAccept(t.columns, o.columns)
	case TypeTable, TypeTableStream:
		return columnsAccept(t.columns, o.columns)
	default:
		return true
	}
}

func columnsAccept(want, got []ColumnType) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i].Name != got[i].Name || !want[i].Type.Accepts(got[i].Type) {
			return false
		}
	}
	return true
}

// Materialize maps stream types to their resident counterparts.
func (t ValueType) Materialize() Value {
	return t.materializeType()
}

func (t ValueType) materializeType() ValueType {
	switch t.kind {
	case TypeBinaryStream:
		return BinaryType
	case TypeTableStream:
		return TableType(materializeColumns(t.columns)...)
	case TypeTable:
		return TableType(materializeColumns(t.columns)...)
	case TypeStruct:
		return StructType(materializeColumns(t.columns)...)
	case TypeList:
		return ListType(t.Elem().materializeType())
	case TypeDict:
		return DictType(t.KeyType().materializeType(), t.ValueType().materializeType())
	default:
		return t
	}
}

func materializeColumns(columns []ColumnType) []ColumnType {
	out := make([]ColumnType, len(columns))
	for i, c := range columns {
		out[i] = ColumnType{Name: c.Name, Type: c.Type.materializeType()}
	}
	return out
}

// ---- Value Methods ----

func (t ValueType) Kind() Kind { return KindType }
func (t ValueType) Type() ValueType { return MetaType }

// Equal reports structural equality of two descriptors. Any only equals Any.
func (t ValueType) Equal(other Value) bool {
	o, ok := other.(ValueType)
	if !ok {
		return false
	}
	return t.String() == o.String()
}

func (t ValueType) HashKey() Key { return Key{kind: KindType, repr: t.String()} }
func (t ValueType) Hash() uint64 { return hashKey(t.HashKey()) }

func (t ValueType) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t ValueType) render(sb *strings.Builder) {
	sb.WriteString(t.kind.String())
	switch t.kind {
	case TypeList:
		sb.WriteByte('(')
		t.Elem().render(sb)
		sb.WriteByte(')')
	case TypeDict:
		sb.WriteByte('(')
		t.KeyType().render(sb)
		sb.WriteString(", ")
		t.ValueType().render(sb)
		sb.WriteByte(')')
	case TypeTable, TypeTableStream, TypeStruct:
		if t.kind == TypeStruct && len(t.columns) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, c := range t.columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteName(c.Name))
			sb.WriteByte('=')
			c.Type.render(sb)
		}
		sb.WriteByte(')')
	}
}

// quoteName quotes column names that would make a type rendering ambiguous.
func quoteName(name string) string {
	if name == "" || strings.ContainsAny(name, "()=, \"\\") {
		return strconv.Quote(name)
	}
	return name
}
