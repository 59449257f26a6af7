package serialization

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mapEnv is a minimal Environment for tests
type mapEnv map[string]value.Value

func (m mapEnv) Lookup(path []string) (value.Value, bool) {
	v, ok := m[strings.Join(path, ":")]
	return v, ok
}

// roundTrip serializes v, pushes the document through every codec and
// deserializes the result of the last one.
func roundTrip(t *testing.T, v value.Value, env Environment) value.Value {
	t.Helper()
	doc, err := Serialize(v)
	if err != nil {
		t.Fatalf("Failed to serialize %s: %v", v.Kind(), err)
	}
	for _, codec := range []arena.IArenaCodec{arena.NewProtoCodec(), arena.NewBinaryCodec(), arena.NewJSONCodec()} {
		data, err := codec.Encode(doc)
		if err != nil {
			t.Fatalf("Failed to encode with %s: %v", codec.Name(), err)
		}
		doc, err = codec.Decode(data)
		if err != nil {
			t.Fatalf("Failed to decode with %s: %v", codec.Name(), err)
		}
	}
	out, err := Deserialize(doc, env)
	if err != nil {
		t.Fatalf("Failed to deserialize %s: %v", v.Kind(), err)
	}
	return out
}

func countKind(doc *arena.Document, kind arena.ElementKind) int {
	n := 0
	for _, e := range doc.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func TestRoundTripScalars(t *testing.T) {
	huge, _ := new(big.Int).SetString("-98765432109876543210987654321", 10)
	now := time.Date(2024, 5, 17, 13, 37, 0, 123456789, time.FixedZone("CEST", 2*3600))

	values := map[string]value.Value{
		"empty":        value.Empty{},
		"true":         value.Bool(true),
		"false":        value.Bool(false),
		"zero":         value.NewInteger(0),
		"negative":     value.NewInteger(-42),
		"big":          value.NewBigInteger(huge),
		"float":        value.Float(-3.25),
		"empty string": value.String(""),
		"string":       value.String("hällo wörld"),
		"file":         value.File("/etc/hosts"),
		"duration":     value.Duration(90 * time.Minute),
		"time":         value.NewTime(now),
		"binary":       value.NewBinary([]byte{0, 1, 2, 255}),
		"empty binary": value.NewBinary(nil),
	}
	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, v, nil)
			if got.Kind() != v.Kind() || !got.Equal(v) {
				t.Errorf("Expected %s (%s), got %s (%s)", v, v.Kind(), got, got.Kind())
			}
		})
	}
}

func TestRoundTripTypes(t *testing.T) {
	types := []value.ValueType{
		value.AnyType,
		value.IntegerType,
		value.MetaType,
		value.ListType(value.ListType(value.StringType)),
		value.DictType(value.StringType, value.ListType(value.AnyType)),
		value.TableType(value.ColumnType{Name: "name", Type: value.StringType}, value.ColumnType{Name: "size", Type: value.IntegerType}),
		value.TableStreamType(value.ColumnType{Name: "line", Type: value.StringType}),
		value.StructType(),
		value.StructType(value.ColumnType{Name: "x", Type: value.FloatType}),
	}
	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			got := roundTrip(t, typ, nil)
			if !got.Equal(typ) {
				t.Errorf("Expected %s, got %s", typ, got)
			}
		})
	}
}

func TestRoundTripContainers(t *testing.T) {
	list, _ := value.ListOf(value.IntegerType, value.NewInteger(1), value.NewInteger(2), value.NewInteger(3))

	dict := value.NewDict(value.StringType, value.AnyType)
	_ = dict.Insert(value.String("list"), list)
	_ = dict.Insert(value.String("flag"), value.Bool(true))

	parent := value.NewStruct(value.Field{Name: "base", Value: value.String("b")})
	rec := value.NewStruct(value.Field{Name: "a", Value: value.NewInteger(1)}, value.Field{Name: "d", Value: dict})
	rec.SetParent(parent)

	table, err := value.NewTable(
		[]value.ColumnType{{Name: "k", Type: value.StringType}, {Name: "v", Type: value.AnyType}},
		[]value.Row{value.NewRow(value.String("a"), list), value.NewRow(value.String("b"), value.Empty{})},
	)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for name, v := range map[string]value.Value{"list": list, "dict": dict, "struct": rec, "table": table} {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, v, nil)
			if !got.Equal(v) {
				t.Errorf("Expected %s, got %s", v, got)
			}
			if got.Hash() != v.Hash() {
				t.Errorf("Expected equal hashes after round trip")
			}
		})
	}

	got := roundTrip(t, rec, nil).(value.Struct)
	if v, ok := got.Get("base"); !ok || !v.Equal(value.String("b")) {
		t.Errorf("Expected parent field to survive, got %v", v)
	}
}

func TestEmptyListKeepsType(t *testing.T) {
	l := value.NewList(value.StringType)
	got := roundTrip(t, l, nil).(value.List)
	if got.Len() != 0 || !got.ElemType().Equal(value.StringType) {
		t.Errorf("Expected empty list of string, got %s of %s", got, got.ElemType())
	}
}

func TestSharingPreserved(t *testing.T) {
	shared := value.NewDict(value.StringType, value.IntegerType)
	_ = shared.Insert(value.String("n"), value.NewInteger(1))

	outer := value.NewList(value.AnyType)
	_ = outer.Append(shared, shared, shared.Copy())

	doc, err := Serialize(outer)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := countKind(doc, arena.ElemDict); n != 2 {
		t.Errorf("Expected 2 dict elements (shared + copy), got %d", n)
	}

	got, err := Deserialize(doc, nil)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	items := got.(value.List).Elements()
	a, b, c := items[0].(value.Dict), items[1].(value.Dict), items[2].(value.Dict)

	if a.StorageID() != b.StorageID() {
		t.Errorf("Expected aliases to share storage after deserialization")
	}
	if a.StorageID() == c.StorageID() {
		t.Errorf("Expected copy to stay independent")
	}
	_ = a.Insert(value.String("m"), value.NewInteger(2))
	if _, ok := b.Get(value.String("m")); !ok {
		t.Errorf("Expected mutation through one alias to be visible through the other")
	}
	if _, ok := c.Get(value.String("m")); ok {
		t.Errorf("Expected mutation not to be visible through the copy")
	}
}

func TestSelfReferentialList(t *testing.T) {
	l := value.NewList(value.AnyType)
	_ = l.Append(value.String("head"))
	_ = l.Append(l)

	doc, err := Serialize(l)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := countKind(doc, arena.ElemList); n != 1 {
		t.Errorf("Expected one list element for a self referential list, got %d", n)
	}

	got, err := Deserialize(doc, nil)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	gl := got.(value.List)
	inner, _ := gl.Get(1)
	if inner.(value.List).StorageID() != gl.StorageID() {
		t.Errorf("Expected the list to contain itself after deserialization")
	}
}

func TestStructCycles(t *testing.T) {
	field := func(t *testing.T, s value.Struct, name string) value.Value {
		t.Helper()
		v, ok := s.Get(name)
		if !ok {
			t.Fatalf("Expected field %s in %s", name, s)
		}
		return v
	}

	t.Run("SelfReference", func(t *testing.T) {
		s := value.NewStruct(value.Field{Name: "n", Value: value.NewInteger(1)})
		s.Set("self", s)

		got := roundTrip(t, s, nil).(value.Struct)
		if field(t, got, "self").(value.Struct).StorageID() != got.StorageID() {
			t.Errorf("Expected the struct to contain itself")
		}
		if !got.Equal(s) {
			t.Errorf("Expected %s, got %s", s, got)
		}
	})

	t.Run("Mutual", func(t *testing.T) {
		a := value.NewStruct(value.Field{Name: "name", Value: value.String("a")})
		b := value.NewStruct(value.Field{Name: "name", Value: value.String("b")})
		a.Set("other", b)
		b.Set("other", a)

		got := roundTrip(t, a, nil).(value.Struct)
		gb := field(t, got, "other").(value.Struct)
		if !field(t, gb, "name").Equal(value.String("b")) {
			t.Errorf("Expected b, got %s", field(t, gb, "name"))
		}
		if field(t, gb, "other").(value.Struct).StorageID() != got.StorageID() {
			t.Errorf("Expected b to point back to a")
		}
	})

	t.Run("ParentLoop", func(t *testing.T) {
		a := value.NewStruct(value.Field{Name: "x", Value: value.NewInteger(1)})
		b := value.NewStruct(value.Field{Name: "y", Value: value.NewInteger(2)})
		a.SetParent(b)
		b.SetParent(a)

		got := roundTrip(t, a, nil).(value.Struct)
		gp, ok := got.Parent()
		if !ok {
			t.Fatalf("Expected parent")
		}
		gpp, ok := gp.Parent()
		if !ok || gpp.StorageID() != got.StorageID() {
			t.Errorf("Expected the parent chain to loop back to the struct")
		}
		if !field(t, got, "y").Equal(value.NewInteger(2)) {
			t.Errorf("Expected y=2 through the parent")
		}
		if _, ok := got.Get("missing"); ok {
			t.Errorf("Expected unknown field lookup to fail")
		}
	})

	t.Run("InList", func(t *testing.T) {
		s := value.NewStruct()
		s.Set("self", s)
		l := value.NewList(value.StructType())
		if err := l.Append(s); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}

		got := roundTrip(t, l, nil).(value.List)
		item, _ := got.Get(0)
		gs := item.(value.Struct)
		if field(t, gs, "self").(value.Struct).StorageID() != gs.StorageID() {
			t.Errorf("Expected the list item to contain itself")
		}
	})

	t.Run("InDict", func(t *testing.T) {
		s := value.NewStruct()
		s.Set("self", s)
		d := value.NewDict(value.StringType, value.StructType())
		if err := d.Insert(value.String("k"), s); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}

		got := roundTrip(t, d, nil).(value.Dict)
		v, ok := got.Get(value.String("k"))
		if !ok {
			t.Fatalf("Expected entry k")
		}
		gs := v.(value.Struct)
		if field(t, gs, "self").(value.Struct).StorageID() != gs.StorageID() {
			t.Errorf("Expected the dict value to contain itself")
		}
	})

	t.Run("TypedListInsideItsItem", func(t *testing.T) {
		elem := value.StructType(value.ColumnType{Name: "items", Type: value.ListType(value.AnyType)})
		s := value.NewStruct()
		l := value.NewList(elem)
		s.Set("items", l)
		if err := l.Append(s); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}

		got := roundTrip(t, s, nil).(value.Struct)
		gl := field(t, got, "items").(value.List)
		if !gl.ElemType().Equal(elem) {
			t.Errorf("Expected element type %s, got %s", elem, gl.ElemType())
		}
		item, ok := gl.Get(0)
		if !ok || item.(value.Struct).StorageID() != got.StorageID() {
			t.Errorf("Expected the list to hold the struct it belongs to")
		}
	})

	t.Run("TypedDictInsideItsValue", func(t *testing.T) {
		elem := value.StructType(value.ColumnType{Name: "index", Type: value.DictType(value.StringType, value.AnyType)})
		s := value.NewStruct()
		d := value.NewDict(value.StringType, elem)
		s.Set("index", d)
		if err := d.Insert(value.String("me"), s); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}

		got := roundTrip(t, s, nil).(value.Struct)
		gd := field(t, got, "index").(value.Dict)
		v, ok := gd.Get(value.String("me"))
		if !ok || v.(value.Struct).StorageID() != got.StorageID() {
			t.Errorf("Expected the dict to hold the struct it belongs to")
		}
	})
}

func TestScopeCycles(t *testing.T) {
	root := value.NewScope("root")
	_ = root.Declare("x", value.NewInteger(1))
	ns, _ := root.CreateNamespace("ns")
	_ = ns.Declare("y", value.String("why"))
	loop := ns.CreateChild("body", true)
	_ = ns.Declare("body", loop)
	loop.Use(root)
	root.SetReadOnly(true)

	got := roundTrip(t, root, nil).(value.Scope)

	if got.Name() != "root" || !got.ReadOnly() {
		t.Errorf("Expected read only scope root, got %s (readonly=%v)", got, got.ReadOnly())
	}
	if v, ok := got.Get("x"); !ok || !v.Equal(value.NewInteger(1)) {
		t.Errorf("Expected member x=1, got %v", v)
	}
	gns, ok := got.Get("ns")
	if !ok {
		t.Fatalf("Expected namespace ns")
	}
	nsScope := gns.(value.Scope)
	if p, ok := nsScope.Parent(); !ok || !p.Equal(got) {
		t.Errorf("Expected namespace parent to be the reconstructed root")
	}
	body, _ := nsScope.Get("body")
	bodyScope := body.(value.Scope)
	if !bodyScope.IsLoop() {
		t.Errorf("Expected loop flag to survive")
	}
	if uses := bodyScope.Uses(); len(uses) != 1 || !uses[0].Equal(got) {
		t.Errorf("Expected body to use the reconstructed root")
	}
	if c, ok := bodyScope.Calling(); !ok || !c.Equal(nsScope) {
		t.Errorf("Expected calling scope to survive")
	}
	if v, ok := got.Lookup([]string{"ns", "y"}); !ok || !v.Equal(value.String("why")) {
		t.Errorf("Expected lookup through reconstructed graph, got %v", v)
	}
}

func TestInterning(t *testing.T) {
	l, _ := value.ListOf(value.StringType, value.String("x"), value.String("x"), value.String("y"))
	doc, err := Serialize(l)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := countKind(doc, arena.ElemString); n != 2 {
		t.Errorf("Expected 2 interned strings, got %d", n)
	}
	children := doc.Elements[doc.Root].Children
	if children[1] != children[2] {
		t.Errorf("Expected equal strings to share one element")
	}
}

func TestStreamsAreDrained(t *testing.T) {
	stream := value.NewBinaryStream(strings.NewReader("lazy bytes"))
	holder := value.NewStruct(value.Field{Name: "data", Value: stream})

	got := roundTrip(t, holder, nil).(value.Struct)
	data, _ := got.Get("data")
	b, ok := data.(value.Binary)
	if !ok || string(b.Bytes()) != "lazy bytes" {
		t.Errorf("Expected stream to be stored as binary, got %v", data)
	}

	table, _ := value.NewTable([]value.ColumnType{{Name: "n", Type: value.IntegerType}}, []value.Row{value.NewRow(value.NewInteger(7))})
	tv := roundTrip(t, value.NewTableStream(table.Readable()), nil)
	if !tv.Equal(table) {
		t.Errorf("Expected table stream to be stored as table, got %s", tv)
	}
}

func TestCommands(t *testing.T) {
	cmd := value.NewCommand([]string{"global", "echo"}, "echo", "", func(args []value.Value) (value.Value, error) {
		return value.String("echoed"), nil
	})
	env := mapEnv{"global:echo": cmd}

	holder, _ := value.ListOf(value.CommandType, cmd)
	got := roundTrip(t, holder, env).(value.List)
	item, _ := got.Get(0)
	out, err := item.(value.Command).Invoke()
	if err != nil || !out.Equal(value.String("echoed")) {
		t.Errorf("Expected resolved command to be callable, got %v (%v)", out, err)
	}

	doc, _ := Serialize(holder)
	if _, err := Deserialize(doc, mapEnv{}); !value.IsCode(err, value.ErrCDecode) {
		t.Errorf("Expected decode error for unknown command, got %v", err)
	}
	if _, err := Deserialize(doc, nil); !value.IsCode(err, value.ErrCDecode) {
		t.Errorf("Expected decode error without environment, got %v", err)
	}
	if _, err := Deserialize(doc, mapEnv{"global:echo": value.String("not a command")}); !value.IsCode(err, value.ErrCDecode) {
		t.Errorf("Expected decode error when the name is not a command, got %v", err)
	}
}

func TestScopeAsEnvironment(t *testing.T) {
	root := value.NewScope("global")
	cmd := value.NewCommand([]string{"util", "noop"}, "noop", "", nil)
	util, _ := root.CreateNamespace("util")
	_ = util.Declare("noop", cmd)

	got := roundTrip(t, cmd, root)
	if !got.Equal(cmd) {
		t.Errorf("Expected command resolved through scope, got %s", got)
	}
}

func TestMalformedDocuments(t *testing.T) {
	str := arena.Element{Kind: arena.ElemString, Payload: []byte("s")}
	tag := func(k value.TypeKind) arena.Element {
		return arena.Element{Kind: arena.ElemInteger, Payload: []byte{0, byte(k)}}
	}

	docs := map[string]*arena.Document{
		"list without type": {Elements: []arena.Element{{Kind: arena.ElemList}}},
		"list type is string": {Elements: []arena.Element{
			{Kind: arena.ElemList, Children: []uint64{1}}, str,
		}},
		"dict odd children": {Elements: []arena.Element{
			{Kind: arena.ElemDict, Children: []uint64{1, 1, 2}}, {Kind: arena.ElemType, Children: []uint64{3}}, str, tag(value.TypeString),
		}},
		"dict unhashable key type": {Elements: []arena.Element{
			{Kind: arena.ElemDict, Children: []uint64{1, 1}}, {Kind: arena.ElemType, Children: []uint64{2}}, tag(value.TypeAny),
		}},
		"dict key type mismatch": {Elements: []arena.Element{
			{Kind: arena.ElemDict, Children: []uint64{1, 1, 3, 3}}, {Kind: arena.ElemType, Children: []uint64{2}}, tag(value.TypeString), {Kind: arena.ElemBool, Payload: []byte{1}},
		}},
		"list item mismatch inside struct": {Elements: []arena.Element{
			{Kind: arena.ElemStruct, Children: []uint64{1, 2, 3}}, {Kind: arena.ElemEmpty}, str,
			{Kind: arena.ElemList, Children: []uint64{4, 5}}, {Kind: arena.ElemType, Children: []uint64{6}},
			{Kind: arena.ElemBool, Payload: []byte{1}}, tag(value.TypeString),
		}},
		"struct parent is string": {Elements: []arena.Element{
			{Kind: arena.ElemStruct, Children: []uint64{1}}, str,
		}},
		"struct field name is bool": {Elements: []arena.Element{
			{Kind: arena.ElemStruct, Children: []uint64{1, 2, 1}}, {Kind: arena.ElemEmpty}, {Kind: arena.ElemBool, Payload: []byte{0}},
		}},
		"scope too short": {Elements: []arena.Element{
			{Kind: arena.ElemScope, Children: []uint64{1, 1}}, {Kind: arena.ElemEmpty},
		}},
		"scope use count too large": {Elements: []arena.Element{
			{Kind: arena.ElemScope, Children: []uint64{1, 1, 2, 3, 4}}, {Kind: arena.ElemEmpty}, str, tag(0), tag(9),
		}},
		"self referential type": {Elements: []arena.Element{
			{Kind: arena.ElemType, Children: []uint64{1, 0}}, tag(value.TypeList),
		}},
		"unknown type kind": {Elements: []arena.Element{
			{Kind: arena.ElemType, Children: []uint64{1}}, {Kind: arena.ElemInteger, Payload: []byte{0, 200}},
		}},
		"table shape mismatch": {Elements: []arena.Element{
			{Kind: arena.ElemTable, Children: []uint64{1, 1, 2, 3}}, {Kind: arena.ElemInteger, Payload: []byte{0, 1}}, str, {Kind: arena.ElemType, Children: []uint64{4}}, tag(value.TypeString),
		}},
		"bad bool payload": {Elements: []arena.Element{{Kind: arena.ElemBool, Payload: []byte{7}}}},
		"bad float payload": {Elements: []arena.Element{{Kind: arena.ElemFloat, Payload: []byte{1, 2}}}},
		"bad integer sign": {Elements: []arena.Element{{Kind: arena.ElemInteger, Payload: []byte{9, 1}}}},
		"bad time payload": {Elements: []arena.Element{{Kind: arena.ElemTime, Payload: []byte{1}}}},
		"dangling child": {Elements: []arena.Element{{Kind: arena.ElemList, Children: []uint64{4}}}},
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Deserialize panicked: %v", r)
				}
			}()
			v, err := Deserialize(doc, nil)
			if err == nil {
				t.Fatalf("Expected error, got %v", v)
			}
			if !value.IsCode(err, value.ErrCDecode) {
				t.Errorf("Expected decode error, got %v", err)
			}
			if v != nil {
				t.Errorf("Expected no partial value on error")
			}
		})
	}
}
