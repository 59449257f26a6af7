package value

import (
	"testing"
)

func TestScopeDeclareAndGet(t *testing.T) {
	root := NewScope("root")
	if err := root.Declare("x", NewInteger(1)); err != nil {
		t.Fatalf("Failed to declare: %v", err)
	}
	if err := root.Declare("x", NewInteger(2)); !IsCode(err, ErrCArgument) {
		t.Errorf("Expected error on duplicate declare, got %v", err)
	}
	if err := root.Redeclare("x", NewInteger(2)); err != nil {
		t.Errorf("Failed to redeclare: %v", err)
	}

	child := root.CreateChild("child", true)
	if !child.IsLoop() {
		t.Errorf("Expected loop flag on child")
	}
	if v, ok := child.Get("x"); !ok || !v.Equal(NewInteger(2)) {
		t.Errorf("Expected child to see parent member, got %v", v)
	}
	if c, ok := child.Calling(); !ok || !c.Equal(root) {
		t.Errorf("Expected calling scope to be root")
	}

	lib := NewScope("lib")
	_ = lib.Declare("helper", String("h"))
	child.Use(lib)
	if v, ok := child.Get("helper"); !ok || !v.Equal(String("h")) {
		t.Errorf("Expected used scope members to be visible")
	}

	root.SetReadOnly(true)
	if err := root.Declare("y", Bool(true)); !IsCode(err, ErrCArgument) {
		t.Errorf("Expected error when declaring in read only scope, got %v", err)
	}
}

func TestScopeLookupAndCycles(t *testing.T) {
	root := NewScope("root")
	ns, err := root.CreateNamespace("ns")
	if err != nil {
		t.Fatalf("Failed to create namespace: %v", err)
	}
	_ = ns.Declare("inner", String("value"))
	_ = ns.Declare("rec", NewStruct(Field{Name: "f", Value: Bool(true)}))

	// root -> ns -> parent root is a cycle; lookups must still terminate
	ns.Use(root)

	if v, ok := root.Lookup([]string{"ns", "inner"}); !ok || !v.Equal(String("value")) {
		t.Errorf("Expected to resolve ns:inner, got %v", v)
	}
	if v, ok := root.Lookup([]string{"ns", "rec", "f"}); !ok || !v.Equal(Bool(true)) {
		t.Errorf("Expected to resolve ns:rec:f, got %v", v)
	}
	if _, ok := root.Lookup([]string{"ns", "missing"}); ok {
		t.Errorf("Expected unknown path to fail")
	}
	if _, ok := ns.Get("missing"); ok {
		t.Errorf("Expected unknown member to fail")
	}
}

func TestScopeIdentity(t *testing.T) {
	a := NewScope("same")
	b := NewScope("same")
	if a.Equal(b) {
		t.Errorf("Expected distinct scopes to differ")
	}
	alias := a
	if !a.Equal(alias) || a.Hash() != alias.Hash() {
		t.Errorf("Expected aliases to be equal")
	}
	if _, ok := Compare(a, alias); ok {
		t.Errorf("Expected scopes to be incomparable")
	}
	if a.String() != "<scope same>" {
		t.Errorf("Unexpected rendering %q", a.String())
	}
}
