package value

import (
	"strings"
	"sync"
	"testing"
)

func TestDictInsertGet(t *testing.T) {
	d := NewDict(StringType, IntegerType)

	if err := d.Insert(String("a"), NewInteger(1)); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	if err := d.Insert(String("b"), NewInteger(2)); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	v, ok := d.Get(String("a"))
	if !ok || !v.Equal(NewInteger(1)) {
		t.Errorf("Expected a=1, got %v (found=%v)", v, ok)
	}

	// replace
	if err := d.Insert(String("a"), NewInteger(3)); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	v, _ = d.Get(String("a"))
	if !v.Equal(NewInteger(3)) {
		t.Errorf("Expected a=3 after replace, got %v", v)
	}
	if d.Len() != 2 {
		t.Errorf("Expected len 2, got %d", d.Len())
	}

	if _, ok := d.Get(String("missing")); ok {
		t.Errorf("Expected missing key to be absent")
	}
	if _, ok := d.Get(NewList(AnyType)); ok {
		t.Errorf("Expected unhashable lookup to miss")
	}

	removed, ok := d.Remove(String("b"))
	if !ok || !removed.Equal(NewInteger(2)) {
		t.Errorf("Expected to remove b=2, got %v (found=%v)", removed, ok)
	}
	if d.Len() != 1 {
		t.Errorf("Expected len 1 after remove, got %d", d.Len())
	}
}

func TestDictTypeMismatch(t *testing.T) {
	d := NewDict(StringType, IntegerType)

	err := d.Insert(NewInteger(1), NewInteger(1))
	if !IsCode(err, ErrCArgument) {
		t.Errorf("Expected argument error for wrong key type, got %v", err)
	}
	err = d.Insert(String("a"), String("x"))
	if !IsCode(err, ErrCArgument) {
		t.Errorf("Expected argument error for wrong value type, got %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("Expected failed inserts to leave the dict empty, got len %d", d.Len())
	}
}

func TestDictUnhashableKeyTypePanics(t *testing.T) {
	for _, kt := range []ValueType{AnyType, ListType(StringType), DictType(StringType, StringType), ScopeType} {
		t.Run(kt.String(), func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Expected NewDict to panic for key type %s", kt)
				}
			}()
			NewDict(kt, AnyType)
		})
	}
}

func TestDictAliasing(t *testing.T) {
	d := NewDict(StringType, AnyType)
	alias := d

	_ = alias.Insert(String("x"), Bool(true))
	if _, ok := d.Get(String("x")); !ok {
		t.Errorf("Expected insert through alias to be visible")
	}
	if d.StorageID() != alias.StorageID() {
		t.Errorf("Expected aliases to share storage")
	}

	c := d.Copy()
	if c.StorageID() == d.StorageID() {
		t.Errorf("Expected copy to have new storage")
	}
	_ = c.Insert(String("y"), Bool(false))
	if _, ok := d.Get(String("y")); ok {
		t.Errorf("Expected copy to be independent of the source")
	}
	if c.Len() != 2 {
		t.Errorf("Expected copy to hold 2 entries, got %d", c.Len())
	}
}

func TestDictEqualityAndHash(t *testing.T) {
	keys := []string{"one", "two", "three", "four", "five", "six", "seven"}

	a := NewDict(StringType, IntegerType)
	for i, k := range keys {
		_ = a.Insert(String(k), NewInteger(int64(i)))
	}
	b := NewDict(StringType, IntegerType)
	for i := len(keys) - 1; i >= 0; i-- {
		_ = b.Insert(String(keys[i]), NewInteger(int64(i)))
	}

	if !a.Equal(b) || !b.Equal(a) {
		t.Errorf("Expected dicts with the same entries to be equal")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("Expected equal dicts to hash equally, got %x and %x", a.Hash(), b.Hash())
	}

	_ = b.Insert(String("one"), NewInteger(100))
	if a.Equal(b) {
		t.Errorf("Expected dicts with different values to differ")
	}

	_, _ = b.Remove(String("one"))
	if a.Equal(b) {
		t.Errorf("Expected dicts with different sizes to differ")
	}

	if _, ok := Compare(a, b); ok {
		t.Errorf("Expected dicts to be incomparable")
	}
}

func TestDictString(t *testing.T) {
	d := NewDict(StringType, IntegerType)
	_ = d.Insert(String("a"), NewInteger(1))
	_ = d.Insert(String("b"), NewInteger(2))

	s := d.String()
	if !strings.HasPrefix(s, "dict{") || !strings.HasSuffix(s, "}") {
		t.Errorf("Unexpected rendering %q", s)
	}
	for _, part := range []string{"a: 1", "b: 2"} {
		if !strings.Contains(s, part) {
			t.Errorf("Expected rendering %q to contain %q", s, part)
		}
	}
}

func TestDictMaterialize(t *testing.T) {
	inner := NewList(IntegerType)
	_ = inner.Append(NewInteger(1))

	d := NewDict(StringType, AnyType)
	_ = d.Insert(String("list"), inner)
	_ = d.Insert(String("stream"), NewBinaryStream(strings.NewReader("payload")))

	m, ok := d.Materialize().(Dict)
	if !ok {
		t.Fatalf("Expected materialized dict")
	}
	if d.Len() != 0 {
		t.Errorf("Expected source dict to be drained, got len %d", d.Len())
	}
	if m.StorageID() == d.StorageID() {
		t.Errorf("Expected materialized dict to have new storage")
	}
	v, _ := m.Get(String("stream"))
	if b, ok := v.(Binary); !ok || string(b.Bytes()) != "payload" {
		t.Errorf("Expected stream to be materialized into binary, got %v", v)
	}
	v, _ = m.Get(String("list"))
	if l, ok := v.(List); !ok || l.Len() != 1 {
		t.Errorf("Expected materialized list with 1 element, got %v", v)
	}
}

func TestDictConcurrentInsert(t *testing.T) {
	d := NewDict(IntegerType, IntegerType)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = d.Insert(NewInteger(int64(w*100+i)), NewInteger(int64(i)))
			}
		}(w)
	}
	wg.Wait()
	if d.Len() != 800 {
		t.Errorf("Expected 800 entries, got %d", d.Len())
	}
}
