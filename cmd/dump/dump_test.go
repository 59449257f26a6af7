package dump

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/vgraph/lib/value"
)

func TestEncode(t *testing.T) {
	v := value.NewStruct(
		value.Field{Name: "name", Value: value.String("ada")},
		value.Field{Name: "age", Value: value.NewInteger(37)},
	)

	tests := []struct {
		format string
		want   string
	}{
		{"text", "struct{name=ada age=37}\n"},
		{"yaml", "name: ada\nage: 37\n"},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			out, err := Encode(v, tc.format)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			if string(out) != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, out)
			}
		})
	}

	if _, err := Encode(v, "xml"); err == nil {
		t.Errorf("Expected error for unknown format")
	}
}

func TestEncodeCyclic(t *testing.T) {
	l := value.NewList(value.AnyType)
	_ = l.Append(value.String("head"))
	_ = l.Append(l)

	out, err := Encode(l, "text")
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	want := fmt.Sprintf("list[head <cycle list#%d>]\n", l.StorageID())
	if string(out) != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	if _, err := Encode(l, "json"); !value.IsCode(err, value.ErrCArgument) {
		t.Errorf("Expected argument error for cyclic json output, got %v", err)
	}
}
