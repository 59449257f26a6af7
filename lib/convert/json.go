package convert

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/goccy/go-json"
)

// FromJSON decodes a single JSON document into a value.
func FromJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	r := &jsonReader{dec: dec}

	v, err := r.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, value.DecodeError("trailing data after JSON document")
	}
	return v, nil
}

// ToJSON encodes a value as compact JSON.
func ToJSON(v value.Value) ([]byte, error) {
	p, err := newExporter().export(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// ToJSONIndent is like ToJSON but indents the output.
func ToJSONIndent(v value.Value, indent string) ([]byte, error) {
	p, err := newExporter().export(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(p, "", indent)
}

type jsonReader struct {
	dec *json.Decoder
}

func (r *jsonReader) token() (json.Token, error) {
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, value.DecodeError("unexpected end of JSON input")
	}
	if err != nil {
		return nil, value.DecodeError("invalid JSON: %v", err)
	}
	return tok, nil
}

func (r *jsonReader) value() (value.Value, error) {
	tok, err := r.token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return r.object()
		case '[':
			return r.array()
		}
		return nil, value.DecodeError("unexpected %q in JSON input", rune(t))
	case nil:
		return value.Empty{}, nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		return parseNumber(string(t))
	case float64:
		return value.Float(t), nil
	}
	return nil, value.DecodeError("unexpected JSON token %v", tok)
}

func (r *jsonReader) object() (value.Value, error) {
	var fields []value.Field
	for r.dec.More() {
		tok, err := r.token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, value.DecodeError("expected object key, got %v", tok)
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		fields = append(fields, value.Field{Name: name, Value: v})
	}
	if err := r.closing('}'); err != nil {
		return nil, err
	}
	return value.NewStruct(fields...), nil
}

func (r *jsonReader) array() (value.Value, error) {
	var items []value.Value
	for r.dec.More() {
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := r.closing(']'); err != nil {
		return nil, err
	}
	return fromArray(items)
}

func (r *jsonReader) closing(want json.Delim) error {
	tok, err := r.token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return value.DecodeError("expected %q, got %v", rune(want), tok)
	}
	return nil
}

// parseNumber keeps integral literals exact and parses the rest as floats
func parseNumber(s string) (value.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, value.DecodeError("invalid number %q", s)
		}
		return value.NewBigInteger(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, value.DecodeError("invalid number %q", s)
	}
	return value.Float(f), nil
}
