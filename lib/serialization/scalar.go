package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
)

// Sign byte of integer payloads
const (
	signPositive byte = 0
	signNegative byte = 1
)

// serializeScalar interns a hashable scalar: equal scalars share one element.
func serializeScalar(v value.Hashable, doc *arena.Document, state *SerializationState) (uint64, error) {
	key := v.HashKey()
	if idx, ok := state.Values[key]; ok {
		return idx, nil
	}

	e, err := encodeScalar(v)
	if err != nil {
		return 0, err
	}
	idx := doc.Append(e)
	state.Values[key] = idx
	return idx, nil
}

func encodeScalar(v value.Value) (arena.Element, error) {
	switch tv := v.(type) {
	case value.Empty:
		return arena.Element{Kind: arena.ElemEmpty}, nil
	case value.Bool:
		b := byte(0)
		if tv {
			b = 1
		}
		return arena.Element{Kind: arena.ElemBool, Payload: []byte{b}}, nil
	case value.Integer:
		i := tv.Big()
		sign := signPositive
		if i.Sign() < 0 {
			sign = signNegative
		}
		payload := append([]byte{sign}, i.Bytes()...)
		return arena.Element{Kind: arena.ElemInteger, Payload: payload}, nil
	case value.Float:
		payload := make([]byte, 8)
		binary.BigEndian.PutUint64(payload, math.Float64bits(float64(tv)))
		return arena.Element{Kind: arena.ElemFloat, Payload: payload}, nil
	case value.String:
		return arena.Element{Kind: arena.ElemString, Payload: []byte(tv)}, nil
	case value.File:
		return arena.Element{Kind: arena.ElemFile, Payload: []byte(tv)}, nil
	case value.Duration:
		payload := make([]byte, 8)
		binary.BigEndian.PutUint64(payload, uint64(tv))
		return arena.Element{Kind: arena.ElemDuration, Payload: payload}, nil
	case value.Time:
		payload, err := tv.Time().MarshalBinary()
		if err != nil {
			return arena.Element{}, value.ArgumentError("can not serialize time %s: %v", tv, err)
		}
		return arena.Element{Kind: arena.ElemTime, Payload: payload}, nil
	case value.Binary:
		return arena.Element{Kind: arena.ElemBinary, Payload: tv.Bytes()}, nil
	default:
		return arena.Element{}, value.NewError(value.ErrCInternal, "not a scalar: "+v.Kind().String())
	}
}

// deserializeScalar decodes a payload element. Repeated references to one
// element yield the same value.
func deserializeScalar(idx uint64, doc *arena.Document, state *DeserializationState) (value.Value, error) {
	if v, ok := state.Values[idx]; ok {
		return v, nil
	}
	e, err := element(doc, idx)
	if err != nil {
		return nil, err
	}
	v, err := decodeScalar(e)
	if err != nil {
		return nil, &value.Error{Code: value.ErrCDecode, Msg: fmt.Sprintf("element %d", idx), Cause: err}
	}
	state.Values[idx] = v
	return v, nil
}

func decodeScalar(e arena.Element) (value.Value, error) {
	p := e.Payload
	switch e.Kind {
	case arena.ElemEmpty:
		if len(p) != 0 {
			return nil, value.DecodeError("empty element with %d byte payload", len(p))
		}
		return value.Empty{}, nil
	case arena.ElemBool:
		if len(p) != 1 || p[0] > 1 {
			return nil, value.DecodeError("invalid bool payload")
		}
		return value.Bool(p[0] == 1), nil
	case arena.ElemInteger:
		if len(p) < 1 || p[0] > signNegative {
			return nil, value.DecodeError("invalid integer payload")
		}
		i := new(big.Int).SetBytes(p[1:])
		if p[0] == signNegative {
			i.Neg(i)
		}
		return value.NewBigInteger(i), nil
	case arena.ElemFloat:
		if len(p) != 8 {
			return nil, value.DecodeError("invalid float payload of %d bytes", len(p))
		}
		return value.Float(math.Float64frombits(binary.BigEndian.Uint64(p))), nil
	case arena.ElemString:
		return value.String(p), nil
	case arena.ElemFile:
		return value.File(p), nil
	case arena.ElemDuration:
		if len(p) != 8 {
			return nil, value.DecodeError("invalid duration payload of %d bytes", len(p))
		}
		return value.Duration(time.Duration(binary.BigEndian.Uint64(p))), nil
	case arena.ElemTime:
		var t time.Time
		if err := t.UnmarshalBinary(p); err != nil {
			return nil, &value.Error{Code: value.ErrCDecode, Msg: "invalid time payload", Cause: err}
		}
		return value.NewTime(t), nil
	case arena.ElemBinary:
		return value.NewBinary(p), nil
	default:
		return nil, value.DecodeError("unexpected %s element", e.Kind)
	}
}

// decodeString decodes the string element at idx (used for names and paths)
func decodeString(idx uint64, doc *arena.Document, state *DeserializationState) (string, error) {
	if _, err := expect(doc, idx, arena.ElemString); err != nil {
		return "", err
	}
	v, err := deserializeScalar(idx, doc, state)
	if err != nil {
		return "", err
	}
	return string(v.(value.String)), nil
}

// decodeUint decodes the non-negative integer element at idx (used for headers)
func decodeUint(idx uint64, doc *arena.Document, state *DeserializationState) (uint64, error) {
	if _, err := expect(doc, idx, arena.ElemInteger); err != nil {
		return 0, err
	}
	v, err := deserializeScalar(idx, doc, state)
	if err != nil {
		return 0, err
	}
	b := v.(value.Integer).Big()
	if b.Sign() < 0 || !b.IsUint64() {
		return 0, value.DecodeError("element %d: expected non-negative integer, found %s", idx, b)
	}
	return b.Uint64(), nil
}

// serializeUint interns a header integer
func serializeUint(n uint64, doc *arena.Document, state *SerializationState) (uint64, error) {
	return serializeScalar(value.NewBigInteger(new(big.Int).SetUint64(n)), doc, state)
}
