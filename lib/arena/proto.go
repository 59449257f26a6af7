package arena

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// NewProtoCodec creates the default codec. It writes the protobuf wire format
// of the following messages:
//
//	message Document { uint64 root = 1; repeated Element elements = 2; }
//	message Element  { uint32 kind = 1; bytes payload = 2; repeated uint64 children = 3; }
func NewProtoCodec() IArenaCodec {
	return &protoCodecImpl{}
}

// protoCodecImpl implements IArenaCodec using protowire
type protoCodecImpl struct {
}

// Field numbers
const (
	fieldDocRoot     protowire.Number = 1
	fieldDocElements protowire.Number = 2

	fieldElemKind     protowire.Number = 1
	fieldElemPayload  protowire.Number = 2
	fieldElemChildren protowire.Number = 3
)

// --------------------------------------------------------------------------
// Interface Methods (docu see arena.IArenaCodec)
// --------------------------------------------------------------------------

func (p *protoCodecImpl) Name() string { return CodecProto }

func (p *protoCodecImpl) Encode(doc *Document) ([]byte, error) {
	buf := make([]byte, 0, 16+len(doc.Elements)*8)
	buf = protowire.AppendTag(buf, fieldDocRoot, protowire.VarintType)
	buf = protowire.AppendVarint(buf, doc.Root)

	var elem, packed []byte
	for i, e := range doc.Elements {
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("element %d: unknown element kind %d", i, uint8(e.Kind))
		}
		elem = elem[:0]
		elem = protowire.AppendTag(elem, fieldElemKind, protowire.VarintType)
		elem = protowire.AppendVarint(elem, uint64(e.Kind))
		if len(e.Payload) > 0 {
			elem = protowire.AppendTag(elem, fieldElemPayload, protowire.BytesType)
			elem = protowire.AppendBytes(elem, e.Payload)
		}
		if len(e.Children) > 0 {
			packed = packed[:0]
			for _, c := range e.Children {
				packed = protowire.AppendVarint(packed, c)
			}
			elem = protowire.AppendTag(elem, fieldElemChildren, protowire.BytesType)
			elem = protowire.AppendBytes(elem, packed)
		}
		buf = protowire.AppendTag(buf, fieldDocElements, protowire.BytesType)
		buf = protowire.AppendBytes(buf, elem)
	}
	return buf, nil
}

func (p *protoCodecImpl) Decode(data []byte) (*Document, error) {
	doc := &Document{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("invalid document tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldDocRoot && typ == protowire.VarintType:
			root, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("invalid root index: %w", protowire.ParseError(n))
			}
			doc.Root = root
			data = data[n:]
		case num == fieldDocElements && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("invalid element %d: %w", len(doc.Elements), protowire.ParseError(n))
			}
			e, err := decodeProtoElement(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid element %d: %w", len(doc.Elements), err)
			}
			doc.Elements = append(doc.Elements, e)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func decodeProtoElement(data []byte) (Element, error) {
	var e Element
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return e, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == fieldElemKind && typ == protowire.VarintType:
			k, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, protowire.ParseError(n)
			}
			if k == 0 || k >= uint64(elemKindCount) {
				return e, fmt.Errorf("unknown element kind %d", k)
			}
			e.Kind = ElementKind(k)
			data = data[n:]
		case num == fieldElemPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return e, protowire.ParseError(n)
			}
			e.Payload = append([]byte(nil), v...)
			data = data[n:]
		case num == fieldElemChildren && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return e, protowire.ParseError(n)
			}
			for len(packed) > 0 {
				c, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return e, protowire.ParseError(m)
				}
				e.Children = append(e.Children, c)
				packed = packed[m:]
			}
			data = data[n:]
		case num == fieldElemChildren && typ == protowire.VarintType:
			c, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, protowire.ParseError(n)
			}
			e.Children = append(e.Children, c)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return e, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	if e.Kind == ElemInvalid {
		return e, fmt.Errorf("missing element kind")
	}
	return e, nil
}
