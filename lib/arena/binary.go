package arena

import (
	"encoding/binary"
	"fmt"
)

// binaryMagic identifies documents written by the binary codec
var binaryMagic = []byte("VGRAPH\x00")

// binaryVersion is the format version of the binary codec
const binaryVersion byte = 1

// NewBinaryCodec creates a codec using a compact custom binary format:
//
//	magic(7) version(1) root(8) count(8) element*
//	element: kind(1) flags(1) [payloadLen(4) payload] [childCount(4) child(8)*]
//
// All integers are big endian.
func NewBinaryCodec() IArenaCodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements IArenaCodec using a custom binary format
type binaryCodecImpl struct {
}

// Bit flags to indicate which optional parts of an element are present
const (
	hasPayload  byte = 1 << 0
	hasChildren byte = 1 << 1
)

const headerSize = 7 + 1 + 8 + 8

// --------------------------------------------------------------------------
// Interface Methods (docu see arena.IArenaCodec)
// --------------------------------------------------------------------------

func (b *binaryCodecImpl) Name() string { return CodecBinary }

func (b *binaryCodecImpl) Encode(doc *Document) ([]byte, error) {
	// Calculate total size needed
	result := make([]byte, b.sizeBytes(doc))

	copy(result, binaryMagic)
	pos := len(binaryMagic)
	result[pos] = binaryVersion
	pos++
	binary.BigEndian.PutUint64(result[pos:pos+8], doc.Root)
	pos += 8
	binary.BigEndian.PutUint64(result[pos:pos+8], uint64(len(doc.Elements)))
	pos += 8

	for i, e := range doc.Elements {
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("element %d: unknown element kind %d", i, uint8(e.Kind))
		}
		result[pos] = byte(e.Kind)
		flagPos := pos + 1
		pos += 2

		var flags byte
		if len(e.Payload) > 0 {
			flags |= hasPayload
			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(e.Payload)))
			pos += 4
			copy(result[pos:], e.Payload)
			pos += len(e.Payload)
		}
		if len(e.Children) > 0 {
			flags |= hasChildren
			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(e.Children)))
			pos += 4
			for _, c := range e.Children {
				binary.BigEndian.PutUint64(result[pos:pos+8], c)
				pos += 8
			}
		}
		result[flagPos] = flags
	}
	return result, nil
}

func (b *binaryCodecImpl) Decode(data []byte) (*Document, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("data too short for document header")
	}
	if string(data[:len(binaryMagic)]) != string(binaryMagic) {
		return nil, fmt.Errorf("invalid magic number")
	}
	pos := len(binaryMagic)
	if data[pos] != binaryVersion {
		return nil, fmt.Errorf("unsupported binary format version %d", data[pos])
	}
	pos++

	doc := &Document{}
	doc.Root = binary.BigEndian.Uint64(data[pos : pos+8])
	pos += 8
	count := binary.BigEndian.Uint64(data[pos : pos+8])
	pos += 8

	// every element needs at least 2 bytes
	if count > uint64(len(data)-pos)/2 {
		return nil, fmt.Errorf("element count %d exceeds data size", count)
	}
	doc.Elements = make([]Element, 0, count)

	for i := uint64(0); i < count; i++ {
		if len(data)-pos < 2 {
			return nil, fmt.Errorf("data too short for element %d header", i)
		}
		e := Element{Kind: ElementKind(data[pos])}
		flags := data[pos+1]
		pos += 2
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("element %d: unknown element kind %d", i, data[pos-2])
		}
		if flags&^(hasPayload|hasChildren) != 0 {
			return nil, fmt.Errorf("element %d: invalid flags %#x", i, flags)
		}

		if flags&hasPayload != 0 {
			if len(data)-pos < 4 {
				return nil, fmt.Errorf("data too short for payload length of element %d", i)
			}
			n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if len(data)-pos < n {
				return nil, fmt.Errorf("data too short for payload of element %d", i)
			}
			e.Payload = append([]byte(nil), data[pos:pos+n]...)
			pos += n
		}

		if flags&hasChildren != 0 {
			if len(data)-pos < 4 {
				return nil, fmt.Errorf("data too short for child count of element %d", i)
			}
			n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if (len(data)-pos)/8 < n {
				return nil, fmt.Errorf("data too short for children of element %d", i)
			}
			e.Children = make([]uint64, n)
			for j := range e.Children {
				e.Children[j] = binary.BigEndian.Uint64(data[pos : pos+8])
				pos += 8
			}
		}
		doc.Elements = append(doc.Elements, e)
	}

	if pos != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after last element", len(data)-pos)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the exact size of the encoded document
func (b *binaryCodecImpl) sizeBytes(doc *Document) int {
	size := headerSize
	for _, e := range doc.Elements {
		size += 2
		if len(e.Payload) > 0 {
			size += 4 + len(e.Payload)
		}
		if len(e.Children) > 0 {
			size += 4 + 8*len(e.Children)
		}
	}
	return size
}
