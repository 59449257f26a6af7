package codectest

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/vgraph/lib/arena"
)

// CodecFactory is a function that creates a new instance of a codec
type CodecFactory func() arena.IArenaCodec

// RunCodecTests runs the conformance suite for a codec implementation.
func RunCodecTests(t *testing.T, name string, factory CodecFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			testRoundTrip(t, factory())
		})

		t.Run("Truncated", func(t *testing.T) {
			testTruncated(t, factory())
		})

		t.Run("UnknownKind", func(t *testing.T) {
			testUnknownKind(t, factory())
		})

		t.Run("DanglingIndex", func(t *testing.T) {
			testDanglingIndex(t, factory())
		})

		t.Run("Garbage", func(t *testing.T) {
			testGarbage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Sample documents
// --------------------------------------------------------------------------

// SampleDocuments returns closed documents (every element reachable from the
// root, every index in range) covering all element shapes.
func SampleDocuments() map[string]*arena.Document {
	return map[string]*arena.Document{
		"SingleScalar": {
			Root:     0,
			Elements: []arena.Element{{Kind: arena.ElemString, Payload: []byte("hello")}},
		},
		"EmptyPayload": {
			Root:     0,
			Elements: []arena.Element{{Kind: arena.ElemEmpty}},
		},
		"ListOfStrings": {
			Root: 0,
			Elements: []arena.Element{
				{Kind: arena.ElemList, Children: []uint64{1, 3, 4, 4}},
				{Kind: arena.ElemType, Children: []uint64{2}},
				{Kind: arena.ElemInteger, Payload: []byte{0, 5}},
				{Kind: arena.ElemString, Payload: []byte("a")},
				{Kind: arena.ElemString, Payload: []byte("b")},
			},
		},
		"Cycle": {
			Root: 2,
			Elements: []arena.Element{
				{Kind: arena.ElemStruct, Children: []uint64{2, 1, 2}},
				{Kind: arena.ElemString, Payload: []byte("self")},
				{Kind: arena.ElemStruct, Children: []uint64{0, 1, 0}},
			},
		},
		"LargeIndices": largeDocument(300),
	}
}

// largeDocument creates a list with n distinct children so that indices need
// multi byte varints.
func largeDocument(n int) *arena.Document {
	doc := &arena.Document{}
	root := doc.Reserve()
	typeIdx := doc.Append(arena.Element{Kind: arena.ElemType, Children: []uint64{2}})
	doc.Append(arena.Element{Kind: arena.ElemInteger, Payload: []byte{0, 3}})
	children := []uint64{typeIdx}
	for i := 0; i < n; i++ {
		children = append(children, doc.Append(arena.Element{Kind: arena.ElemInteger, Payload: []byte{0, byte(i), byte(i >> 8)}}))
	}
	doc.Set(root, arena.Element{Kind: arena.ElemList, Children: children})
	doc.Root = root
	return doc
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// SameDocument compares two documents, treating nil and empty slices as equal.
func SameDocument(a, b *arena.Document) bool {
	if a.Root != b.Root || len(a.Elements) != len(b.Elements) {
		return false
	}
	for i := range a.Elements {
		ea, eb := a.Elements[i], b.Elements[i]
		if ea.Kind != eb.Kind || !bytes.Equal(ea.Payload, eb.Payload) || len(ea.Children) != len(eb.Children) {
			return false
		}
		for j := range ea.Children {
			if ea.Children[j] != eb.Children[j] {
				return false
			}
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testRoundTrip(t *testing.T, codec arena.IArenaCodec) {
	for name, doc := range SampleDocuments() {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Encode(doc)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			got, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if !SameDocument(doc, got) {
				t.Errorf("Round trip mismatch:\nExpected: %+v\nGot:      %+v", doc, got)
			}
		})
	}
}

func testTruncated(t *testing.T, codec arena.IArenaCodec) {
	for name, doc := range SampleDocuments() {
		if name == "LargeIndices" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			data, err := codec.Encode(doc)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			for i := 0; i < len(data); i++ {
				if _, err := codec.Decode(data[:i]); err == nil {
					t.Errorf("Expected error when decoding %d of %d bytes", i, len(data))
				}
			}
		})
	}
}

func testUnknownKind(t *testing.T, codec arena.IArenaCodec) {
	doc := &arena.Document{Elements: []arena.Element{{Kind: arena.ElementKind(200), Payload: []byte("x")}}}
	data, err := codec.Encode(doc)
	if err != nil {
		return
	}
	if _, err := codec.Decode(data); err == nil {
		t.Errorf("Expected unknown element kind to be rejected")
	}
}

func testDanglingIndex(t *testing.T, codec arena.IArenaCodec) {
	docs := []*arena.Document{
		{Root: 5, Elements: []arena.Element{{Kind: arena.ElemEmpty}}},
		{Root: 0, Elements: []arena.Element{{Kind: arena.ElemList, Children: []uint64{0, 9}}}},
		{Root: 0},
	}
	for i, doc := range docs {
		data, err := codec.Encode(doc)
		if err != nil {
			continue
		}
		if _, err := codec.Decode(data); err == nil {
			t.Errorf("Document %d: expected out of range index to be rejected", i)
		}
	}
}

func testGarbage(t *testing.T, codec arena.IArenaCodec) {
	inputs := [][]byte{
		nil,
		{0xff},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		[]byte("not a document at all"),
	}
	for i, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Input %d: decoder panicked: %v", i, r)
				}
			}()
			if _, err := codec.Decode(in); err == nil {
				t.Errorf("Input %d: expected error", i)
			}
		}()
	}
}
