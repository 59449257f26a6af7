package arena

import (
	"fmt"
)

// ElementKind is the discriminant of an element.
type ElementKind uint8

const (
	ElemInvalid ElementKind = iota // 0: never valid in a finished document
	ElemEmpty
	ElemBool
	ElemInteger
	ElemFloat
	ElemString
	ElemFile
	ElemDuration
	ElemTime
	ElemBinary
	ElemTable
	ElemList
	ElemDict
	ElemStruct
	ElemScope
	ElemCommand
	ElemType

	elemKindCount
)

var elemKindNames = [...]string{
	ElemInvalid:  "invalid",
	ElemEmpty:    "empty",
	ElemBool:     "bool",
	ElemInteger:  "integer",
	ElemFloat:    "float",
	ElemString:   "string",
	ElemFile:     "file",
	ElemDuration: "duration",
	ElemTime:     "time",
	ElemBinary:   "binary",
	ElemTable:    "table",
	ElemList:     "list",
	ElemDict:     "dict",
	ElemStruct:   "struct",
	ElemScope:    "scope",
	ElemCommand:  "command",
	ElemType:     "type",
}

func (k ElementKind) String() string {
	if k < elemKindCount {
		return elemKindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Valid reports whether k is a known, non-reserved kind.
func (k ElementKind) Valid() bool {
	return k > ElemInvalid && k < elemKindCount
}

// HasChildren reports whether elements of this kind carry child indices
// instead of a payload.
func (k ElementKind) HasChildren() bool {
	switch k {
	case ElemTable, ElemList, ElemDict, ElemStruct, ElemScope, ElemCommand, ElemType:
		return true
	default:
		return false
	}
}

// MarshalText encodes the kind by name.
func (k ElementKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown element kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ElementKind) UnmarshalText(text []byte) error {
	for i := ElemEmpty; i < elemKindCount; i++ {
		if elemKindNames[i] == string(text) {
			*k = i
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", text)
}

// Element is one node of a document: a kind plus either a scalar payload or
// the indices of its children.
type Element struct {
	Kind     ElementKind `json:"kind"`
	Payload  []byte      `json:"payload,omitempty"`
	Children []uint64    `json:"children,omitempty"`
}

// Document is a flat encoding of a value graph.
type Document struct {
	Root     uint64    `json:"root"`
	Elements []Element `json:"elements"`
}

// Len returns the number of elements.
func (d *Document) Len() int { return len(d.Elements) }

// Append adds an element and returns its index.
func (d *Document) Append(e Element) uint64 {
	d.Elements = append(d.Elements, e)
	return uint64(len(d.Elements) - 1)
}

// Reserve appends a placeholder and returns its index. The placeholder must be
// replaced with Set before the document is used.
func (d *Document) Reserve() uint64 {
	return d.Append(Element{Kind: ElemInvalid})
}

// Set replaces the element at idx.
func (d *Document) Set(idx uint64, e Element) {
	d.Elements[idx] = e
}

// Get returns the element at idx or an error if idx is out of range.
func (d *Document) Get(idx uint64) (Element, error) {
	if idx >= uint64(len(d.Elements)) {
		return Element{}, fmt.Errorf("element index %d out of range (document has %d elements)", idx, len(d.Elements))
	}
	return d.Elements[idx], nil
}

// Validate checks that the root and all child indices are in range and that
// every element has a known kind with the matching shape.
func (d *Document) Validate() error {
	n := uint64(len(d.Elements))
	if d.Root >= n {
		return fmt.Errorf("root index %d out of range (document has %d elements)", d.Root, n)
	}
	for i, e := range d.Elements {
		if !e.Kind.Valid() {
			return fmt.Errorf("element %d: unknown element kind %d", i, uint8(e.Kind))
		}
		if e.Kind.HasChildren() {
			if len(e.Payload) != 0 {
				return fmt.Errorf("element %d: %s element must not carry a payload", i, e.Kind)
			}
		} else if len(e.Children) != 0 {
			return fmt.Errorf("element %d: %s element must not have children", i, e.Kind)
		}
		for _, c := range e.Children {
			if c >= n {
				return fmt.Errorf("element %d: child index %d out of range (document has %d elements)", i, c, n)
			}
		}
	}
	return nil
}
