package value

import (
	"fmt"
	"strings"
)

// path holds the storages of the containers on the current traversal path.
// Rendering, hashing and struct typing stop at a container that is already on
// the path, so they terminate on cyclic graphs.
type path map[uint64]struct{}

func (p path) enter(id uint64) bool {
	if _, ok := p[id]; ok {
		return false
	}
	p[id] = struct{}{}
	return true
}

func (p path) leave(id uint64) { delete(p, id) }

// pairPath is a path over two graphs walked in lockstep. A pair that is
// reached again is assumed to be equal.
type pairPath map[[2]uint64]struct{}

func (p pairPath) enter(a, b uint64) bool {
	k := [2]uint64{a, b}
	if _, ok := p[k]; ok {
		return false
	}
	p[k] = struct{}{}
	return true
}

func (p pairPath) leave(a, b uint64) { delete(p, [2]uint64{a, b}) }

// --------------------------------------------------------------------------
// Rendering
// --------------------------------------------------------------------------

func renderValue(sb *strings.Builder, v Value, p path) {
	switch tv := v.(type) {
	case List:
		tv.render(sb, p)
	case Dict:
		tv.render(sb, p)
	case Struct:
		tv.render(sb, p)
	case Table:
		tv.render(sb, p)
	default:
		sb.WriteString(v.String())
	}
}

// renderSeq joins the rendering of values with single spaces.
func renderSeq(sb *strings.Builder, values []Value, p path) {
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		renderValue(sb, v, p)
	}
}

// renderCycle writes a back reference to a container that is already being
// rendered.
func renderCycle(sb *strings.Builder, k Kind, id uint64) {
	fmt.Fprintf(sb, "<cycle %s#%d>", k, id)
}

// --------------------------------------------------------------------------
// Equality and hashing
// --------------------------------------------------------------------------

func equalValues(a, b Value, p pairPath) bool {
	switch av := a.(type) {
	case List:
		return av.equal(b, p)
	case Dict:
		return av.equal(b, p)
	case Struct:
		return av.equal(b, p)
	case Table:
		return av.equal(b, p)
	default:
		return a.Equal(b)
	}
}

func hashValue(v Value, p path) uint64 {
	switch tv := v.(type) {
	case List:
		return tv.hash(p)
	case Dict:
		return tv.hash(p)
	case Struct:
		return tv.hash(p)
	case Table:
		return tv.hash(p)
	default:
		return v.Hash()
	}
}

// cycleHash stands in for a container that is already being hashed
func cycleHash(k Kind) uint64 {
	return mix(hashSeed ^ prime64 ^ uint64(k))
}
