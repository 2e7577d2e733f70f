package pmx

import (
	"encoding/binary"
	"fmt"
)

// Index is a reference into one of the document collections.
// NoIndex marks an absent reference.
type Index int32

// NoIndex is the "no reference" sentinel.
const NoIndex Index = -1

// Valid returns true if the index refers to an element.
func (i Index) Valid() bool {
	return i >= 0
}

// In returns true if the index refers to an element of a collection of length n.
func (i Index) In(n int) bool {
	return i >= 0 && int(i) < n
}

// IndexKind identifies the collection an index refers to.
// It also selects how narrow on-disk indices are widened.
type IndexKind uint8

// Index kinds.
const (
	VertexIndex IndexKind = iota
	TextureIndex
	MaterialIndex
	BoneIndex
	MorphIndex
	RigidBodyIndex
)

// String returns a human-readable index kind name.
func (k IndexKind) String() string {
	switch k {
	case VertexIndex:
		return "Vertex"
	case TextureIndex:
		return "Texture"
	case MaterialIndex:
		return "Material"
	case BoneIndex:
		return "Bone"
	case MorphIndex:
		return "Morph"
	case RigidBodyIndex:
		return "RigidBody"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

func validIndexSize(n uint8) bool {
	return n == 1 || n == 2 || n == 4
}

// DecodeIndex widens a raw 1, 2 or 4 byte little-endian index to an Index.
// Vertex indices are zero-extended; every other kind is sign-extended, so an
// all-ones pattern decodes to NoIndex at any width.
func DecodeIndex(raw []byte, kind IndexKind) (Index, error) {
	switch len(raw) {
	case 1:
		if kind == VertexIndex {
			return Index(raw[0]), nil
		}
		return Index(int8(raw[0])), nil
	case 2:
		v := binary.LittleEndian.Uint16(raw)
		if kind == VertexIndex {
			return Index(v), nil
		}
		return Index(int16(v)), nil
	case 4:
		return Index(int32(binary.LittleEndian.Uint32(raw))), nil
	default:
		return NoIndex, fmt.Errorf("%w: %s index size %d, want 1, 2 or 4", ErrMalformedHeader, kind, len(raw))
	}
}

// index reads one index of the given width and kind.
func (r *reader) index(size uint8, kind IndexKind) (Index, error) {
	if !validIndexSize(size) {
		return NoIndex, fmt.Errorf("%w: %s index size %d, want 1, 2 or 4", ErrMalformedHeader, kind, size)
	}
	b, err := r.next(int(size))
	if err != nil {
		return NoIndex, err
	}
	return DecodeIndex(b, kind)
}
