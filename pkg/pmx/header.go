// Package pmx decodes PMX 2.0 and 2.1 model files into an in-memory document.
//
// The format has no fixed record sizes: the header declares the text encoding
// and the byte width of every index kind, and each vertex, bone and morph
// record carries tags that select its layout. Decoding is a single forward
// pass over an immutable buffer; a failed parse never yields a document.
package pmx

import (
	"fmt"
)

// Signature is the magic at the start of every PMX file.
const Signature = "PMX "

// globalsCount is the number of header globals defined by PMX 2.0 and 2.1.
const globalsCount = 8

// TextEncoding is the encoding of every string in the file.
type TextEncoding uint8

// Text encodings.
const (
	UTF16LE TextEncoding = 0
	UTF8    TextEncoding = 1
)

// String returns a human-readable encoding name.
func (e TextEncoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// Header is the fixed file prologue. It is decoded first and governs how the
// rest of the file is read.
type Header struct {
	Signature [4]byte
	Version   float32 // 2.0 or 2.1

	Encoding           TextEncoding
	AdditionalVectors  uint8 // extra vec4 slots per vertex, 0-4
	VertexIndexSize    uint8
	TextureIndexSize   uint8
	MaterialIndexSize  uint8
	BoneIndexSize      uint8
	MorphIndexSize     uint8
	RigidBodyIndexSize uint8

	// Globals holds the raw globals array, including bytes beyond the eight
	// defined ones.
	Globals []byte
}

// Valid reports whether the signature is "PMX ".
func (h *Header) Valid() bool {
	return string(h.Signature[:]) == Signature
}

// HasSoftBodies returns true if the version carries a soft body section.
func (h *Header) HasSoftBodies() bool {
	return h.Version > 2.0
}

// IndexSize returns the declared on-disk width for an index kind.
func (h *Header) IndexSize(kind IndexKind) uint8 {
	switch kind {
	case VertexIndex:
		return h.VertexIndexSize
	case TextureIndex:
		return h.TextureIndexSize
	case MaterialIndex:
		return h.MaterialIndexSize
	case BoneIndex:
		return h.BoneIndexSize
	case MorphIndex:
		return h.MorphIndexSize
	case RigidBodyIndex:
		return h.RigidBodyIndexSize
	default:
		return 0
	}
}

// VersionString returns the version as "Major.Minor".
func (h *Header) VersionString() string {
	return fmt.Sprintf("%.1f", h.Version)
}

// decodeHeader reads the signature, version and globals array.
// A bad signature aborts before the globals are read.
func decodeHeader(r *reader) (Header, error) {
	var h Header

	sig, err := r.next(4)
	if err != nil {
		return Header{}, err
	}
	copy(h.Signature[:], sig)
	if !h.Valid() {
		return Header{}, fmt.Errorf("%w: signature %q, want %q", ErrMalformedHeader, sig, Signature)
	}

	if h.Version, err = r.f32(); err != nil {
		return Header{}, err
	}

	n, err := r.u8()
	if err != nil {
		return Header{}, err
	}
	if n < globalsCount {
		return Header{}, fmt.Errorf("%w: %d globals, want at least %d", ErrMalformedHeader, n, globalsCount)
	}

	globals, err := r.next(int(n))
	if err != nil {
		return Header{}, err
	}
	h.Globals = append([]byte(nil), globals...)

	h.Encoding = TextEncoding(globals[0])
	h.AdditionalVectors = globals[1]
	h.VertexIndexSize = globals[2]
	h.TextureIndexSize = globals[3]
	h.MaterialIndexSize = globals[4]
	h.BoneIndexSize = globals[5]
	h.MorphIndexSize = globals[6]
	h.RigidBodyIndexSize = globals[7]

	if h.AdditionalVectors > 4 {
		return Header{}, fmt.Errorf("%w: %d additional vectors, want 0-4", ErrMalformedHeader, h.AdditionalVectors)
	}
	for kind := VertexIndex; kind <= RigidBodyIndex; kind++ {
		if size := h.IndexSize(kind); !validIndexSize(size) {
			return Header{}, fmt.Errorf("%w: %s index size %d, want 1, 2 or 4", ErrMalformedHeader, kind, size)
		}
	}

	return h, nil
}
