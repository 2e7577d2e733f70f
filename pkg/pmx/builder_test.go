package pmx

import (
	"bytes"
	"context"
	"encoding/binary"
	"unicode/utf16"
)

// builder assembles PMX bytes for tests. Sections are written in call order;
// nothing is validated.
type builder struct {
	buf     bytes.Buffer
	version float32
	enc     TextEncoding
	addVec  uint8
	sizes   [6]uint8 // by IndexKind
}

func newBuilder() *builder {
	return &builder{
		version: 2.0,
		enc:     UTF16LE,
		sizes:   [6]uint8{1, 1, 1, 1, 1, 1},
	}
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}

// decoder returns a section decoder over the bytes written so far, configured
// as if the builder's header had been read.
func (b *builder) decoder() *decoder {
	h := &Header{
		Version:            b.version,
		Encoding:           b.enc,
		AdditionalVectors:  b.addVec,
		VertexIndexSize:    b.sizes[VertexIndex],
		TextureIndexSize:   b.sizes[TextureIndex],
		MaterialIndexSize:  b.sizes[MaterialIndex],
		BoneIndexSize:      b.sizes[BoneIndex],
		MorphIndexSize:     b.sizes[MorphIndex],
		RigidBodyIndexSize: b.sizes[RigidBodyIndex],
	}
	return &decoder{r: newReader(b.bytes()), h: h, ctx: context.Background()}
}

func (b *builder) header() *builder {
	b.buf.WriteString(Signature)
	b.f32(b.version)
	b.u8(globalsCount)
	b.u8(uint8(b.enc))
	b.u8(b.addVec)
	for _, s := range b.sizes {
		b.u8(s)
	}
	return b
}

func (b *builder) info(name, nameEN, comment, commentEN string) *builder {
	return b.names(name, nameEN).names(comment, commentEN)
}

func (b *builder) u8(v uint8) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) u16(v uint16) *builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *builder) i32(v int32) *builder {
	binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *builder) f32(vs ...float32) *builder {
	for _, v := range vs {
		binary.Write(&b.buf, binary.LittleEndian, v)
	}
	return b
}

// zeros writes n zero int32 values, e.g. a run of empty section counts.
func (b *builder) zeros(n int) *builder {
	for i := 0; i < n; i++ {
		b.i32(0)
	}
	return b
}

func (b *builder) text(s string) *builder {
	var raw []byte
	if b.enc == UTF8 {
		raw = []byte(s)
	} else {
		for _, u := range utf16.Encode([]rune(s)) {
			raw = binary.LittleEndian.AppendUint16(raw, u)
		}
	}
	b.i32(int32(len(raw)))
	b.buf.Write(raw)
	return b
}

func (b *builder) names(local, universal string) *builder {
	return b.text(local).text(universal)
}

// index writes v at the declared width for kind. Negative values are written
// in two's complement, so -1 becomes all ones.
func (b *builder) index(kind IndexKind, v int) *builder {
	switch b.sizes[kind] {
	case 1:
		b.u8(uint8(v))
	case 2:
		b.u16(uint16(v))
	default:
		b.i32(int32(v))
	}
	return b
}

// vertex writes a vertex with zero position, normal and uv, the additional
// vectors declared by addVec, then the deform tag and payload.
func (b *builder) vertex(tag DeformKind, payload func(*builder)) *builder {
	b.f32(0, 0, 0, 0, 1, 0, 0, 0)
	for i := 0; i < int(b.addVec); i++ {
		b.f32(float32(i), 0, 0, 1)
	}
	b.u8(uint8(tag))
	payload(b)
	return b.f32(1) // edge scale
}

func (b *builder) bdef1Vertex(bone int) *builder {
	return b.vertex(DeformBDEF1, func(b *builder) { b.index(BoneIndex, bone) })
}

// material writes a material referencing texture 0 with no toon and the given
// surface index count.
func (b *builder) material(name string, surfaceCount int32) *builder {
	b.names(name, "")
	b.f32(1, 1, 1, 1)    // diffuse
	b.f32(0, 0, 0, 5)    // specular, strength
	b.f32(0.5, 0.5, 0.5) // ambient
	b.u8(uint8(MaterialHasEdge))
	b.f32(0, 0, 0, 1, 1) // edge color, edge scale
	b.index(TextureIndex, 0)
	b.index(TextureIndex, -1)
	b.u8(uint8(EnvBlendDisabled))
	b.u8(uint8(ToonInternal)).u8(0)
	b.text("")
	return b.i32(surfaceCount)
}

// bone writes a bone with no flags and an offset tail.
func (b *builder) bone(name string, parent int) *builder {
	b.names(name, "")
	b.f32(0, 1, 0)
	b.index(BoneIndex, parent)
	b.i32(0)
	b.u16(uint16(BoneRotatable | BoneVisible | BoneEnabled))
	return b.f32(0, 1, 0)
}

// minimal returns the bytes of a model with every section empty.
func minimal(version float32) []byte {
	b := newBuilder()
	b.version = version
	b.header().info("", "", "", "")
	b.zeros(9)
	if version > 2.0 {
		b.zeros(1)
	}
	return b.bytes()
}
