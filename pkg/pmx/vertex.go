package pmx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DeformKind selects how a vertex is skinned to bones.
type DeformKind uint8

// Deform kinds.
const (
	DeformBDEF1 DeformKind = 0 // one bone
	DeformBDEF2 DeformKind = 1 // two bones, linear blend
	DeformBDEF4 DeformKind = 2 // four bones, linear blend
	DeformSDEF  DeformKind = 3 // two bones, spherical blend
	DeformQDEF  DeformKind = 4 // four bones, dual quaternion blend (2.1)
)

// String returns the deform kind name.
func (k DeformKind) String() string {
	switch k {
	case DeformBDEF1:
		return "BDEF1"
	case DeformBDEF2:
		return "BDEF2"
	case DeformBDEF4:
		return "BDEF4"
	case DeformSDEF:
		return "SDEF"
	case DeformQDEF:
		return "QDEF"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Deform is the skinning payload of a vertex. Its concrete type is one of
// BDEF1, BDEF2, BDEF4, SDEF or QDEF and always matches Kind().
type Deform interface {
	Kind() DeformKind
	// Bones returns the referenced bone indices in on-disk order.
	Bones() []Index
	// Weights returns one weight per entry of Bones.
	Weights() []float32
}

// BDEF1 binds a vertex to a single bone with full weight.
type BDEF1 struct {
	Bone Index
}

func (d BDEF1) Kind() DeformKind   { return DeformBDEF1 }
func (d BDEF1) Bones() []Index     { return []Index{d.Bone} }
func (d BDEF1) Weights() []float32 { return []float32{1} }

// BDEF2 blends two bones. Weight1 is derived as 1 - Weight0 and is not stored.
type BDEF2 struct {
	Bone0, Bone1     Index
	Weight0, Weight1 float32
}

func (d BDEF2) Kind() DeformKind   { return DeformBDEF2 }
func (d BDEF2) Bones() []Index     { return []Index{d.Bone0, d.Bone1} }
func (d BDEF2) Weights() []float32 { return []float32{d.Weight0, d.Weight1} }

// BDEF4 blends four bones. The weights are stored independently and are not
// guaranteed to sum to 1.
type BDEF4 struct {
	Bone   [4]Index
	Weight [4]float32
}

func (d BDEF4) Kind() DeformKind   { return DeformBDEF4 }
func (d BDEF4) Bones() []Index     { return d.Bone[:] }
func (d BDEF4) Weights() []float32 { return d.Weight[:] }

// SDEF is a two bone spherical blend with its correction parameters.
type SDEF struct {
	Bone0, Bone1     Index
	Weight0, Weight1 float32
	C, R0, R1        mgl32.Vec3
}

func (d SDEF) Kind() DeformKind   { return DeformSDEF }
func (d SDEF) Bones() []Index     { return []Index{d.Bone0, d.Bone1} }
func (d SDEF) Weights() []float32 { return []float32{d.Weight0, d.Weight1} }

// QDEF has the BDEF4 layout but asks for dual quaternion blending.
type QDEF struct {
	Bone   [4]Index
	Weight [4]float32
}

func (d QDEF) Kind() DeformKind   { return DeformQDEF }
func (d QDEF) Bones() []Index     { return d.Bone[:] }
func (d QDEF) Weights() []float32 { return d.Weight[:] }

// Vertex is one mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2

	// Additional has exactly Header.AdditionalVectors entries.
	Additional []mgl32.Vec4

	Deform    Deform
	EdgeScale float32
}

// minVertexSize is position, normal, uv, deform tag, one 1-byte bone, edge scale.
const minVertexSize = 12 + 12 + 8 + 1 + 1 + 4

func (d *decoder) vertices() ([]Vertex, error) {
	n, err := d.r.count(minVertexSize)
	if err != nil || n == 0 {
		return nil, err
	}

	vertices := make([]Vertex, n)
	for i := range vertices {
		if err := d.checkpoint(i); err != nil {
			return nil, err
		}
		if err := d.vertex(&vertices[i]); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return vertices, nil
}

func (d *decoder) vertex(v *Vertex) error {
	r := d.r
	var err error

	if v.Position, err = r.vec3(); err != nil {
		return err
	}
	if v.Normal, err = r.vec3(); err != nil {
		return err
	}
	if v.UV, err = r.vec2(); err != nil {
		return err
	}
	if count := int(d.h.AdditionalVectors); count > 0 {
		v.Additional = make([]mgl32.Vec4, count)
		for j := range v.Additional {
			if v.Additional[j], err = r.vec4(); err != nil {
				return err
			}
		}
	}

	tag, err := r.u8()
	if err != nil {
		return err
	}
	if v.Deform, err = d.deform(DeformKind(tag)); err != nil {
		return err
	}

	v.EdgeScale, err = r.f32()
	return err
}

func (d *decoder) deform(kind DeformKind) (Deform, error) {
	switch kind {
	case DeformBDEF1:
		bone, err := d.bone()
		if err != nil {
			return nil, err
		}
		return BDEF1{Bone: bone}, nil

	case DeformBDEF2:
		var def BDEF2
		var err error
		if def.Bone0, def.Bone1, def.Weight0, err = d.twoBones(); err != nil {
			return nil, err
		}
		def.Weight1 = 1 - def.Weight0
		return def, nil

	case DeformBDEF4:
		bones, weights, err := d.fourBones()
		if err != nil {
			return nil, err
		}
		return BDEF4{Bone: bones, Weight: weights}, nil

	case DeformSDEF:
		var def SDEF
		var err error
		if def.Bone0, def.Bone1, def.Weight0, err = d.twoBones(); err != nil {
			return nil, err
		}
		def.Weight1 = 1 - def.Weight0
		if def.C, err = d.r.vec3(); err != nil {
			return nil, err
		}
		if def.R0, err = d.r.vec3(); err != nil {
			return nil, err
		}
		if def.R1, err = d.r.vec3(); err != nil {
			return nil, err
		}
		return def, nil

	case DeformQDEF:
		bones, weights, err := d.fourBones()
		if err != nil {
			return nil, err
		}
		return QDEF{Bone: bones, Weight: weights}, nil

	default:
		return nil, fmt.Errorf("%w: deform kind %d", ErrUnknownTag, kind)
	}
}

func (d *decoder) twoBones() (Index, Index, float32, error) {
	b0, err := d.bone()
	if err != nil {
		return NoIndex, NoIndex, 0, err
	}
	b1, err := d.bone()
	if err != nil {
		return NoIndex, NoIndex, 0, err
	}
	w0, err := d.r.f32()
	if err != nil {
		return NoIndex, NoIndex, 0, err
	}
	return b0, b1, w0, nil
}

func (d *decoder) fourBones() ([4]Index, [4]float32, error) {
	var bones [4]Index
	var weights [4]float32
	var err error
	for i := range bones {
		if bones[i], err = d.bone(); err != nil {
			return bones, weights, err
		}
	}
	if err = d.r.floats(weights[:]); err != nil {
		return bones, weights, err
	}
	return bones, weights, nil
}
