package pmx

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialFlags is the material drawing bitmask.
type MaterialFlags uint8

// Material flags.
const (
	MaterialNoCull        MaterialFlags = 1 << iota // double sided
	MaterialGroundShadow                            // casts a ground shadow
	MaterialDrawShadow                              // draws into the shadow map
	MaterialReceiveShadow                           // receives shadow map shadows
	MaterialHasEdge                                 // draws the pencil outline
	MaterialVertexColor                             // 2.1: first additional vec4 is vertex color
	MaterialPointDrawing                            // 2.1
	MaterialLineDrawing                             // 2.1
)

var materialFlagNames = []string{
	"NoCull", "GroundShadow", "DrawShadow", "ReceiveShadow",
	"HasEdge", "VertexColor", "PointDrawing", "LineDrawing",
}

// Has returns true if every bit of flag is set.
func (f MaterialFlags) Has(flag MaterialFlags) bool {
	return f&flag == flag
}

// String returns the set flags joined by '|'.
func (f MaterialFlags) String() string {
	if f == 0 {
		return "None"
	}
	var names []string
	for i, name := range materialFlagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// EnvBlendMode is how the environment (sphere) texture is combined.
type EnvBlendMode uint8

// Environment blend modes.
const (
	EnvBlendDisabled   EnvBlendMode = 0
	EnvBlendMultiply   EnvBlendMode = 1
	EnvBlendAdditive   EnvBlendMode = 2
	EnvBlendAdditional EnvBlendMode = 3 // sub-texture using the first additional vec4 as UV
)

// String returns a human-readable blend mode name.
func (m EnvBlendMode) String() string {
	switch m {
	case EnvBlendDisabled:
		return "Disabled"
	case EnvBlendMultiply:
		return "Multiply"
	case EnvBlendAdditive:
		return "Additive"
	case EnvBlendAdditional:
		return "Additional"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ToonReference selects where a material's toon texture comes from.
type ToonReference uint8

// Toon references.
const (
	ToonTexture  ToonReference = 0 // Toon is a texture index
	ToonInternal ToonReference = 1 // Toon is a shared toon number, toon01.bmp to toon10.bmp
)

// String returns a human-readable toon reference name.
func (t ToonReference) String() string {
	switch t {
	case ToonTexture:
		return "Texture"
	case ToonInternal:
		return "Internal"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Material describes the shading of a consecutive run of surfaces.
type Material struct {
	Name   string
	NameEN string

	Diffuse          mgl32.Vec4 // RGBA
	Specular         mgl32.Vec3 // RGB
	SpecularStrength float32
	Ambient          mgl32.Vec3 // RGB

	Flags MaterialFlags

	EdgeColor mgl32.Vec4
	EdgeScale float32

	Texture    Index
	EnvTexture Index
	EnvBlend   EnvBlendMode

	ToonRef ToonReference
	// Toon is the texture index when ToonRef is ToonTexture, or the zero based
	// shared toon number when ToonRef is ToonInternal.
	Toon Index

	Memo string

	// SurfaceCount is the number of surface indices (3 per triangle) this
	// material covers, starting where the previous material ended.
	SurfaceCount int32
}

// minMaterialSize covers the fixed part of a material with empty texts and
// 1-byte indices.
const minMaterialSize = 4 + 4 + 16 + 12 + 4 + 12 + 1 + 16 + 4 + 1 + 1 + 1 + 1 + 1 + 4 + 4

func (d *decoder) materials() ([]Material, error) {
	n, err := d.r.count(minMaterialSize)
	if err != nil || n == 0 {
		return nil, err
	}

	materials := make([]Material, n)
	for i := range materials {
		if err := d.material(&materials[i]); err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
	}
	return materials, nil
}

func (d *decoder) material(m *Material) error {
	r := d.r
	var err error

	if m.Name, m.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	if m.Diffuse, err = r.vec4(); err != nil {
		return err
	}
	if m.Specular, err = r.vec3(); err != nil {
		return err
	}
	if m.SpecularStrength, err = r.f32(); err != nil {
		return err
	}
	if m.Ambient, err = r.vec3(); err != nil {
		return err
	}

	flags, err := r.u8()
	if err != nil {
		return err
	}
	m.Flags = MaterialFlags(flags)

	if m.EdgeColor, err = r.vec4(); err != nil {
		return err
	}
	if m.EdgeScale, err = r.f32(); err != nil {
		return err
	}
	if m.Texture, err = d.textureIndex(); err != nil {
		return err
	}
	if m.EnvTexture, err = d.textureIndex(); err != nil {
		return err
	}

	blend, err := r.u8()
	if err != nil {
		return err
	}
	m.EnvBlend = EnvBlendMode(blend)

	ref, err := r.u8()
	if err != nil {
		return err
	}
	m.ToonRef = ToonReference(ref)
	switch m.ToonRef {
	case ToonTexture:
		if m.Toon, err = d.textureIndex(); err != nil {
			return err
		}
	case ToonInternal:
		shared, err := r.u8()
		if err != nil {
			return err
		}
		m.Toon = Index(shared)
	default:
		return fmt.Errorf("%w: toon reference %d", ErrUnknownTag, ref)
	}

	if m.Memo, err = r.text(d.h.Encoding); err != nil {
		return err
	}
	m.SurfaceCount, err = r.i32()
	return err
}
