package pmx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MorphPanel is the editor panel a morph is listed under.
type MorphPanel uint8

// Morph panels.
const (
	PanelHidden  MorphPanel = 0
	PanelEyebrow MorphPanel = 1
	PanelEye     MorphPanel = 2
	PanelMouth   MorphPanel = 3
	PanelOther   MorphPanel = 4
)

// String returns a human-readable panel name.
func (p MorphPanel) String() string {
	switch p {
	case PanelHidden:
		return "Hidden"
	case PanelEyebrow:
		return "Eyebrow"
	case PanelEye:
		return "Eye"
	case PanelMouth:
		return "Mouth"
	case PanelOther:
		return "Other"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// MorphKind selects the offset record shape of a morph.
type MorphKind uint8

// Morph kinds.
const (
	MorphGroup         MorphKind = 0
	MorphVertex        MorphKind = 1
	MorphBone          MorphKind = 2
	MorphUV            MorphKind = 3
	MorphAdditionalUV1 MorphKind = 4
	MorphAdditionalUV2 MorphKind = 5
	MorphAdditionalUV3 MorphKind = 6
	MorphAdditionalUV4 MorphKind = 7
	MorphMaterial      MorphKind = 8
	MorphFlip          MorphKind = 9  // 2.1
	MorphImpulse       MorphKind = 10 // 2.1
)

// String returns a human-readable morph kind name.
func (k MorphKind) String() string {
	switch k {
	case MorphGroup:
		return "Group"
	case MorphVertex:
		return "Vertex"
	case MorphBone:
		return "Bone"
	case MorphUV:
		return "UV"
	case MorphAdditionalUV1, MorphAdditionalUV2, MorphAdditionalUV3, MorphAdditionalUV4:
		return fmt.Sprintf("AdditionalUV%d", k-MorphUV)
	case MorphMaterial:
		return "Material"
	case MorphFlip:
		return "Flip"
	case MorphImpulse:
		return "Impulse"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// GroupOffset drives another morph.
type GroupOffset struct {
	Morph Index
	Rate  float32
}

// VertexOffset moves one vertex.
type VertexOffset struct {
	Vertex Index
	Offset mgl32.Vec3
}

// BoneOffset moves and rotates one bone.
type BoneOffset struct {
	Bone        Index
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// UVOffset shifts the base or an additional UV of one vertex.
// Only X and Y are used by MorphUV.
type UVOffset struct {
	Vertex Index
	Offset mgl32.Vec4
}

// MaterialBlend is how a material offset is applied.
type MaterialBlend uint8

// Material offset blend methods.
const (
	MaterialMultiply MaterialBlend = 0
	MaterialAdd      MaterialBlend = 1
)

// String returns a human-readable blend method name.
func (m MaterialBlend) String() string {
	switch m {
	case MaterialMultiply:
		return "Multiply"
	case MaterialAdd:
		return "Add"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// MaterialOffset tints one material, or every material when Material is NoIndex.
type MaterialOffset struct {
	Material         Index
	Blend            MaterialBlend
	Diffuse          mgl32.Vec4
	Specular         mgl32.Vec3
	SpecularStrength float32
	Ambient          mgl32.Vec3
	EdgeColor        mgl32.Vec4
	EdgeSize         float32
	TextureTint      mgl32.Vec4
	EnvTint          mgl32.Vec4
	ToonTint         mgl32.Vec4
}

// FlipOffset selects one morph of a flip set.
type FlipOffset struct {
	Morph     Index
	Influence float32
}

// ImpulseOffset applies velocity and torque to a rigid body.
type ImpulseOffset struct {
	RigidBody Index
	Local     bool
	Velocity  mgl32.Vec3
	Torque    mgl32.Vec3
}

// MorphOffsets is the offset list of a morph. The concrete type is fixed by
// the morph kind:
//
//	MorphGroup             GroupOffsets
//	MorphVertex            VertexOffsets
//	MorphBone              BoneOffsets
//	MorphUV, AdditionalUV* UVOffsets
//	MorphMaterial          MaterialOffsets
//	MorphFlip              FlipOffsets
//	MorphImpulse           ImpulseOffsets
type MorphOffsets interface {
	Len() int
	isMorphOffsets()
}

type (
	GroupOffsets    []GroupOffset
	VertexOffsets   []VertexOffset
	BoneOffsets     []BoneOffset
	UVOffsets       []UVOffset
	MaterialOffsets []MaterialOffset
	FlipOffsets     []FlipOffset
	ImpulseOffsets  []ImpulseOffset
)

func (o GroupOffsets) Len() int    { return len(o) }
func (o VertexOffsets) Len() int   { return len(o) }
func (o BoneOffsets) Len() int     { return len(o) }
func (o UVOffsets) Len() int       { return len(o) }
func (o MaterialOffsets) Len() int { return len(o) }
func (o FlipOffsets) Len() int     { return len(o) }
func (o ImpulseOffsets) Len() int  { return len(o) }

func (GroupOffsets) isMorphOffsets()    {}
func (VertexOffsets) isMorphOffsets()   {}
func (BoneOffsets) isMorphOffsets()     {}
func (UVOffsets) isMorphOffsets()       {}
func (MaterialOffsets) isMorphOffsets() {}
func (FlipOffsets) isMorphOffsets()     {}
func (ImpulseOffsets) isMorphOffsets()  {}

// Morph is a named deformation preset.
type Morph struct {
	Name   string
	NameEN string

	Panel   MorphPanel
	Kind    MorphKind
	Offsets MorphOffsets // never nil; empty when the morph has no offsets
}

// Len returns the number of offsets.
func (m *Morph) Len() int {
	if m.Offsets == nil {
		return 0
	}
	return m.Offsets.Len()
}

// minMorphSize is two empty names, panel, kind and the offset count.
const minMorphSize = 4 + 4 + 1 + 1 + 4

// morphLayout decodes the offsets of one morph kind.
type morphLayout struct {
	minSize int // smallest encoded offset, with 1-byte indices
	decode  func(d *decoder, n int) (MorphOffsets, error)
}

var morphLayouts = map[MorphKind]morphLayout{
	MorphGroup:         {1 + 4, decodeGroupOffsets},
	MorphVertex:        {1 + 12, decodeVertexOffsets},
	MorphBone:          {1 + 12 + 16, decodeBoneOffsets},
	MorphUV:            {1 + 16, decodeUVOffsets},
	MorphAdditionalUV1: {1 + 16, decodeUVOffsets},
	MorphAdditionalUV2: {1 + 16, decodeUVOffsets},
	MorphAdditionalUV3: {1 + 16, decodeUVOffsets},
	MorphAdditionalUV4: {1 + 16, decodeUVOffsets},
	MorphMaterial:      {1 + 1 + 28*4, decodeMaterialOffsets},
	MorphFlip:          {1 + 4, decodeFlipOffsets},
	MorphImpulse:       {1 + 1 + 12 + 12, decodeImpulseOffsets},
}

func (d *decoder) morphs() ([]Morph, error) {
	n, err := d.r.count(minMorphSize)
	if err != nil || n == 0 {
		return nil, err
	}

	morphs := make([]Morph, n)
	for i := range morphs {
		if err := d.checkpoint(i); err != nil {
			return nil, err
		}
		if err := d.morph(&morphs[i]); err != nil {
			return nil, fmt.Errorf("morph %d: %w", i, err)
		}
	}
	return morphs, nil
}

func (d *decoder) morph(m *Morph) error {
	r := d.r
	var err error

	if m.Name, m.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	panel, err := r.u8()
	if err != nil {
		return err
	}
	m.Panel = MorphPanel(panel)

	kind, err := r.u8()
	if err != nil {
		return err
	}
	m.Kind = MorphKind(kind)

	layout, ok := morphLayouts[m.Kind]
	if !ok {
		return fmt.Errorf("%w: morph kind %d", ErrUnknownTag, kind)
	}

	n, err := r.count(layout.minSize)
	if err != nil {
		return err
	}
	if m.Offsets, err = layout.decode(d, n); err != nil {
		return fmt.Errorf("%s offsets: %w", m.Kind, err)
	}
	return nil
}

func decodeGroupOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(GroupOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Morph, err = d.morphIndex(); err != nil {
			return nil, err
		}
		if o.Rate, err = d.r.f32(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

func decodeVertexOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(VertexOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Vertex, err = d.vertexIndex(); err != nil {
			return nil, err
		}
		if o.Offset, err = d.r.vec3(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

func decodeBoneOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(BoneOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Bone, err = d.bone(); err != nil {
			return nil, err
		}
		if o.Translation, err = d.r.vec3(); err != nil {
			return nil, err
		}
		// Stored as x, y, z, w.
		q, err := d.r.vec4()
		if err != nil {
			return nil, err
		}
		o.Rotation = mgl32.Quat{W: q[3], V: q.Vec3()}
	}
	return offsets, nil
}

func decodeUVOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(UVOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Vertex, err = d.vertexIndex(); err != nil {
			return nil, err
		}
		if o.Offset, err = d.r.vec4(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

func decodeMaterialOffsets(d *decoder, n int) (MorphOffsets, error) {
	r := d.r
	offsets := make(MaterialOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Material, err = d.materialIndex(); err != nil {
			return nil, err
		}
		blend, err := r.u8()
		if err != nil {
			return nil, err
		}
		o.Blend = MaterialBlend(blend)
		if o.Diffuse, err = r.vec4(); err != nil {
			return nil, err
		}
		if o.Specular, err = r.vec3(); err != nil {
			return nil, err
		}
		if o.SpecularStrength, err = r.f32(); err != nil {
			return nil, err
		}
		if o.Ambient, err = r.vec3(); err != nil {
			return nil, err
		}
		if o.EdgeColor, err = r.vec4(); err != nil {
			return nil, err
		}
		if o.EdgeSize, err = r.f32(); err != nil {
			return nil, err
		}
		if o.TextureTint, err = r.vec4(); err != nil {
			return nil, err
		}
		if o.EnvTint, err = r.vec4(); err != nil {
			return nil, err
		}
		if o.ToonTint, err = r.vec4(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

func decodeFlipOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(FlipOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.Morph, err = d.morphIndex(); err != nil {
			return nil, err
		}
		if o.Influence, err = d.r.f32(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

func decodeImpulseOffsets(d *decoder, n int) (MorphOffsets, error) {
	offsets := make(ImpulseOffsets, n)
	for i := range offsets {
		o := &offsets[i]
		var err error
		if o.RigidBody, err = d.rigidBodyIndex(); err != nil {
			return nil, err
		}
		local, err := d.r.u8()
		if err != nil {
			return nil, err
		}
		o.Local = local != 0
		if o.Velocity, err = d.r.vec3(); err != nil {
			return nil, err
		}
		if o.Torque, err = d.r.vec3(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}
