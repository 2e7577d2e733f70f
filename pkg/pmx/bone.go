package pmx

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// BoneFlags is the 16-bit bone flag word.
type BoneFlags uint16

// Bone flags.
const (
	BoneIndexedTail        BoneFlags = 0x0001 // tail is a bone index rather than an offset
	BoneRotatable          BoneFlags = 0x0002
	BoneTranslatable       BoneFlags = 0x0004
	BoneVisible            BoneFlags = 0x0008
	BoneEnabled            BoneFlags = 0x0010
	BoneIK                 BoneFlags = 0x0020
	BoneInheritLocal       BoneFlags = 0x0080
	BoneInheritRotation    BoneFlags = 0x0100
	BoneInheritTranslation BoneFlags = 0x0200
	BoneFixedAxis          BoneFlags = 0x0400
	BoneLocalCoordinate    BoneFlags = 0x0800
	BonePhysicsAfterDeform BoneFlags = 0x1000
	BoneExternalParent     BoneFlags = 0x2000
)

var boneFlagNames = []struct {
	flag BoneFlags
	name string
}{
	{BoneIndexedTail, "IndexedTail"},
	{BoneRotatable, "Rotatable"},
	{BoneTranslatable, "Translatable"},
	{BoneVisible, "Visible"},
	{BoneEnabled, "Enabled"},
	{BoneIK, "IK"},
	{BoneInheritLocal, "InheritLocal"},
	{BoneInheritRotation, "InheritRotation"},
	{BoneInheritTranslation, "InheritTranslation"},
	{BoneFixedAxis, "FixedAxis"},
	{BoneLocalCoordinate, "LocalCoordinate"},
	{BonePhysicsAfterDeform, "PhysicsAfterDeform"},
	{BoneExternalParent, "ExternalParent"},
}

// Has returns true if every bit of flag is set.
func (f BoneFlags) Has(flag BoneFlags) bool {
	return f&flag == flag
}

// Any returns true if at least one bit of mask is set.
func (f BoneFlags) Any(mask BoneFlags) bool {
	return f&mask != 0
}

// String returns the set flags joined by '|'.
func (f BoneFlags) String() string {
	if f == 0 {
		return "None"
	}
	var names []string
	for _, fn := range boneFlagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// BoneTail is where the bone's display tail points. It is either a TailOffset
// or a TailBone, chosen by BoneIndexedTail.
type BoneTail interface {
	isBoneTail()
}

// TailOffset is a tail relative to the bone position.
type TailOffset mgl32.Vec3

// TailBone is a tail that points at another bone.
type TailBone Index

func (TailOffset) isBoneTail() {}
func (TailBone) isBoneTail()   {}

// InheritBone is present when BoneInheritRotation or BoneInheritTranslation is set.
type InheritBone struct {
	Parent    Index
	Influence float32
}

// FixedAxis is present when BoneFixedAxis is set.
type FixedAxis struct {
	Direction mgl32.Vec3
}

// LocalCoordinate is present when BoneLocalCoordinate is set.
type LocalCoordinate struct {
	X mgl32.Vec3
	Z mgl32.Vec3
}

// ExternalParent is present when BoneExternalParent is set.
type ExternalParent struct {
	Parent Index
}

// AngleLimit bounds the rotation of an IK link, in radians.
type AngleLimit struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// IKLink is one bone of an IK chain.
type IKLink struct {
	Bone  Index
	Limit *AngleLimit // nil when the link is unconstrained
}

// IK is present when BoneIK is set.
type IK struct {
	Target      Index
	Loops       int32
	LimitRadian float32
	Links       []IKLink
}

// Bone is one skeleton bone with its optional extension blocks.
// Each extension pointer is non-nil exactly when its gating flag is set.
type Bone struct {
	Name   string
	NameEN string

	Position mgl32.Vec3
	Parent   Index
	Layer    int32
	Flags    BoneFlags

	Tail BoneTail

	Inherit         *InheritBone
	FixedAxis       *FixedAxis
	LocalCoordinate *LocalCoordinate
	ExternalParent  *ExternalParent
	IK              *IK
}

// minBoneSize is two empty names, position, parent, layer, flags, offset tail.
const minBoneSize = 4 + 4 + 12 + 1 + 4 + 2 + 12

// minIKLinkSize is a 1-byte bone index and the limit flag.
const minIKLinkSize = 1 + 1

func (d *decoder) bones() ([]Bone, error) {
	n, err := d.r.count(minBoneSize)
	if err != nil || n == 0 {
		return nil, err
	}

	bones := make([]Bone, n)
	for i := range bones {
		if err := d.checkpoint(i); err != nil {
			return nil, err
		}
		if err := d.boneRecord(&bones[i]); err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}
	}
	return bones, nil
}

func (d *decoder) boneRecord(b *Bone) error {
	r := d.r
	var err error

	if b.Name, b.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	if b.Position, err = r.vec3(); err != nil {
		return err
	}
	if b.Parent, err = d.bone(); err != nil {
		return err
	}
	if b.Layer, err = r.i32(); err != nil {
		return err
	}

	flags, err := r.u16()
	if err != nil {
		return err
	}
	b.Flags = BoneFlags(flags)

	if b.Flags.Has(BoneIndexedTail) {
		tail, err := d.bone()
		if err != nil {
			return err
		}
		b.Tail = TailBone(tail)
	} else {
		tail, err := r.vec3()
		if err != nil {
			return err
		}
		b.Tail = TailOffset(tail)
	}

	if b.Flags.Any(BoneInheritRotation | BoneInheritTranslation) {
		inherit := &InheritBone{}
		if inherit.Parent, err = d.bone(); err != nil {
			return err
		}
		if inherit.Influence, err = r.f32(); err != nil {
			return err
		}
		b.Inherit = inherit
	}

	if b.Flags.Has(BoneFixedAxis) {
		axis := &FixedAxis{}
		if axis.Direction, err = r.vec3(); err != nil {
			return err
		}
		b.FixedAxis = axis
	}

	if b.Flags.Has(BoneLocalCoordinate) {
		local := &LocalCoordinate{}
		if local.X, err = r.vec3(); err != nil {
			return err
		}
		if local.Z, err = r.vec3(); err != nil {
			return err
		}
		b.LocalCoordinate = local
	}

	if b.Flags.Has(BoneExternalParent) {
		ext := &ExternalParent{}
		if ext.Parent, err = d.bone(); err != nil {
			return err
		}
		b.ExternalParent = ext
	}

	if b.Flags.Has(BoneIK) {
		if b.IK, err = d.ik(); err != nil {
			return fmt.Errorf("IK: %w", err)
		}
	}

	return nil
}

func (d *decoder) ik() (*IK, error) {
	r := d.r
	ik := &IK{}
	var err error

	if ik.Target, err = d.bone(); err != nil {
		return nil, err
	}
	if ik.Loops, err = r.i32(); err != nil {
		return nil, err
	}
	if ik.LimitRadian, err = r.f32(); err != nil {
		return nil, err
	}

	n, err := r.count(minIKLinkSize)
	if err != nil || n == 0 {
		return ik, err
	}

	ik.Links = make([]IKLink, n)
	for i := range ik.Links {
		link := &ik.Links[i]
		if link.Bone, err = d.bone(); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		hasLimit, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		if hasLimit != 0 {
			limit := &AngleLimit{}
			if limit.Min, err = r.vec3(); err != nil {
				return nil, fmt.Errorf("link %d: %w", i, err)
			}
			if limit.Max, err = r.vec3(); err != nil {
				return nil, fmt.Errorf("link %d: %w", i, err)
			}
			link.Limit = limit
		}
	}
	return ik, nil
}
