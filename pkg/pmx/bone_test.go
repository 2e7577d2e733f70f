package pmx

import (
	"testing"
)

func TestBones_Plain(t *testing.T) {
	b := newBuilder()
	b.i32(2).bone("センター", -1).bone("上半身", 0)

	bones, err := b.decoder().bones()
	if err != nil {
		t.Fatalf("bones failed: %v", err)
	}
	if len(bones) != 2 {
		t.Fatalf("expected 2 bones, got %d", len(bones))
	}

	root := bones[0]
	if root.Name != "センター" || root.Parent != NoIndex {
		t.Errorf("root = %q parent %d", root.Name, root.Parent)
	}
	if _, ok := root.Tail.(TailOffset); !ok {
		t.Errorf("expected offset tail, got %T", root.Tail)
	}
	if root.Inherit != nil || root.FixedAxis != nil || root.LocalCoordinate != nil || root.ExternalParent != nil || root.IK != nil {
		t.Error("plain bone has extension blocks")
	}
	if bones[1].Parent != 0 {
		t.Errorf("child parent = %d, want 0", bones[1].Parent)
	}
}

func TestBones_Extensions(t *testing.T) {
	b := newBuilder()
	b.sizes[BoneIndex] = 2
	b.i32(1)
	b.names("足ＩＫ", "leg IK")
	b.f32(1, 2, 3)
	b.index(BoneIndex, -1)
	b.i32(1)
	flags := BoneIndexedTail | BoneIK | BoneInheritRotation | BoneFixedAxis | BoneLocalCoordinate | BoneExternalParent
	b.u16(uint16(flags))
	b.index(BoneIndex, 7)          // tail bone
	b.index(BoneIndex, 2).f32(0.5) // inherit
	b.f32(0, 0, 1)                 // fixed axis
	b.f32(1, 0, 0, 0, 0, 1)        // local x, z
	b.index(BoneIndex, 300)        // external parent
	// IK: target, loops, limit, two links, second constrained.
	b.index(BoneIndex, 5).i32(40).f32(2)
	b.i32(2)
	b.index(BoneIndex, 4).u8(0)
	b.index(BoneIndex, 3).u8(1).f32(-3.14, 0, 0, -0.5, 0, 0)

	d := b.decoder()
	bones, err := d.bones()
	if err != nil {
		t.Fatalf("bones failed: %v", err)
	}
	if d.r.remaining() != 0 {
		t.Errorf("%d bytes left", d.r.remaining())
	}

	bone := bones[0]
	if bone.Flags != flags {
		t.Errorf("flags = %s", bone.Flags)
	}
	if tail, ok := bone.Tail.(TailBone); !ok || Index(tail) != 7 {
		t.Errorf("tail = %#v", bone.Tail)
	}
	if bone.Inherit == nil || bone.Inherit.Parent != 2 || bone.Inherit.Influence != 0.5 {
		t.Errorf("inherit = %+v", bone.Inherit)
	}
	if bone.FixedAxis == nil || bone.FixedAxis.Direction.Z() != 1 {
		t.Errorf("fixed axis = %+v", bone.FixedAxis)
	}
	if bone.LocalCoordinate == nil || bone.LocalCoordinate.X.X() != 1 || bone.LocalCoordinate.Z.Z() != 1 {
		t.Errorf("local coordinate = %+v", bone.LocalCoordinate)
	}
	if bone.ExternalParent == nil || bone.ExternalParent.Parent != 300 {
		t.Errorf("external parent = %+v", bone.ExternalParent)
	}

	ik := bone.IK
	if ik == nil {
		t.Fatal("expected IK block")
	}
	if ik.Target != 5 || ik.Loops != 40 || ik.LimitRadian != 2 {
		t.Errorf("IK = %+v", ik)
	}
	if len(ik.Links) != 2 {
		t.Fatalf("expected 2 IK links, got %d", len(ik.Links))
	}
	if ik.Links[0].Bone != 4 || ik.Links[0].Limit != nil {
		t.Errorf("link 0 = %+v", ik.Links[0])
	}
	if ik.Links[1].Limit == nil || ik.Links[1].Limit.Max.X() != -0.5 {
		t.Errorf("link 1 = %+v", ik.Links[1])
	}
}

func TestBones_InheritTranslationOnly(t *testing.T) {
	b := newBuilder()
	b.i32(1)
	b.names("", "")
	b.f32(0, 0, 0)
	b.index(BoneIndex, -1)
	b.i32(0)
	b.u16(uint16(BoneInheritTranslation))
	b.f32(0, 0, 0)
	b.index(BoneIndex, 0).f32(1)

	bones, err := b.decoder().bones()
	if err != nil {
		t.Fatalf("bones failed: %v", err)
	}
	if bones[0].Inherit == nil || bones[0].Inherit.Influence != 1 {
		t.Errorf("inherit = %+v", bones[0].Inherit)
	}
}

func TestBoneFlags_String(t *testing.T) {
	if s := BoneFlags(0).String(); s != "None" {
		t.Errorf("got %q", s)
	}
	if s := (BoneIK | BoneVisible).String(); s != "Visible|IK" {
		t.Errorf("got %q", s)
	}
	if !(BoneIK | BoneVisible).Any(BoneIK | BoneFixedAxis) {
		t.Error("Any should match IK")
	}
	if (BoneIK).Has(BoneIK | BoneFixedAxis) {
		t.Error("Has should require every bit")
	}
}
