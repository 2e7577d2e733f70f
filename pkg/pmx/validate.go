package pmx

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks cross references between sections. Decoding does not do
// this, so a parsed document may still point past the end of a collection.
// Every finding is reported; use multierr.Errors to split them.
func (doc *Document) Validate() error {
	v := &validator{doc: doc}
	v.surfaces()
	v.materials()
	v.vertices()
	v.bones()
	v.morphs()
	v.frames()
	v.physics()
	v.softBodies()
	return v.err
}

type validator struct {
	doc *Document
	err error
}

// ref records a finding if idx is set but outside a collection of length n.
func (v *validator) ref(where string, kind IndexKind, idx Index, n int) {
	if idx == NoIndex || idx.In(n) {
		return
	}
	v.err = multierr.Append(v.err, fmt.Errorf("%w: %s: %s index %d, have %d", ErrInvalidReference, where, kind, idx, n))
}

// required is like ref but NoIndex is also a finding.
func (v *validator) required(where string, kind IndexKind, idx Index, n int) {
	if idx.In(n) {
		return
	}
	v.err = multierr.Append(v.err, fmt.Errorf("%w: %s: %s index %d, have %d", ErrInvalidReference, where, kind, idx, n))
}

func (v *validator) surfaces() {
	n := len(v.doc.Vertices)
	for i, s := range v.doc.Surfaces {
		for _, idx := range s {
			v.required(fmt.Sprintf("surface %d", i), VertexIndex, idx, n)
		}
	}
}

func (v *validator) materials() {
	doc := v.doc
	var sum int64
	for i := range doc.Materials {
		m := &doc.Materials[i]
		where := fmt.Sprintf("material %d", i)
		if m.SurfaceCount%3 != 0 || m.SurfaceCount < 0 {
			v.err = multierr.Append(v.err, fmt.Errorf("%w: %s: surface count %d is not a multiple of 3", ErrSurfaceCountMismatch, where, m.SurfaceCount))
		}
		sum += int64(m.SurfaceCount)
		v.ref(where, TextureIndex, m.Texture, len(doc.Textures))
		v.ref(where, TextureIndex, m.EnvTexture, len(doc.Textures))
		if m.ToonRef == ToonTexture {
			v.ref(where, TextureIndex, m.Toon, len(doc.Textures))
		}
	}
	if want := int64(len(doc.Surfaces)) * 3; len(doc.Materials) > 0 && sum != want {
		v.err = multierr.Append(v.err, fmt.Errorf("%w: materials cover %d indices, have %d", ErrSurfaceCountMismatch, sum, want))
	}
}

func (v *validator) vertices() {
	n := len(v.doc.Bones)
	for i := range v.doc.Vertices {
		def := v.doc.Vertices[i].Deform
		if def == nil {
			continue
		}
		for _, b := range def.Bones() {
			v.ref(fmt.Sprintf("vertex %d", i), BoneIndex, b, n)
		}
	}
}

func (v *validator) bones() {
	n := len(v.doc.Bones)
	for i := range v.doc.Bones {
		b := &v.doc.Bones[i]
		where := fmt.Sprintf("bone %d", i)
		v.ref(where, BoneIndex, b.Parent, n)
		if tail, ok := b.Tail.(TailBone); ok {
			v.ref(where+" tail", BoneIndex, Index(tail), n)
		}
		if b.Inherit != nil {
			v.ref(where+" inherit", BoneIndex, b.Inherit.Parent, n)
		}
		if b.IK != nil {
			v.required(where+" IK target", BoneIndex, b.IK.Target, n)
			for j, link := range b.IK.Links {
				v.required(fmt.Sprintf("%s IK link %d", where, j), BoneIndex, link.Bone, n)
			}
		}
	}
}

func (v *validator) morphs() {
	doc := v.doc
	for i := range doc.Morphs {
		m := &doc.Morphs[i]
		where := fmt.Sprintf("morph %d", i)
		switch offsets := m.Offsets.(type) {
		case GroupOffsets:
			for _, o := range offsets {
				v.required(where, MorphIndex, o.Morph, len(doc.Morphs))
			}
		case VertexOffsets:
			for _, o := range offsets {
				v.required(where, VertexIndex, o.Vertex, len(doc.Vertices))
			}
		case BoneOffsets:
			for _, o := range offsets {
				v.required(where, BoneIndex, o.Bone, len(doc.Bones))
			}
		case UVOffsets:
			for _, o := range offsets {
				v.required(where, VertexIndex, o.Vertex, len(doc.Vertices))
			}
		case MaterialOffsets:
			// NoIndex targets every material.
			for _, o := range offsets {
				v.ref(where, MaterialIndex, o.Material, len(doc.Materials))
			}
		case FlipOffsets:
			for _, o := range offsets {
				v.required(where, MorphIndex, o.Morph, len(doc.Morphs))
			}
		case ImpulseOffsets:
			for _, o := range offsets {
				v.required(where, RigidBodyIndex, o.RigidBody, len(doc.RigidBodies))
			}
		}
	}
}

func (v *validator) frames() {
	doc := v.doc
	for i := range doc.DisplayFrames {
		for j, e := range doc.DisplayFrames[i].Entries {
			where := fmt.Sprintf("display frame %d entry %d", i, j)
			if e.Target == FrameMorph {
				v.required(where, MorphIndex, e.Index, len(doc.Morphs))
			} else {
				v.required(where, BoneIndex, e.Index, len(doc.Bones))
			}
		}
	}
}

func (v *validator) physics() {
	doc := v.doc
	for i := range doc.RigidBodies {
		v.ref(fmt.Sprintf("rigid body %d", i), BoneIndex, doc.RigidBodies[i].Bone, len(doc.Bones))
	}
	for i := range doc.Joints {
		j := &doc.Joints[i]
		where := fmt.Sprintf("joint %d", i)
		v.ref(where, RigidBodyIndex, j.RigidBodyA, len(doc.RigidBodies))
		v.ref(where, RigidBodyIndex, j.RigidBodyB, len(doc.RigidBodies))
	}
}

func (v *validator) softBodies() {
	doc := v.doc
	for i := range doc.SoftBodies {
		s := &doc.SoftBodies[i]
		where := fmt.Sprintf("soft body %d", i)
		v.ref(where, MaterialIndex, s.Material, len(doc.Materials))
		for _, a := range s.Anchors {
			v.required(where+" anchor", RigidBodyIndex, a.RigidBody, len(doc.RigidBodies))
			v.required(where+" anchor", VertexIndex, a.Vertex, len(doc.Vertices))
		}
		for _, p := range s.Pins {
			v.required(where+" pin", VertexIndex, p, len(doc.Vertices))
		}
	}
}
