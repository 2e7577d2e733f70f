package main

import (
	"fmt"

	"github.com/Faultbox/midgard-pmx/pkg/pmx"
)

// Listing rows. Each is printed as a text line or encoded as YAML.

type boneRow struct {
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	NameEN  string `yaml:"name_en,omitempty"`
	Parent  int32  `yaml:"parent"`
	Layer   int32  `yaml:"layer"`
	Flags   string `yaml:"flags"`
	IKLinks int    `yaml:"ik_links,omitempty"`
}

type morphRow struct {
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	NameEN  string `yaml:"name_en,omitempty"`
	Panel   string `yaml:"panel"`
	Kind    string `yaml:"kind"`
	Offsets int    `yaml:"offsets"`
}

type materialRow struct {
	Index     int    `yaml:"index"`
	Name      string `yaml:"name"`
	Texture   string `yaml:"texture,omitempty"`
	Toon      string `yaml:"toon,omitempty"`
	Flags     string `yaml:"flags"`
	First     int    `yaml:"first_triangle"`
	Triangles int    `yaml:"triangles"`
}

type frameRow struct {
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	Special bool   `yaml:"special"`
	Bones   int    `yaml:"bones"`
	Morphs  int    `yaml:"morphs"`
}

type rigidBodyRow struct {
	Index int     `yaml:"index"`
	Name  string  `yaml:"name"`
	Bone  string  `yaml:"bone"`
	Shape string  `yaml:"shape"`
	Mode  string  `yaml:"mode"`
	Mass  float32 `yaml:"mass"`
}

type jointRow struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	A     string `yaml:"a"`
	B     string `yaml:"b"`
}

type softBodyRow struct {
	Index    int    `yaml:"index"`
	Name     string `yaml:"name"`
	Shape    string `yaml:"shape"`
	Material string `yaml:"material"`
	Anchors  int    `yaml:"anchors"`
	Pins     int    `yaml:"pins"`
}

// modelSummary is the header and section counts of a document.
type modelSummary struct {
	Name      string `yaml:"name"`
	NameEN    string `yaml:"name_en,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
	CommentEN string `yaml:"comment_en,omitempty"`

	Version           string           `yaml:"version"`
	Encoding          string           `yaml:"encoding"`
	AdditionalVectors int              `yaml:"additional_vectors"`
	IndexSizes        map[string]uint8 `yaml:"index_sizes"`

	Counts sectionCounts `yaml:"counts"`
}

type sectionCounts struct {
	Vertices      int `yaml:"vertices"`
	Triangles     int `yaml:"triangles"`
	Textures      int `yaml:"textures"`
	Materials     int `yaml:"materials"`
	Bones         int `yaml:"bones"`
	Morphs        int `yaml:"morphs"`
	DisplayFrames int `yaml:"display_frames"`
	RigidBodies   int `yaml:"rigid_bodies"`
	Joints        int `yaml:"joints"`
	SoftBodies    int `yaml:"soft_bodies"`
}

// dumpDocument is what the dump command writes.
type dumpDocument struct {
	Model         modelSummary   `yaml:"model"`
	Textures      []string       `yaml:"textures,omitempty"`
	Materials     []materialRow  `yaml:"materials,omitempty"`
	Bones         []boneRow      `yaml:"bones,omitempty"`
	Morphs        []morphRow     `yaml:"morphs,omitempty"`
	DisplayFrames []frameRow     `yaml:"display_frames,omitempty"`
	RigidBodies   []rigidBodyRow `yaml:"rigid_bodies,omitempty"`
	Joints        []jointRow     `yaml:"joints,omitempty"`
	SoftBodies    []softBodyRow  `yaml:"soft_bodies,omitempty"`
}

func summarize(doc *pmx.Document) modelSummary {
	h := &doc.Header
	sizes := make(map[string]uint8)
	for kind := pmx.VertexIndex; kind <= pmx.RigidBodyIndex; kind++ {
		sizes[kind.String()] = h.IndexSize(kind)
	}
	return modelSummary{
		Name:              doc.Info.Name,
		NameEN:            doc.Info.NameEN,
		Comment:           doc.Info.Comment,
		CommentEN:         doc.Info.CommentEN,
		Version:           h.VersionString(),
		Encoding:          h.Encoding.String(),
		AdditionalVectors: int(h.AdditionalVectors),
		IndexSizes:        sizes,
		Counts: sectionCounts{
			Vertices:      len(doc.Vertices),
			Triangles:     doc.TriangleCount(),
			Textures:      len(doc.Textures),
			Materials:     len(doc.Materials),
			Bones:         len(doc.Bones),
			Morphs:        len(doc.Morphs),
			DisplayFrames: len(doc.DisplayFrames),
			RigidBodies:   len(doc.RigidBodies),
			Joints:        len(doc.Joints),
			SoftBodies:    len(doc.SoftBodies),
		},
	}
}

func boneRows(doc *pmx.Document) []boneRow {
	rows := make([]boneRow, len(doc.Bones))
	for i := range doc.Bones {
		b := &doc.Bones[i]
		rows[i] = boneRow{
			Index:  i,
			Name:   b.Name,
			NameEN: b.NameEN,
			Parent: int32(b.Parent),
			Layer:  b.Layer,
			Flags:  b.Flags.String(),
		}
		if b.IK != nil {
			rows[i].IKLinks = len(b.IK.Links)
		}
	}
	return rows
}

// morphRows lists the morphs, optionally only those whose kind name matches.
func morphRows(doc *pmx.Document, kind string) []morphRow {
	var rows []morphRow
	for i := range doc.Morphs {
		m := &doc.Morphs[i]
		if kind != "" && m.Kind.String() != kind {
			continue
		}
		rows = append(rows, morphRow{
			Index:   i,
			Name:    m.Name,
			NameEN:  m.NameEN,
			Panel:   m.Panel.String(),
			Kind:    m.Kind.String(),
			Offsets: m.Len(),
		})
	}
	return rows
}

func materialRows(doc *pmx.Document) []materialRow {
	ranges := doc.MaterialRanges()
	rows := make([]materialRow, len(doc.Materials))
	for i := range doc.Materials {
		m := &doc.Materials[i]
		rows[i] = materialRow{
			Index:     i,
			Name:      m.Name,
			Texture:   texturePath(doc, m.Texture),
			Flags:     m.Flags.String(),
			First:     ranges[i].First,
			Triangles: ranges[i].Count,
		}
		switch m.ToonRef {
		case pmx.ToonInternal:
			rows[i].Toon = fmt.Sprintf("toon%02d.bmp", int(m.Toon)+1)
		case pmx.ToonTexture:
			rows[i].Toon = texturePath(doc, m.Toon)
		}
	}
	return rows
}

func texturePath(doc *pmx.Document, idx pmx.Index) string {
	if !idx.In(len(doc.Textures)) {
		return ""
	}
	return doc.Textures[idx]
}

func frameRows(doc *pmx.Document) []frameRow {
	rows := make([]frameRow, len(doc.DisplayFrames))
	for i := range doc.DisplayFrames {
		f := &doc.DisplayFrames[i]
		rows[i] = frameRow{Index: i, Name: f.Name, Special: f.Special}
		for _, e := range f.Entries {
			if e.Target == pmx.FrameMorph {
				rows[i].Morphs++
			} else {
				rows[i].Bones++
			}
		}
	}
	return rows
}

// refName renders an index as "index name" when the name is known.
func refName(idx pmx.Index, names func(int) string, n int) string {
	if !idx.Valid() {
		return "-"
	}
	if !idx.In(n) {
		return fmt.Sprintf("%d ?", idx)
	}
	return fmt.Sprintf("%d %s", idx, names(int(idx)))
}

func rigidBodyRows(doc *pmx.Document) []rigidBodyRow {
	boneName := func(i int) string { return doc.Bones[i].Name }
	rows := make([]rigidBodyRow, len(doc.RigidBodies))
	for i := range doc.RigidBodies {
		b := &doc.RigidBodies[i]
		rows[i] = rigidBodyRow{
			Index: i,
			Name:  b.Name,
			Bone:  refName(b.Bone, boneName, len(doc.Bones)),
			Shape: b.Shape.String(),
			Mode:  b.Mode.String(),
			Mass:  b.Mass,
		}
	}
	return rows
}

func jointRows(doc *pmx.Document) []jointRow {
	bodyName := func(i int) string { return doc.RigidBodies[i].Name }
	rows := make([]jointRow, len(doc.Joints))
	for i := range doc.Joints {
		j := &doc.Joints[i]
		rows[i] = jointRow{
			Index: i,
			Name:  j.Name,
			Kind:  j.Kind.String(),
			A:     refName(j.RigidBodyA, bodyName, len(doc.RigidBodies)),
			B:     refName(j.RigidBodyB, bodyName, len(doc.RigidBodies)),
		}
	}
	return rows
}

func softBodyRows(doc *pmx.Document) []softBodyRow {
	materialName := func(i int) string { return doc.Materials[i].Name }
	rows := make([]softBodyRow, len(doc.SoftBodies))
	for i := range doc.SoftBodies {
		s := &doc.SoftBodies[i]
		rows[i] = softBodyRow{
			Index:    i,
			Name:     s.Name,
			Shape:    s.Shape.String(),
			Material: refName(s.Material, materialName, len(doc.Materials)),
			Anchors:  len(s.Anchors),
			Pins:     len(s.Pins),
		}
	}
	return rows
}

func dump(doc *pmx.Document) dumpDocument {
	return dumpDocument{
		Model:         summarize(doc),
		Textures:      doc.Textures,
		Materials:     materialRows(doc),
		Bones:         boneRows(doc),
		Morphs:        morphRows(doc, ""),
		DisplayFrames: frameRows(doc),
		RigidBodies:   rigidBodyRows(doc),
		Joints:        jointRows(doc),
		SoftBodies:    softBodyRows(doc),
	}
}
