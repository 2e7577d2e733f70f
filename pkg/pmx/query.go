package pmx

// MaterialRange is the run of surfaces drawn with one material.
type MaterialRange struct {
	Material int
	First    int // first surface (triangle) index
	Count    int // number of surfaces
}

// MaterialRanges converts the per-material surface index counts into
// consecutive triangle ranges. Ranges are clamped to the decoded surfaces.
func (doc *Document) MaterialRanges() []MaterialRange {
	ranges := make([]MaterialRange, 0, len(doc.Materials))
	first := 0
	for i, m := range doc.Materials {
		count := int(m.SurfaceCount) / 3
		if count < 0 {
			count = 0
		}
		if first+count > len(doc.Surfaces) {
			count = max(len(doc.Surfaces)-first, 0)
		}
		ranges = append(ranges, MaterialRange{Material: i, First: first, Count: count})
		first += count
	}
	return ranges
}

// TriangleCount returns the number of surfaces.
func (doc *Document) TriangleCount() int {
	return len(doc.Surfaces)
}

// BoneByName returns the index of the first bone with the given local or
// universal name, or NoIndex.
func (doc *Document) BoneByName(name string) Index {
	for i := range doc.Bones {
		if doc.Bones[i].Name == name || doc.Bones[i].NameEN == name {
			return Index(i)
		}
	}
	return NoIndex
}

// MorphByName returns the index of the first morph with the given local or
// universal name, or NoIndex.
func (doc *Document) MorphByName(name string) Index {
	for i := range doc.Morphs {
		if doc.Morphs[i].Name == name || doc.Morphs[i].NameEN == name {
			return Index(i)
		}
	}
	return NoIndex
}

// ChildBones returns the bones whose parent is the given bone.
func (doc *Document) ChildBones(parent Index) []Index {
	var children []Index
	for i := range doc.Bones {
		if doc.Bones[i].Parent == parent {
			children = append(children, Index(i))
		}
	}
	return children
}

// RootBones returns the bones without a valid parent.
func (doc *Document) RootBones() []Index {
	var roots []Index
	for i := range doc.Bones {
		if !doc.Bones[i].Parent.In(len(doc.Bones)) {
			roots = append(roots, Index(i))
		}
	}
	return roots
}
