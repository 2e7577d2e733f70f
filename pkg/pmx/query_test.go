package pmx

import (
	"reflect"
	"testing"
)

func TestMaterialRanges(t *testing.T) {
	doc := &Document{
		Surfaces:  make([]Surface, 5),
		Materials: []Material{{SurfaceCount: 6}, {SurfaceCount: 0}, {SurfaceCount: 9}},
	}

	want := []MaterialRange{
		{Material: 0, First: 0, Count: 2},
		{Material: 1, First: 2, Count: 0},
		{Material: 2, First: 2, Count: 3},
	}
	if got := doc.MaterialRanges(); !reflect.DeepEqual(got, want) {
		t.Errorf("MaterialRanges = %+v, want %+v", got, want)
	}
	if doc.TriangleCount() != 5 {
		t.Errorf("TriangleCount = %d", doc.TriangleCount())
	}
}

func TestMaterialRanges_Clamped(t *testing.T) {
	doc := &Document{
		Surfaces:  make([]Surface, 1),
		Materials: []Material{{SurfaceCount: 6}, {SurfaceCount: 3}},
	}

	want := []MaterialRange{
		{Material: 0, First: 0, Count: 1},
		{Material: 1, First: 1, Count: 0},
	}
	if got := doc.MaterialRanges(); !reflect.DeepEqual(got, want) {
		t.Errorf("MaterialRanges = %+v, want %+v", got, want)
	}
}

func TestBoneQueries(t *testing.T) {
	doc := &Document{
		Bones: []Bone{
			{Name: "全ての親", NameEN: "master", Parent: NoIndex},
			{Name: "センター", NameEN: "center", Parent: 0},
			{Name: "左足", Parent: 1},
			{Name: "右足", Parent: 1},
			{Name: "orphan", Parent: 42},
		},
		Morphs: []Morph{{Name: "あ", NameEN: "a"}},
	}

	if got := doc.BoneByName("center"); got != 1 {
		t.Errorf("BoneByName(center) = %d", got)
	}
	if got := doc.BoneByName("左足"); got != 2 {
		t.Errorf("BoneByName(左足) = %d", got)
	}
	if got := doc.BoneByName("missing"); got != NoIndex {
		t.Errorf("BoneByName(missing) = %d", got)
	}
	if got := doc.MorphByName("a"); got != 0 {
		t.Errorf("MorphByName(a) = %d", got)
	}
	if got := doc.ChildBones(1); !reflect.DeepEqual(got, []Index{2, 3}) {
		t.Errorf("ChildBones(1) = %v", got)
	}
	if got := doc.RootBones(); !reflect.DeepEqual(got, []Index{0, 4}) {
		t.Errorf("RootBones = %v", got)
	}
}
