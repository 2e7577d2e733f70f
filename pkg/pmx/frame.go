package pmx

import "fmt"

// FrameTarget tags a display frame entry as a bone or a morph reference.
type FrameTarget uint8

// Frame entry targets.
const (
	FrameBone  FrameTarget = 0
	FrameMorph FrameTarget = 1
)

// String returns a human-readable target name.
func (t FrameTarget) String() string {
	switch t {
	case FrameBone:
		return "Bone"
	case FrameMorph:
		return "Morph"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// FrameEntry is one element of a display frame. Index is a bone index when
// Target is FrameBone and a morph index when it is FrameMorph.
type FrameEntry struct {
	Target FrameTarget
	Index  Index
}

// DisplayFrame groups bones and morphs for presentation in an editor.
type DisplayFrame struct {
	Name    string
	NameEN  string
	Special bool // the root and facial frames are special
	Entries []FrameEntry
}

// minFrameSize is two empty names, special flag and entry count.
const minFrameSize = 4 + 4 + 1 + 4

func (d *decoder) displayFrames() ([]DisplayFrame, error) {
	n, err := d.r.count(minFrameSize)
	if err != nil || n == 0 {
		return nil, err
	}

	frames := make([]DisplayFrame, n)
	for i := range frames {
		if err := d.displayFrame(&frames[i]); err != nil {
			return nil, fmt.Errorf("display frame %d: %w", i, err)
		}
	}
	return frames, nil
}

func (d *decoder) displayFrame(f *DisplayFrame) error {
	r := d.r
	var err error

	if f.Name, f.NameEN, err = r.names(d.h.Encoding); err != nil {
		return err
	}
	special, err := r.u8()
	if err != nil {
		return err
	}
	f.Special = special != 0

	n, err := r.count(1 + 1)
	if err != nil || n == 0 {
		return err
	}

	f.Entries = make([]FrameEntry, n)
	for j := range f.Entries {
		e := &f.Entries[j]
		target, err := r.u8()
		if err != nil {
			return fmt.Errorf("entry %d: %w", j, err)
		}
		e.Target = FrameTarget(target)
		switch e.Target {
		case FrameBone:
			e.Index, err = d.bone()
		case FrameMorph:
			e.Index, err = d.morphIndex()
		default:
			return fmt.Errorf("entry %d: %w: frame target %d", j, ErrUnknownTag, target)
		}
		if err != nil {
			return fmt.Errorf("entry %d: %w", j, err)
		}
	}
	return nil
}
