package pmx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// reader is a forward-only cursor over an immutable PMX buffer.
// Every read checks the remaining length before touching the data.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) offset() int {
	return r.off
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// next returns the next n bytes and advances the cursor.
func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedBuffer, n, r.off, r.remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) i32() (int32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) f32() (float32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// floats fills dst with consecutive little-endian float32 values.
func (r *reader) floats(dst []float32) error {
	b, err := r.next(4 * len(dst))
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return nil
}

func (r *reader) vec2() (mgl32.Vec2, error) {
	var v mgl32.Vec2
	err := r.floats(v[:])
	return v, err
}

func (r *reader) vec3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	err := r.floats(v[:])
	return v, err
}

func (r *reader) vec4() (mgl32.Vec4, error) {
	var v mgl32.Vec4
	err := r.floats(v[:])
	return v, err
}

// count reads an int32 record count. Non-positive counts mean an empty section.
// minSize is the smallest possible encoded record, used to reject counts the
// remaining data could never hold before anything is allocated.
func (r *reader) count(minSize int) (int, error) {
	n, err := r.i32()
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	if minSize > 0 && int64(n)*int64(minSize) > int64(r.remaining()) {
		return 0, fmt.Errorf("%w: %d records of at least %d bytes at offset %d, have %d", ErrTruncatedBuffer, n, minSize, r.off, r.remaining())
	}
	return int(n), nil
}
