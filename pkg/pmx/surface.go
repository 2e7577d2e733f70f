package pmx

import "fmt"

// Surface is one triangle as three vertex indices.
type Surface [3]Index

// surfaces reads the flat vertex index list. The stored count is of indices,
// not triangles, and must be a multiple of 3.
func (d *decoder) surfaces() ([]Surface, error) {
	n, err := d.r.count(int(d.h.VertexIndexSize))
	if err != nil || n == 0 {
		return nil, err
	}
	if n%3 != 0 {
		return nil, fmt.Errorf("%w: surface index count %d is not a multiple of 3", ErrMalformedSection, n)
	}

	surfaces := make([]Surface, n/3)
	for i := range surfaces {
		if err := d.checkpoint(i); err != nil {
			return nil, err
		}
		for j := 0; j < 3; j++ {
			if surfaces[i][j], err = d.vertexIndex(); err != nil {
				return nil, fmt.Errorf("surface %d: %w", i, err)
			}
		}
	}
	return surfaces, nil
}

// textures reads the texture path table.
func (d *decoder) textures() ([]string, error) {
	n, err := d.r.count(4)
	if err != nil || n == 0 {
		return nil, err
	}

	textures := make([]string, n)
	for i := range textures {
		if textures[i], err = d.r.text(d.h.Encoding); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
	}
	return textures, nil
}
