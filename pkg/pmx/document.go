package pmx

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// checkpointInterval is how many records are decoded between context checks.
const checkpointInterval = 4096

// Options controls a parse.
type Options struct {
	// MaxSize rejects inputs larger than this many bytes. Zero means no limit.
	MaxSize int

	// Strict runs Validate after decoding and fails on any finding.
	Strict bool

	// Logger receives section counts at debug level. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by Parse.
func DefaultOptions() Options {
	return Options{}
}

// Document is a fully decoded PMX model.
type Document struct {
	Header Header
	Info   ModelInfo

	Vertices []Vertex
	Surfaces []Surface
	Textures []string

	Materials     []Material
	Bones         []Bone
	Morphs        []Morph
	DisplayFrames []DisplayFrame
	RigidBodies   []RigidBody
	Joints        []Joint

	// SoftBodies is always empty for version 2.0.
	SoftBodies []SoftBody
}

// decoder carries the state shared by the section decoders.
type decoder struct {
	r   *reader
	h   *Header
	ctx context.Context
}

func (d *decoder) bone() (Index, error) {
	return d.r.index(d.h.BoneIndexSize, BoneIndex)
}

func (d *decoder) vertexIndex() (Index, error) {
	return d.r.index(d.h.VertexIndexSize, VertexIndex)
}

func (d *decoder) textureIndex() (Index, error) {
	return d.r.index(d.h.TextureIndexSize, TextureIndex)
}

func (d *decoder) materialIndex() (Index, error) {
	return d.r.index(d.h.MaterialIndexSize, MaterialIndex)
}

func (d *decoder) morphIndex() (Index, error) {
	return d.r.index(d.h.MorphIndexSize, MorphIndex)
}

func (d *decoder) rigidBodyIndex() (Index, error) {
	return d.r.index(d.h.RigidBodyIndexSize, RigidBodyIndex)
}

// checkpoint polls the context every checkpointInterval records.
func (d *decoder) checkpoint(i int) error {
	if i%checkpointInterval != 0 {
		return nil
	}
	return d.ctx.Err()
}

// Parse decodes a PMX buffer with default options.
func Parse(data []byte) (*Document, error) {
	return ParseContext(context.Background(), data, DefaultOptions())
}

// ParseFile reads and decodes a PMX file with default options.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pmx file: %w", err)
	}
	return Parse(data)
}

// ParseContext decodes a PMX buffer. The buffer is only read, never retained.
// On any error the returned document is nil.
func ParseContext(ctx context.Context, data []byte, opts Options) (*Document, error) {
	if opts.MaxSize > 0 && len(data) > opts.MaxSize {
		return nil, &ParseError{
			Section: "input",
			Err:     fmt.Errorf("%w: %d bytes, limit %d", ErrBufferTooLarge, len(data), opts.MaxSize),
		}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := newReader(data)
	doc := &Document{}
	d := &decoder{r: r, h: &doc.Header, ctx: ctx}

	// step runs one section decoder and attaches the section name and the
	// offset where it started to any failure.
	step := func(section string, fn func() error) error {
		start := r.offset()
		if err := ctx.Err(); err != nil {
			return &ParseError{Section: section, Offset: start, Err: err}
		}
		if err := fn(); err != nil {
			return &ParseError{Section: section, Offset: start, Err: err}
		}
		return nil
	}

	sections := []struct {
		name string
		fn   func() error
	}{
		{"header", func() (err error) {
			doc.Header, err = decodeHeader(r)
			return err
		}},
		{"model info", func() (err error) {
			doc.Info, err = decodeModelInfo(r, &doc.Header)
			return err
		}},
		{"vertices", func() (err error) {
			doc.Vertices, err = d.vertices()
			return err
		}},
		{"surfaces", func() (err error) {
			doc.Surfaces, err = d.surfaces()
			return err
		}},
		{"textures", func() (err error) {
			doc.Textures, err = d.textures()
			return err
		}},
		{"materials", func() (err error) {
			doc.Materials, err = d.materials()
			return err
		}},
		{"bones", func() (err error) {
			doc.Bones, err = d.bones()
			return err
		}},
		{"morphs", func() (err error) {
			doc.Morphs, err = d.morphs()
			return err
		}},
		{"display frames", func() (err error) {
			doc.DisplayFrames, err = d.displayFrames()
			return err
		}},
		{"rigid bodies", func() (err error) {
			doc.RigidBodies, err = d.rigidBodies()
			return err
		}},
		{"joints", func() (err error) {
			doc.Joints, err = d.joints()
			return err
		}},
		{"soft bodies", func() (err error) {
			if !doc.Header.HasSoftBodies() {
				return nil
			}
			doc.SoftBodies, err = d.softBodies()
			return err
		}},
	}

	for _, s := range sections {
		if err := step(s.name, s.fn); err != nil {
			return nil, err
		}
		if s.name == "header" && (doc.Header.Version < 2.0 || doc.Header.Version > 2.1) {
			log.Warn("unexpected PMX version", zap.String("version", doc.Header.VersionString()))
		}
	}

	if r.remaining() != 0 {
		return nil, &ParseError{
			Section: "end of data",
			Offset:  r.offset(),
			Err:     fmt.Errorf("%w: %d trailing bytes", ErrSizeMismatch, r.remaining()),
		}
	}

	log.Debug("PMX decoded",
		zap.String("version", doc.Header.VersionString()),
		zap.Stringer("encoding", doc.Header.Encoding),
		zap.String("name", doc.Info.Name),
		zap.Int("vertices", len(doc.Vertices)),
		zap.Int("surfaces", len(doc.Surfaces)),
		zap.Int("textures", len(doc.Textures)),
		zap.Int("materials", len(doc.Materials)),
		zap.Int("bones", len(doc.Bones)),
		zap.Int("morphs", len(doc.Morphs)),
		zap.Int("displayFrames", len(doc.DisplayFrames)),
		zap.Int("rigidBodies", len(doc.RigidBodies)),
		zap.Int("joints", len(doc.Joints)),
		zap.Int("softBodies", len(doc.SoftBodies)),
	)

	if opts.Strict {
		if err := doc.Validate(); err != nil {
			return nil, &ParseError{Section: "validation", Offset: r.offset(), Err: err}
		}
	}

	return doc, nil
}

// IsFormatError returns true if err was caused by malformed input rather than
// by I/O, cancellation or a size limit.
func IsFormatError(err error) bool {
	for _, target := range []error{
		ErrMalformedHeader, ErrUnsupportedEncoding, ErrUnknownTag,
		ErrTruncatedBuffer, ErrSizeMismatch, ErrMalformedSection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
