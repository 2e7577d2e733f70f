package pmx

import (
	"fmt"

	"github.com/Faultbox/midgard-pmx/pkg/encoding"
)

// ModelInfo holds the model names and comments that follow the header.
type ModelInfo struct {
	Name      string
	NameEN    string
	Comment   string
	CommentEN string
}

// text reads an int32 byte length followed by that many bytes in the given
// encoding. A zero length consumes only the length prefix.
func (r *reader) text(enc TextEncoding) (string, error) {
	if enc != UTF16LE && enc != UTF8 {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedEncoding, enc)
	}

	n, err := r.i32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative text length %d at offset %d", ErrTruncatedBuffer, n, r.off-4)
	}
	if n == 0 {
		return "", nil
	}

	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}

	var s string
	if enc == UTF16LE {
		s, err = encoding.DecodeUTF16LE(b)
	} else {
		s, err = encoding.DecodeUTF8(b)
	}
	if err != nil {
		return "", fmt.Errorf("decoding %s text at offset %d: %w", enc, r.off-int(n), err)
	}
	return s, nil
}

// names reads the local/universal name pair that opens most records.
func (r *reader) names(enc TextEncoding) (string, string, error) {
	local, err := r.text(enc)
	if err != nil {
		return "", "", err
	}
	universal, err := r.text(enc)
	if err != nil {
		return "", "", err
	}
	return local, universal, nil
}

func decodeModelInfo(r *reader, h *Header) (ModelInfo, error) {
	var info ModelInfo
	var err error
	if info.Name, info.NameEN, err = r.names(h.Encoding); err != nil {
		return ModelInfo{}, err
	}
	if info.Comment, info.CommentEN, err = r.names(h.Encoding); err != nil {
		return ModelInfo{}, err
	}
	return info, nil
}
