package pmx

import (
	"errors"
	"fmt"
)

// PMX format errors.
var (
	ErrMalformedHeader      = errors.New("malformed PMX header")
	ErrUnsupportedEncoding  = errors.New("unsupported PMX text encoding")
	ErrUnknownTag           = errors.New("unknown PMX tag")
	ErrTruncatedBuffer      = errors.New("truncated PMX data")
	ErrSizeMismatch         = errors.New("PMX data size mismatch")
	ErrMalformedSection     = errors.New("malformed PMX section")
	ErrBufferTooLarge       = errors.New("PMX data exceeds size limit")
	ErrInvalidReference     = errors.New("invalid PMX reference")
	ErrSurfaceCountMismatch = errors.New("material surface counts do not cover all surfaces")
)

// ParseError reports the section and byte offset at which decoding stopped.
type ParseError struct {
	Section string
	Offset  int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pmx: decoding %s at offset %d: %v", e.Section, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
