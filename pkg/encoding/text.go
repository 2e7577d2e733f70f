// Package encoding provides text decoding for the string tables of PMX model files.
package encoding

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf8Enc = unicode.UTF8
)

// DecodeUTF16LE converts little-endian UTF-16 bytes to a UTF-8 string.
// Unpaired surrogates and a trailing odd byte become U+FFFD.
func DecodeUTF16LE(data []byte) (string, error) {
	return decode(utf16LE, data)
}

// DecodeUTF8 copies UTF-8 bytes into a string, replacing invalid sequences with U+FFFD.
func DecodeUTF8(data []byte) (string, error) {
	return decode(utf8Enc, data)
}

// EncodeUTF16LE converts a UTF-8 string to little-endian UTF-16 bytes without a BOM.
func EncodeUTF16LE(s string) ([]byte, error) {
	result, _, err := transform.Bytes(utf16LE.NewEncoder(), []byte(s))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decode(enc encoding.Encoding, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	result, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(result), nil
}
