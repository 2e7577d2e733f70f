package encoding

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDecodeUTF16LE(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, ""},
		{"ascii", []byte{'A', 0, 'B', 0}, "AB"},
		{"japanese", []byte{0x1D, 0x52, 0x25, 0x66}, "初春"},
		{"surrogate pair", []byte{0x3D, 0xD8, 0x00, 0xDE}, "\U0001F600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUTF16LE(tt.data)
			if err != nil {
				t.Fatalf("DecodeUTF16LE failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeUTF16LE_OddLength(t *testing.T) {
	got, err := DecodeUTF16LE([]byte{'A', 0, 'B'})
	if err != nil {
		t.Fatalf("DecodeUTF16LE failed: %v", err)
	}
	if !strings.HasPrefix(got, "A") {
		t.Errorf("expected leading 'A', got %q", got)
	}
	if !strings.ContainsRune(got, utf8.RuneError) {
		t.Errorf("expected replacement rune for dangling byte, got %q", got)
	}
}

func TestDecodeUTF8(t *testing.T) {
	got, err := DecodeUTF8([]byte("センター"))
	if err != nil {
		t.Fatalf("DecodeUTF8 failed: %v", err)
	}
	if got != "センター" {
		t.Errorf("got %q, want %q", got, "センター")
	}
	if n := utf8.RuneCountInString(got); n != 4 {
		t.Errorf("expected 4 runes, got %d", n)
	}
	if len(got) != 12 {
		t.Errorf("expected 12 bytes, got %d", len(got))
	}
}

func TestDecodeUTF8_Invalid(t *testing.T) {
	got, err := DecodeUTF8([]byte{'a', 0xFF, 'b'})
	if err != nil {
		t.Fatalf("DecodeUTF8 failed: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Errorf("expected valid UTF-8 output, got %q", got)
	}
	if got != "a�b" {
		t.Errorf("got %q, want %q", got, "a�b")
	}
}

func TestEncodeUTF16LE_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "センター", "left arm", "\U0001F600"} {
		data, err := EncodeUTF16LE(s)
		if err != nil {
			t.Fatalf("EncodeUTF16LE(%q) failed: %v", s, err)
		}
		got, err := DecodeUTF16LE(data)
		if err != nil {
			t.Fatalf("DecodeUTF16LE failed: %v", err)
		}
		if got != s {
			t.Errorf("round trip: got %q, want %q", got, s)
		}
	}
}
