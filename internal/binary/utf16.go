package binary

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// EncodeUTF16 converts s to UTF-16BE code units.
func EncodeUTF16(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	return utf16BE.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16 converts UTF-16BE code units to a Go string.
func DecodeUTF16(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// TrimNUL cuts s at its first NUL character.
func TrimNUL(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
