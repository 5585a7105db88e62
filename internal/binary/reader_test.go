package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// bytesReaderAt wraps a byte slice to implement io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestReaderBigEndianScalars(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint8(0xFE))
	binary.Write(&buf, binary.BigEndian, int16(-2))
	binary.Write(&buf, binary.BigEndian, uint32(0x12345678))
	binary.Write(&buf, binary.BigEndian, float32(0.5))

	r := NewReader(bytesReaderAt(buf.Bytes()), DefaultConfig())

	i8, err := r.ReadInt8()
	if err != nil {
		t.Fatalf("ReadInt8 failed: %v", err)
	}
	if i8 != -2 {
		t.Errorf("expected -2, got %d", i8)
	}

	i16, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if i16 != -2 {
		t.Errorf("expected -2, got %d", i16)
	}

	u32, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if u32 != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08x", u32)
	}

	f, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f != 0.5 {
		t.Errorf("expected 0.5, got %v", f)
	}

	if r.Pos() != 11 {
		t.Errorf("expected position 11, got %d", r.Pos())
	}
}

func TestReaderAtIndependent(t *testing.T) {
	data := bytesReaderAt{0, 0, 0, 1, 0, 0, 0, 2}
	r := NewReader(data, DefaultConfig())

	r2 := r.At(4)
	v, err := r2.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
	if r.Pos() != 0 {
		t.Errorf("original reader moved to %d", r.Pos())
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader(bytesReaderAt{0, 1}, DefaultConfig())
	if _, err := r.ReadUint32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderStrings(t *testing.T) {
	var b Buffer
	w := NewWriter(&b, DefaultConfig())
	if err := w.WriteString8("affymetrix-calvin"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString16("Région"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBlob([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&b, DefaultConfig())
	s8, err := r.ReadString8()
	if err != nil {
		t.Fatalf("ReadString8 failed: %v", err)
	}
	if s8 != "affymetrix-calvin" {
		t.Errorf("String8 = %q", s8)
	}
	s16, err := r.ReadString16()
	if err != nil {
		t.Fatalf("ReadString16 failed: %v", err)
	}
	if s16 != "Région" {
		t.Errorf("String16 = %q", s16)
	}
	blob, err := r.ReadBlob()
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}
	if !bytes.Equal(blob, []byte{1, 2, 3}) {
		t.Errorf("Blob = %v", blob)
	}
	if r.Pos() != int64(b.Len()) {
		t.Errorf("expected to consume %d bytes, consumed %d", b.Len(), r.Pos())
	}
}

func TestReaderBadLength(t *testing.T) {
	data := bytesReaderAt{0xFF, 0xFF, 0xFF, 0xFF}
	r := NewReader(data, DefaultConfig())
	if _, err := r.ReadString8(); !errors.Is(err, ErrBadLength) {
		t.Errorf("expected ErrBadLength, got %v", err)
	}
}

func TestTrimNUL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"ab\x00\x00", "ab"},
		{"\x00", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TrimNUL(tt.in); got != tt.want {
			t.Errorf("TrimNUL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
