// Package binary provides low-level positioned binary I/O for Calvin files.
//
// Calvin stores every multi-byte value big-endian. Strings come in two
// flavours: String8 (int32 byte count followed by single-byte characters)
// and String16 (int32 code-unit count followed by UTF-16BE code units).
// Blobs are an int32 byte count followed by raw bytes.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// MaxStringLen bounds the element count accepted for a length-prefixed
// string or blob. Anything larger is treated as a corrupt prefix.
const MaxStringLen = 1 << 28

// ErrBadLength is returned when a length prefix is negative or implausibly large.
var ErrBadLength = errors.New("invalid length prefix")

// Reader reads Calvin primitives from an io.ReaderAt at an explicit position.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// Config holds reader and writer configuration.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the Calvin configuration: big-endian throughout.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.BigEndian}
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{r: r, order: order}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, order: r.order, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads an IEEE-754 single stored through the 32-bit integer path.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// readCount reads an int32 length prefix and bounds-checks it.
func (r *Reader) readCount() (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxStringLen {
		return 0, fmt.Errorf("%w: %d at offset %d", ErrBadLength, n, r.pos-4)
	}
	return int(n), nil
}

// ReadString8 reads an int32 count followed by that many single-byte characters.
func (r *Reader) ReadString8() (string, error) {
	n, err := r.readCount()
	if err != nil {
		return "", err
	}
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadString16 reads an int32 code-unit count followed by UTF-16BE units.
func (r *Reader) ReadString16() (string, error) {
	n, err := r.readCount()
	if err != nil {
		return "", err
	}
	buf, err := r.ReadBytes(2 * n)
	if err != nil {
		return "", err
	}
	return DecodeUTF16(buf)
}

// ReadBlob reads an int32 byte count followed by that many raw bytes.
func (r *Reader) ReadBlob() ([]byte, error) {
	n, err := r.readCount()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	return r.ReadBytes(n)
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
