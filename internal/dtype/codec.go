package dtype

import (
	"encoding/binary"
	"fmt"
	"math"

	binpkg "github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

var be = binary.BigEndian

// Codec encodes and decodes the cells of one column kind.
type Codec interface {
	Kind() Kind
	// Encode writes v into dst. dst must be exactly ByteSize(kind, count)
	// long; count is the declared element count (1 for scalars).
	Encode(dst []byte, count int, v any) error
	// Decode reads one cell from src, which holds a whole cell.
	Decode(src []byte) (any, error)
	// Zero returns the zero value a fresh cell decodes to.
	Zero() any
}

var codecs = [...]Codec{
	Int8:    int8Codec{},
	UInt8:   uint8Codec{},
	Int16:   int16Codec{},
	UInt16:  uint16Codec{},
	Int32:   int32Codec{},
	UInt32:  uint32Codec{},
	Float32: float32Codec{},
	ASCII:   asciiCodec{},
	UTF16:   utf16Codec{},
}

// Lookup returns the codec for k.
func Lookup(k Kind) (Codec, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown column kind %d", ErrMismatch, int8(k))
	}
	return codecs[k], nil
}

func short(k Kind, n int) error {
	return fmt.Errorf("%w: %d bytes is too short for a %s cell", ErrMismatch, n, k)
}

type int8Codec struct{}

func (int8Codec) Kind() Kind { return Int8 }
func (int8Codec) Zero() any  { return int8(0) }

func (int8Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(int8)
	if !ok {
		return mismatch(Int8, v)
	}
	dst[0] = byte(x)
	return nil
}

func (int8Codec) Decode(src []byte) (any, error) {
	if len(src) < 1 {
		return nil, short(Int8, len(src))
	}
	return int8(src[0]), nil
}

type uint8Codec struct{}

func (uint8Codec) Kind() Kind { return UInt8 }
func (uint8Codec) Zero() any  { return uint8(0) }

func (uint8Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(uint8)
	if !ok {
		return mismatch(UInt8, v)
	}
	dst[0] = x
	return nil
}

func (uint8Codec) Decode(src []byte) (any, error) {
	if len(src) < 1 {
		return nil, short(UInt8, len(src))
	}
	return src[0], nil
}

type int16Codec struct{}

func (int16Codec) Kind() Kind { return Int16 }
func (int16Codec) Zero() any  { return int16(0) }

func (int16Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(int16)
	if !ok {
		return mismatch(Int16, v)
	}
	be.PutUint16(dst, uint16(x))
	return nil
}

func (int16Codec) Decode(src []byte) (any, error) {
	if len(src) < 2 {
		return nil, short(Int16, len(src))
	}
	return int16(be.Uint16(src)), nil
}

type uint16Codec struct{}

func (uint16Codec) Kind() Kind { return UInt16 }
func (uint16Codec) Zero() any  { return uint16(0) }

func (uint16Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(uint16)
	if !ok {
		return mismatch(UInt16, v)
	}
	be.PutUint16(dst, x)
	return nil
}

func (uint16Codec) Decode(src []byte) (any, error) {
	if len(src) < 2 {
		return nil, short(UInt16, len(src))
	}
	return be.Uint16(src), nil
}

type int32Codec struct{}

func (int32Codec) Kind() Kind { return Int32 }
func (int32Codec) Zero() any  { return int32(0) }

func (int32Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(int32)
	if !ok {
		return mismatch(Int32, v)
	}
	be.PutUint32(dst, uint32(x))
	return nil
}

func (int32Codec) Decode(src []byte) (any, error) {
	if len(src) < 4 {
		return nil, short(Int32, len(src))
	}
	return int32(be.Uint32(src)), nil
}

type uint32Codec struct{}

func (uint32Codec) Kind() Kind { return UInt32 }
func (uint32Codec) Zero() any  { return uint32(0) }

func (uint32Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(uint32)
	if !ok {
		return mismatch(UInt32, v)
	}
	be.PutUint32(dst, x)
	return nil
}

func (uint32Codec) Decode(src []byte) (any, error) {
	if len(src) < 4 {
		return nil, short(UInt32, len(src))
	}
	return be.Uint32(src), nil
}

type float32Codec struct{}

func (float32Codec) Kind() Kind { return Float32 }
func (float32Codec) Zero() any  { return float32(0) }

func (float32Codec) Encode(dst []byte, _ int, v any) error {
	x, ok := v.(float32)
	if !ok {
		return mismatch(Float32, v)
	}
	be.PutUint32(dst, math.Float32bits(x))
	return nil
}

func (float32Codec) Decode(src []byte) (any, error) {
	if len(src) < 4 {
		return nil, short(Float32, len(src))
	}
	return math.Float32frombits(be.Uint32(src)), nil
}

// String cells: int32 actual length, then capacity units, zero padded.

type asciiCodec struct{}

func (asciiCodec) Kind() Kind { return ASCII }
func (asciiCodec) Zero() any  { return "" }

func (asciiCodec) Encode(dst []byte, count int, v any) error {
	s, ok := v.(string)
	if !ok {
		return mismatch(ASCII, v)
	}
	if len(s) > count {
		return fmt.Errorf("%w: %d bytes into capacity %d", ErrCapacity, len(s), count)
	}
	clear(dst)
	be.PutUint32(dst, uint32(len(s)))
	copy(dst[StringOverhead:], s)
	return nil
}

func (asciiCodec) Decode(src []byte) (any, error) {
	if len(src) < StringOverhead {
		return nil, short(ASCII, len(src))
	}
	body := src[StringOverhead:]
	n := clampCount(int32(be.Uint32(src)), len(body))
	return binpkg.TrimNUL(string(body[:n])), nil
}

type utf16Codec struct{}

func (utf16Codec) Kind() Kind { return UTF16 }
func (utf16Codec) Zero() any  { return "" }

func (utf16Codec) Encode(dst []byte, count int, v any) error {
	s, ok := v.(string)
	if !ok {
		return mismatch(UTF16, v)
	}
	units, err := binpkg.EncodeUTF16(s)
	if err != nil {
		return fmt.Errorf("encoding utf-16: %w", err)
	}
	n := len(units) / 2
	if n > count {
		return fmt.Errorf("%w: %d code units into capacity %d", ErrCapacity, n, count)
	}
	clear(dst)
	be.PutUint32(dst, uint32(n))
	copy(dst[StringOverhead:], units)
	return nil
}

func (utf16Codec) Decode(src []byte) (any, error) {
	if len(src) < StringOverhead {
		return nil, short(UTF16, len(src))
	}
	body := src[StringOverhead:]
	n := clampCount(int32(be.Uint32(src)), len(body)/2)
	s, err := binpkg.DecodeUTF16(body[:2*n])
	if err != nil {
		return nil, fmt.Errorf("decoding utf-16: %w", err)
	}
	return binpkg.TrimNUL(s), nil
}

// clampCount bounds a stored element count to the cell capacity.
func clampCount(n int32, capacity int) int {
	if n < 0 {
		return 0
	}
	if int(n) > capacity {
		return capacity
	}
	return int(n)
}
