package dtype

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind is the on-disk column type byte.
type Kind int8

// Column kinds, in on-disk order.
const (
	Int8 Kind = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Float32
	ASCII
	UTF16
)

// StringOverhead is the size of the element-count prefix of a string cell.
const StringOverhead = 4

var (
	// ErrMismatch is returned when a value or a requested type does not
	// match a column's declared kind.
	ErrMismatch = errors.New("schema mismatch")

	// ErrCapacity is returned when a string does not fit the column capacity.
	ErrCapacity = errors.New("string exceeds column capacity")
)

var kindNames = [...]string{
	Int8:    "int8",
	UInt8:   "uint8",
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	UInt32:  "uint32",
	Float32: "float32",
	ASCII:   "ascii",
	UTF16:   "utf16",
}

var elementSizes = [...]int{
	Int8:    1,
	UInt8:   1,
	Int16:   2,
	UInt16:  2,
	Int32:   4,
	UInt32:  4,
	Float32: 4,
	ASCII:   1,
	UTF16:   2,
}

var goTypes = [...]reflect.Type{
	Int8:    reflect.TypeOf(int8(0)),
	UInt8:   reflect.TypeOf(uint8(0)),
	Int16:   reflect.TypeOf(int16(0)),
	UInt16:  reflect.TypeOf(uint16(0)),
	Int32:   reflect.TypeOf(int32(0)),
	UInt32:  reflect.TypeOf(uint32(0)),
	Float32: reflect.TypeOf(float32(0)),
	ASCII:   reflect.TypeOf(""),
	UTF16:   reflect.TypeOf(""),
}

// Valid reports whether k is one of the nine known kinds.
func (k Kind) Valid() bool {
	return k >= Int8 && k <= UTF16
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int8(k))
	}
	return kindNames[k]
}

// ElementSize returns the size of one element in bytes, or 0 for an invalid kind.
func (k Kind) ElementSize() int {
	if !k.Valid() {
		return 0
	}
	return elementSizes[k]
}

// IsString reports whether k is a length-prefixed string kind.
func (k Kind) IsString() bool {
	return k == ASCII || k == UTF16
}

// IsNumeric reports whether k is an integer or float kind.
func (k Kind) IsNumeric() bool {
	return k.Valid() && !k.IsString()
}

// Overhead returns the per-cell prefix size.
func (k Kind) Overhead() int {
	if k.IsString() {
		return StringOverhead
	}
	return 0
}

// GoType returns the Go type a cell of kind k decodes to.
func GoType(k Kind) (reflect.Type, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown column kind %d", ErrMismatch, int8(k))
	}
	return goTypes[k], nil
}

// ByteSize returns the on-disk size of a cell holding count elements.
func ByteSize(k Kind, count int) int {
	return k.ElementSize()*count + k.Overhead()
}

// CountFromSize back-computes the element count from a total cell size.
func CountFromSize(k Kind, total int) (int, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: unknown column kind %d", ErrMismatch, int8(k))
	}
	payload := total - k.Overhead()
	if payload < 0 || payload%k.ElementSize() != 0 {
		return 0, fmt.Errorf("%w: size %d is not valid for %s", ErrMismatch, total, k)
	}
	return payload / k.ElementSize(), nil
}

func mismatch(k Kind, v any) error {
	return fmt.Errorf("%w: %s column cannot hold %T", ErrMismatch, k, v)
}
