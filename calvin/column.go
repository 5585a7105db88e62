package calvin

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
)

// ColumnKind is the on-disk type byte of a column.
type ColumnKind = dtype.Kind

// Column kinds, in on-disk order.
const (
	KindInt8    = dtype.Int8
	KindUInt8   = dtype.UInt8
	KindInt16   = dtype.Int16
	KindUInt16  = dtype.UInt16
	KindInt32   = dtype.Int32
	KindUInt32  = dtype.UInt32
	KindFloat32 = dtype.Float32
	KindASCII   = dtype.ASCII
	KindUTF16   = dtype.UTF16
)

// ColumnType is a column kind plus its element count. The count is 1 for
// numeric kinds and the capacity in characters for string kinds.
type ColumnType struct {
	kind  ColumnKind
	count int
}

// Kind returns the column kind.
func (t ColumnType) Kind() ColumnKind { return t.kind }

// ElementSize returns the size of one element in bytes.
func (t ColumnType) ElementSize() int { return t.kind.ElementSize() }

// ElementCount returns the number of elements a cell holds.
func (t ColumnType) ElementCount() int { return t.count }

// Overhead returns the length prefix size of a cell.
func (t ColumnType) Overhead() int { return t.kind.Overhead() }

// ByteSize returns the total on-disk size of one cell.
func (t ColumnType) ByteSize() int { return dtype.ByteSize(t.kind, t.count) }

func (t ColumnType) String() string {
	if t.kind.IsString() {
		return fmt.Sprintf("%s(%d)", t.kind, t.count)
	}
	return t.kind.String()
}

// BytesFor returns the on-disk size of a cell of kind holding count elements.
func BytesFor(kind ColumnKind, count int) int {
	return dtype.ByteSize(kind, count)
}

// ColumnTypeFromSize rebuilds a column type from its stored total size.
func ColumnTypeFromSize(kind ColumnKind, totalSize int) (ColumnType, error) {
	if totalSize < 0 {
		return ColumnType{}, fmt.Errorf("%w: negative column size %d", ErrSchemaMismatch, totalSize)
	}
	count, err := dtype.CountFromSize(kind, totalSize)
	if err != nil {
		return ColumnType{}, err
	}
	if kind.IsNumeric() && count != 1 {
		return ColumnType{}, fmt.Errorf("%w: %s column of %d bytes", ErrSchemaMismatch, kind, totalSize)
	}
	return ColumnType{kind: kind, count: count}, nil
}

func Int8Column() ColumnType    { return ColumnType{kind: KindInt8, count: 1} }
func UInt8Column() ColumnType   { return ColumnType{kind: KindUInt8, count: 1} }
func Int16Column() ColumnType   { return ColumnType{kind: KindInt16, count: 1} }
func UInt16Column() ColumnType  { return ColumnType{kind: KindUInt16, count: 1} }
func Int32Column() ColumnType   { return ColumnType{kind: KindInt32, count: 1} }
func UInt32Column() ColumnType  { return ColumnType{kind: KindUInt32, count: 1} }
func Float32Column() ColumnType { return ColumnType{kind: KindFloat32, count: 1} }

// ASCIIColumn returns a single-byte string column holding up to maxLen bytes.
func ASCIIColumn(maxLen int) ColumnType {
	return ColumnType{kind: KindASCII, count: max(maxLen, 0)}
}

// TextColumn returns a UTF-16 string column holding up to maxLen code units.
func TextColumn(maxLen int) ColumnType {
	return ColumnType{kind: KindUTF16, count: max(maxLen, 0)}
}

// Column is a named column descriptor.
type Column struct {
	Name string
	Type ColumnType
}
