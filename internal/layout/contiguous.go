package layout

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrTruncated    = errors.New("data span extends past end of file")
	ErrSpanMismatch = errors.New("data span does not end at next header")
	ErrRowRange     = errors.New("row index out of range")
	ErrColumnRange  = errors.New("column index out of range")
)

// Contiguous is the row layout of one table.
type Contiguous struct {
	dataStart int64
	rowCount  int64
	sizes     []int64
	prefix    []int64
	stride    int64
}

// NewContiguous builds a layout from the data start offset, the row count and
// the byte size of each column in declared order.
func NewContiguous(dataStart int64, rowCount int, columnSizes []int) *Contiguous {
	c := &Contiguous{
		dataStart: dataStart,
		rowCount:  int64(rowCount),
		sizes:     make([]int64, len(columnSizes)),
		prefix:    make([]int64, len(columnSizes)),
	}
	for i, s := range columnSizes {
		c.prefix[i] = c.stride
		c.sizes[i] = int64(s)
		c.stride += int64(s)
	}
	return c
}

// DataStart returns the offset of the first row.
func (c *Contiguous) DataStart() int64 { return c.dataStart }

// RowCount returns the declared number of rows.
func (c *Contiguous) RowCount() int { return int(c.rowCount) }

// ColumnCount returns the number of columns.
func (c *Contiguous) ColumnCount() int { return len(c.sizes) }

// Stride returns the size of one row.
func (c *Contiguous) Stride() int64 { return c.stride }

// DataSize returns rowCount * stride.
func (c *Contiguous) DataSize() int64 { return c.rowCount * c.stride }

// End returns the offset just past the last row.
func (c *Contiguous) End() int64 { return c.dataStart + c.DataSize() }

// ColumnSize returns the byte size of column col.
func (c *Contiguous) ColumnSize(col int) int64 { return c.sizes[col] }

// ColumnPrefix returns the offset of column col within a row.
func (c *Contiguous) ColumnPrefix(col int) int64 { return c.prefix[col] }

// RowOffset returns the file offset of row.
func (c *Contiguous) RowOffset(row int) (int64, error) {
	if row < 0 || int64(row) >= c.rowCount {
		return 0, fmt.Errorf("%w: row %d of %d", ErrRowRange, row, c.rowCount)
	}
	return c.dataStart + int64(row)*c.stride, nil
}

// CellOffset returns the file offset of cell (row, col).
func (c *Contiguous) CellOffset(row, col int) (int64, error) {
	if col < 0 || col >= len(c.sizes) {
		return 0, fmt.Errorf("%w: column %d of %d", ErrColumnRange, col, len(c.sizes))
	}
	off, err := c.RowOffset(row)
	if err != nil {
		return 0, err
	}
	return off + c.prefix[col], nil
}

// RowsOffset returns the offset of startRow and the byte length of n rows,
// checking the whole run lies inside the table.
func (c *Contiguous) RowsOffset(startRow, n int) (int64, int64, error) {
	if n < 0 || startRow < 0 || int64(startRow)+int64(n) > c.rowCount {
		return 0, 0, fmt.Errorf("%w: rows [%d, %d) of %d", ErrRowRange, startRow, startRow+n, c.rowCount)
	}
	return c.dataStart + int64(startRow)*c.stride, int64(n) * c.stride, nil
}

// Check validates the data span against the file size and the offset of
// the following header block.
func (c *Contiguous) Check(fileSize, nextHeader int64) error {
	if c.End() > fileSize {
		return fmt.Errorf("%w: span [%d, %d) but file is %d bytes", ErrTruncated, c.dataStart, c.End(), fileSize)
	}
	if nextHeader != c.End() {
		return fmt.Errorf("%w: span ends at %d, next header at %d", ErrSpanMismatch, c.End(), nextHeader)
	}
	return nil
}
