package calvin

import (
	"fmt"
)

// zeroChunk bounds the size of a single write made by FillZero.
const zeroChunk = 1 << 16

// RowWriter streams the rows of one table in order.
type RowWriter struct {
	w      *Writer
	group  string
	schema *schema
	next   int
	buf    []byte
}

// Header returns the table header.
func (rw *RowWriter) Header() *TableHeader { return rw.schema.header }

// Written returns the number of rows written so far.
func (rw *RowWriter) Written() int { return rw.next }

// Remaining returns the number of declared rows not yet written.
func (rw *RowWriter) Remaining() int { return rw.schema.header.rowCount - rw.next }

// WriteRow encodes one row, values in column order, and writes it at the
// current row. Values must have exactly the Go type of their column:
// int8, uint8, int16, uint16, int32, uint32, float32 or string.
func (rw *RowWriter) WriteRow(values ...any) error {
	return rw.WriteRows([][]any{values})
}

// WriteRows encodes several rows into one buffer and writes them with a
// single call.
func (rw *RowWriter) WriteRows(rows [][]any) error {
	if rw.w.closed {
		return ErrClosed
	}
	if len(rows) == 0 {
		return nil
	}
	off, size, err := rw.schema.rowsOffset(rw.next, len(rows))
	if err != nil {
		return err
	}
	if cap(rw.buf) < int(size) {
		rw.buf = make([]byte, size)
	}
	buf := rw.buf[:size]
	clear(buf)

	stride := rw.schema.rowSize()
	for i, values := range rows {
		if err := rw.schema.encodeRow(buf[i*stride:(i+1)*stride], values); err != nil {
			return fmt.Errorf("row %d: %w", rw.next+i, err)
		}
	}
	if _, err := rw.w.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("table %q: writing rows: %w", rw.schema.header.Name, err)
	}
	rw.next += len(rows)
	return nil
}

// FillZero writes zero bytes over every row not yet written and marks the
// table complete. Zero rows decode as zero numbers and empty strings, which
// lets a skeleton file be created and filled later with an Updater.
func (rw *RowWriter) FillZero() error {
	if rw.w.closed {
		return ErrClosed
	}
	remaining := rw.Remaining()
	if remaining == 0 {
		return nil
	}
	off, size, err := rw.schema.rowsOffset(rw.next, remaining)
	if err != nil {
		return err
	}
	zeros := make([]byte, min(size, zeroChunk))
	for size > 0 {
		n := min(size, int64(len(zeros)))
		if _, err := rw.w.file.WriteAt(zeros[:n], off); err != nil {
			return fmt.Errorf("table %q: zero filling: %w", rw.schema.header.Name, err)
		}
		off += n
		size -= n
	}
	rw.next = rw.schema.header.rowCount
	return nil
}
