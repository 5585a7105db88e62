package calvin

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
)

// Table provides random access to the rows of one table. Each access reads
// at its own offset, so a Table may be used from several goroutines.
type Table struct {
	file   *File
	schema *schema
	closed bool
}

// Header returns the table header.
func (t *Table) Header() *TableHeader { return t.schema.header }

// Name returns the table name.
func (t *Table) Name() string { return t.schema.header.Name }

// RowCount returns the declared number of rows.
func (t *Table) RowCount() int { return t.schema.header.rowCount }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.schema.header.columns) }

// Columns returns the column descriptors.
func (t *Table) Columns() []Column { return t.schema.header.Columns() }

// Close releases the table. The file stays open.
func (t *Table) Close() error {
	t.closed = true
	return nil
}

func (t *Table) check() error {
	if t.closed || t.file.closed {
		return ErrClosed
	}
	return nil
}

// Cell reads and decodes one cell.
func (t *Table) Cell(row, col int) (any, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	off, err := t.schema.cellOffset(row, col)
	if err != nil {
		return nil, err
	}
	buf, err := t.file.reader.At(off).ReadBytes(int(t.schema.layout.ColumnSize(col)))
	if err != nil {
		return nil, fmt.Errorf("table %q: reading cell (%d, %d): %w", t.Name(), row, col, err)
	}
	return t.schema.decodeCell(buf, col)
}

// Row reads and decodes a whole row with one read.
func (t *Table) Row(row int) ([]any, error) {
	rows, err := t.Rows(row, 1)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// Rows reads n consecutive rows starting at start with one read.
func (t *Table) Rows(start, n int) ([][]any, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	off, size, err := t.schema.rowsOffset(start, n)
	if err != nil {
		return nil, err
	}
	buf, err := t.file.reader.At(off).ReadBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("table %q: reading rows [%d, %d): %w", t.Name(), start, start+n, err)
	}
	stride := t.schema.rowSize()
	out := make([][]any, n)
	for i := range out {
		if out[i], err = t.schema.decodeRow(buf[i*stride : (i+1)*stride]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Table) typed(row, col int, kinds ...ColumnKind) (any, error) {
	c, err := t.schema.header.Column(col)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if c.Type.Kind() == k {
			return t.Cell(row, col)
		}
	}
	return nil, fmt.Errorf("%w: column %q is %s, not %s", ErrSchemaMismatch, c.Name, c.Type, kinds[0])
}

func (t *Table) Int8(row, col int) (int8, error) {
	v, err := t.typed(row, col, KindInt8)
	if err != nil {
		return 0, err
	}
	return v.(int8), nil
}

func (t *Table) UInt8(row, col int) (uint8, error) {
	v, err := t.typed(row, col, KindUInt8)
	if err != nil {
		return 0, err
	}
	return v.(uint8), nil
}

func (t *Table) Int16(row, col int) (int16, error) {
	v, err := t.typed(row, col, KindInt16)
	if err != nil {
		return 0, err
	}
	return v.(int16), nil
}

func (t *Table) UInt16(row, col int) (uint16, error) {
	v, err := t.typed(row, col, KindUInt16)
	if err != nil {
		return 0, err
	}
	return v.(uint16), nil
}

func (t *Table) Int32(row, col int) (int32, error) {
	v, err := t.typed(row, col, KindInt32)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

func (t *Table) UInt32(row, col int) (uint32, error) {
	v, err := t.typed(row, col, KindUInt32)
	if err != nil {
		return 0, err
	}
	return v.(uint32), nil
}

func (t *Table) Float32(row, col int) (float32, error) {
	v, err := t.typed(row, col, KindFloat32)
	if err != nil {
		return 0, err
	}
	return v.(float32), nil
}

// String reads an ASCII or UTF-16 cell.
func (t *Table) String(row, col int) (string, error) {
	v, err := t.typed(row, col, KindASCII, KindUTF16)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// columnChunkRows bounds the rows read per call by Float64Column.
const columnChunkRows = 4096

// Float64Column reads a numeric column in full, widened to float64.
func (t *Table) Float64Column(col int) ([]float64, error) {
	c, err := t.schema.header.Column(col)
	if err != nil {
		return nil, err
	}
	if !c.Type.Kind().IsNumeric() {
		return nil, fmt.Errorf("%w: column %q is %s, not numeric", ErrSchemaMismatch, c.Name, c.Type)
	}
	out := make([]float64, 0, t.RowCount())
	for start := 0; start < t.RowCount(); start += columnChunkRows {
		n := min(columnChunkRows, t.RowCount()-start)
		rows, err := t.Rows(start, n)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			f, err := dtype.ToFloat64(r[col])
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}
