package message

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

// GroupBlock is a data group header block.
type GroupBlock struct {
	NextGroupPos  uint32
	FirstTablePos uint32
	TableCount    int32
	Name          string
}

// ReadGroupBlock parses a group block at the reader's position.
func ReadGroupBlock(r *binary.Reader) (GroupBlock, error) {
	var g GroupBlock
	var err error
	if g.NextGroupPos, err = r.ReadUint32(); err != nil {
		return g, fmt.Errorf("reading next group offset: %w", err)
	}
	if g.FirstTablePos, err = r.ReadUint32(); err != nil {
		return g, fmt.Errorf("reading first table offset: %w", err)
	}
	n, err := readCount(r, "table")
	if err != nil {
		return g, err
	}
	g.TableCount = int32(n)
	if g.Name, err = r.ReadString16(); err != nil {
		return g, fmt.Errorf("reading group name: %w", err)
	}
	return g, nil
}

// Write serializes the group block.
func (g *GroupBlock) Write(w *binary.Writer) error {
	if err := w.WriteUint32(g.NextGroupPos); err != nil {
		return err
	}
	if err := w.WriteUint32(g.FirstTablePos); err != nil {
		return err
	}
	if err := w.WriteInt32(g.TableCount); err != nil {
		return err
	}
	return w.WriteString16(g.Name)
}

// Size returns the encoded size of the group block.
func (g *GroupBlock) Size() int64 {
	return 4 + 4 + 4 + binary.String16Size(g.Name)
}

// TableBlock is a table (data set) header block.
type TableBlock struct {
	DataPos      uint32
	NextTablePos uint32
	Name         string
	Params       []Param
	Columns      []Column
	RowCount     int32
}

// ReadTableBlock parses a table header block at the reader's position.
func ReadTableBlock(r *binary.Reader) (TableBlock, error) {
	var t TableBlock
	var err error
	if t.DataPos, err = r.ReadUint32(); err != nil {
		return t, fmt.Errorf("reading data offset: %w", err)
	}
	if t.NextTablePos, err = r.ReadUint32(); err != nil {
		return t, fmt.Errorf("reading next table offset: %w", err)
	}
	if t.Name, err = r.ReadString16(); err != nil {
		return t, fmt.Errorf("reading table name: %w", err)
	}
	if t.Params, err = readParams(r); err != nil {
		return t, fmt.Errorf("table %q: %w", t.Name, err)
	}

	n, err := readCount(r, "column")
	if err != nil {
		return t, fmt.Errorf("table %q: %w", t.Name, err)
	}
	t.Columns = make([]Column, 0, n)
	for i := 0; i < n; i++ {
		var c Column
		if c.Name, err = r.ReadString16(); err != nil {
			return t, fmt.Errorf("table %q: reading column %d name: %w", t.Name, i, err)
		}
		if c.Type, err = r.ReadInt8(); err != nil {
			return t, fmt.Errorf("table %q: reading column %q type: %w", t.Name, c.Name, err)
		}
		if c.Size, err = r.ReadInt32(); err != nil {
			return t, fmt.Errorf("table %q: reading column %q size: %w", t.Name, c.Name, err)
		}
		t.Columns = append(t.Columns, c)
	}

	if t.RowCount, err = r.ReadInt32(); err != nil {
		return t, fmt.Errorf("table %q: reading row count: %w", t.Name, err)
	}
	if t.RowCount < 0 {
		return t, fmt.Errorf("table %q: %w: %d rows", t.Name, ErrBadCount, t.RowCount)
	}
	return t, nil
}

// Write serializes the table header block. Row data is not written.
func (t *TableBlock) Write(w *binary.Writer) error {
	if err := w.WriteUint32(t.DataPos); err != nil {
		return err
	}
	if err := w.WriteUint32(t.NextTablePos); err != nil {
		return err
	}
	if err := w.WriteString16(t.Name); err != nil {
		return err
	}
	if err := writeParams(w, t.Params); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(t.Columns))); err != nil {
		return err
	}
	for _, c := range t.Columns {
		if err := w.WriteString16(c.Name); err != nil {
			return err
		}
		if err := w.WriteInt8(c.Type); err != nil {
			return err
		}
		if err := w.WriteInt32(c.Size); err != nil {
			return err
		}
	}
	return w.WriteInt32(t.RowCount)
}

// Size returns the encoded size of the header block, excluding row data.
func (t *TableBlock) Size() int64 {
	size := 4 + 4 + binary.String16Size(t.Name) + paramsSize(t.Params) + 4
	for _, c := range t.Columns {
		size += c.EncodedSize()
	}
	return size + 4
}

// RowSize returns the sum of the declared column sizes.
func (t *TableBlock) RowSize() int64 {
	var size int64
	for _, c := range t.Columns {
		size += int64(c.Size)
	}
	return size
}
