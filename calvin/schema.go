package calvin

import (
	"errors"
	"fmt"
	"io"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/layout"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/message"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/preamble"
)

// schema binds a committed table header to its row layout and codecs. The
// read, write and update paths all go through it, so a cell is located and
// encoded the same way everywhere.
type schema struct {
	header *TableHeader
	layout *layout.Contiguous
	codecs []dtype.Codec
}

func newSchema(h *TableHeader) (*schema, error) {
	sizes := make([]int, len(h.columns))
	codecs := make([]dtype.Codec, len(h.columns))
	for i, c := range h.columns {
		codec, err := dtype.Lookup(c.Type.Kind())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		sizes[i] = c.Type.ByteSize()
		codecs[i] = codec
	}
	return &schema{
		header: h,
		layout: layout.NewContiguous(h.dataStart, h.rowCount, sizes),
		codecs: codecs,
	}, nil
}

func (s *schema) rowSize() int { return int(s.layout.Stride()) }

func (s *schema) cellOffset(row, col int) (int64, error) {
	off, err := s.layout.CellOffset(row, col)
	if err != nil {
		return 0, fmt.Errorf("table %q: %w: %w", s.header.Name, ErrOutOfRange, err)
	}
	return off, nil
}

func (s *schema) rowsOffset(start, n int) (int64, int64, error) {
	off, size, err := s.layout.RowsOffset(start, n)
	if err != nil {
		return 0, 0, fmt.Errorf("table %q: %w: %w", s.header.Name, ErrOutOfRange, err)
	}
	return off, size, nil
}

func (s *schema) encodeCell(dst []byte, col int, v any) error {
	c := s.header.columns[col]
	if err := s.codecs[col].Encode(dst, c.Type.ElementCount(), v); err != nil {
		return fmt.Errorf("table %q column %q: %w", s.header.Name, c.Name, err)
	}
	return nil
}

// encodeRow encodes values into dst, which must be one row long.
func (s *schema) encodeRow(dst []byte, values []any) error {
	if len(values) != len(s.codecs) {
		return fmt.Errorf("table %q: %w: %d values for %d columns", s.header.Name, ErrSchemaMismatch, len(values), len(s.codecs))
	}
	for col, v := range values {
		start := s.layout.ColumnPrefix(col)
		if err := s.encodeCell(dst[start:start+s.layout.ColumnSize(col)], col, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *schema) decodeCell(src []byte, col int) (any, error) {
	v, err := s.codecs[col].Decode(src)
	if err != nil {
		return nil, fmt.Errorf("table %q column %q: %w", s.header.Name, s.header.columns[col].Name, err)
	}
	return v, nil
}

// decodeRow decodes one row held in src.
func (s *schema) decodeRow(src []byte) ([]any, error) {
	row := make([]any, len(s.codecs))
	for col := range s.codecs {
		start := s.layout.ColumnPrefix(col)
		v, err := s.decodeCell(src[start:start+s.layout.ColumnSize(col)], col)
		if err != nil {
			return nil, err
		}
		row[col] = v
	}
	return row, nil
}

// readHeaders parses the preamble, the generic data header and every group
// and table header block, then checks each table's data span. Row data is
// never read.
func readHeaders(r io.ReaderAt, fileSize int64) (*FileHeader, error) {
	pre, err := preamble.Read(r)
	if err != nil {
		return nil, classifyHeaderError(err)
	}

	br := binary.NewReader(r, binary.DefaultConfig())
	dh, err := message.ReadDataHeader(br.At(preamble.Size))
	if err != nil {
		return nil, classifyHeaderError(fmt.Errorf("reading generic data header: %w", err))
	}
	hdr := &FileHeader{Meta: dataHeaderFromWire(dh)}

	if pre.GroupCount > message.MaxEntries {
		return nil, fmt.Errorf("%w: %d groups", ErrCorruptHeader, pre.GroupCount)
	}
	pos := int64(pre.FirstGroupPos)
	for i := 0; i < int(pre.GroupCount); i++ {
		gb, err := message.ReadGroupBlock(br.At(pos))
		if err != nil {
			return nil, classifyHeaderError(fmt.Errorf("reading group %d at 0x%x: %w", i, pos, err))
		}
		g := NewGroupHeader(gb.Name)

		tpos := int64(gb.FirstTablePos)
		for j := 0; j < int(gb.TableCount); j++ {
			tb, err := message.ReadTableBlock(br.At(tpos))
			if err != nil {
				return nil, classifyHeaderError(fmt.Errorf("group %q: reading table %d at 0x%x: %w", gb.Name, j, tpos, err))
			}
			th, err := tableFromWire(tb, tpos)
			if err != nil {
				return nil, fmt.Errorf("%w: group %q: %w", ErrCorruptHeader, gb.Name, err)
			}
			if end := tpos + tb.Size(); th.dataStart < end {
				return nil, fmt.Errorf("%w: group %q table %q: data at 0x%x overlaps its header ending at 0x%x",
					ErrCorruptHeader, gb.Name, th.Name, th.dataStart, end)
			}
			s, err := newSchema(th)
			if err != nil {
				return nil, fmt.Errorf("%w: group %q: %w", ErrCorruptHeader, gb.Name, err)
			}
			if err := s.layout.Check(fileSize, th.nextTable); err != nil {
				return nil, classifyHeaderError(fmt.Errorf("group %q table %q: %w", gb.Name, th.Name, err))
			}
			g.tables = append(g.tables, th)
			tpos = th.nextTable
		}
		g.committed = true
		hdr.groups = append(hdr.groups, g)
		pos = int64(gb.NextGroupPos)
	}
	hdr.committed = true
	return hdr, nil
}

func classifyHeaderError(err error) error {
	switch {
	case errors.Is(err, preamble.ErrBadMagic), errors.Is(err, preamble.ErrUnsupportedVersion):
		return fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF), errors.Is(err, layout.ErrTruncated):
		return fmt.Errorf("%w: %w", ErrTruncatedFile, err)
	default:
		return fmt.Errorf("%w: %w", ErrCorruptHeader, err)
	}
}
