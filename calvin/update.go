package calvin

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Updater overwrites cells of an existing file in place. Headers are parsed
// exactly as Open does and are never rewritten: row counts, columns and
// offsets stay fixed, and only the bytes of the addressed cells change.
type Updater struct {
	path    string
	file    *os.File
	header  *FileHeader
	schemas map[string]*schema
	log     *zap.SugaredLogger
	closed  bool
}

// OpenUpdate opens an existing file for in-place updates.
func OpenUpdate(path string, opts ...Option) (*Updater, error) {
	o := applyOptions(opts)

	osFile, err := openOS(path, os.O_RDWR)
	if err != nil {
		return nil, err
	}
	hdr, _, err := parseFile(osFile)
	if err != nil {
		osFile.Close()
		return nil, fmt.Errorf("opening %s for update: %w", path, err)
	}
	o.log.Debugw("opened calvin file for update", "path", path, "tables", hdr.TableCount())
	return &Updater{
		path:    path,
		file:    osFile,
		header:  hdr,
		schemas: make(map[string]*schema),
		log:     o.log,
	}, nil
}

// Header returns the parsed header model.
func (u *Updater) Header() *FileHeader { return u.header }

// Path returns the file path.
func (u *Updater) Path() string { return u.path }

func (u *Updater) schema(group, table string) (*schema, error) {
	if u.closed {
		return nil, ErrClosed
	}
	key := JoinTablePath(group, table)
	if s, ok := u.schemas[key]; ok {
		return s, nil
	}
	th, err := u.header.Table(group, table)
	if err != nil {
		return nil, err
	}
	s, err := newSchema(th)
	if err != nil {
		return nil, err
	}
	u.schemas[key] = s
	return s, nil
}

// Update overwrites one cell.
func (u *Updater) Update(group, table string, row, col int, value any) error {
	s, err := u.schema(group, table)
	if err != nil {
		return err
	}
	off, err := s.cellOffset(row, col)
	if err != nil {
		return err
	}
	buf := make([]byte, s.layout.ColumnSize(col))
	if err := s.encodeCell(buf, col, value); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if _, err := u.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("table %q: updating cell (%d, %d): %w", table, row, col, err)
	}
	u.log.Debugw("updated cell", "table", table, "row", row, "col", col, "offset", off)
	return nil
}

// UpdateRows overwrites consecutive whole rows starting at startRow with a
// single write.
func (u *Updater) UpdateRows(group, table string, startRow int, rows [][]any) error {
	s, err := u.schema(group, table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	off, size, err := s.rowsOffset(startRow, len(rows))
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	stride := s.rowSize()
	for i, values := range rows {
		if err := s.encodeRow(buf[i*stride:(i+1)*stride], values); err != nil {
			return fmt.Errorf("row %d: %w", startRow+i, err)
		}
	}
	if _, err := u.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("table %q: updating rows: %w", table, err)
	}
	u.log.Debugw("updated rows", "table", table, "start", startRow, "rows", len(rows), "bytes", size)
	return nil
}

// UpdateColumn overwrites column col for the rows starting at startRow.
func (u *Updater) UpdateColumn(group, table string, col, startRow int, values []any) error {
	s, err := u.schema(group, table)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	if _, _, err := s.rowsOffset(startRow, len(values)); err != nil {
		return err
	}
	if _, err := s.cellOffset(startRow, col); err != nil {
		return err
	}
	buf := make([]byte, s.layout.ColumnSize(col))
	for i, v := range values {
		off, _ := s.cellOffset(startRow+i, col)
		if err := s.encodeCell(buf, col, v); err != nil {
			return fmt.Errorf("row %d: %w", startRow+i, err)
		}
		if _, err := u.file.WriteAt(buf, off); err != nil {
			return fmt.Errorf("table %q: updating column %d: %w", table, col, err)
		}
	}
	u.log.Debugw("updated column", "table", table, "col", col, "start", startRow, "rows", len(values))
	return nil
}

// Close syncs and closes the file.
func (u *Updater) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return errors.Join(u.file.Sync(), u.file.Close())
}
