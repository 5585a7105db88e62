package calvin

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/message"
)

// Header defaults applied by Create.
const (
	TimeFormat    = "2006-01-02T15:04:05Z"
	DefaultLocale = "en-US"
)

// TableHeader describes one table: its name, declared row count, columns and
// parameters. Once committed to a file it can no longer be changed, and its
// offsets become available.
type TableHeader struct {
	Name string

	rowCount int
	columns  []Column
	params   ParamList

	committed   bool
	headerStart int64
	dataStart   int64
	nextTable   int64
}

// NewTableHeader returns an uncommitted table header.
func NewTableHeader(name string, rows int) *TableHeader {
	return &TableHeader{Name: name, rowCount: max(rows, 0)}
}

// RowCount returns the declared number of rows.
func (h *TableHeader) RowCount() int { return h.rowCount }

// SetRowCount changes the declared number of rows.
func (h *TableHeader) SetRowCount(n int) error {
	if h.committed {
		return fmt.Errorf("table %q: %w", h.Name, ErrCommitted)
	}
	if n < 0 {
		return fmt.Errorf("table %q: %w: row count %d", h.Name, ErrOutOfRange, n)
	}
	h.rowCount = n
	return nil
}

// AddColumn appends a column.
func (h *TableHeader) AddColumn(name string, t ColumnType) error {
	if h.committed {
		return fmt.Errorf("table %q: adding column %q: %w", h.Name, name, ErrCommitted)
	}
	if !t.Kind().Valid() {
		return fmt.Errorf("%w: column %q has kind %d", ErrSchemaMismatch, name, int8(t.Kind()))
	}
	h.columns = append(h.columns, Column{Name: name, Type: t})
	return nil
}

// AddParam adds or replaces a table parameter.
func (h *TableHeader) AddParam(tv TaggedValue) error {
	if h.committed {
		return fmt.Errorf("table %q: adding parameter %q: %w", h.Name, tv.Name, ErrCommitted)
	}
	h.params.Add(tv)
	return nil
}

// FindParam returns the table parameter called name.
func (h *TableHeader) FindParam(name string) (TaggedValue, bool) {
	return h.params.Find(name)
}

// Params returns the table parameters in order.
func (h *TableHeader) Params() []TaggedValue { return h.params.All() }

// Columns returns a copy of the column descriptors.
func (h *TableHeader) Columns() []Column {
	return append([]Column(nil), h.columns...)
}

// ColumnCount returns the number of columns.
func (h *TableHeader) ColumnCount() int { return len(h.columns) }

// Column returns column i.
func (h *TableHeader) Column(i int) (Column, error) {
	if i < 0 || i >= len(h.columns) {
		return Column{}, fmt.Errorf("table %q: %w: column %d of %d", h.Name, ErrOutOfRange, i, len(h.columns))
	}
	return h.columns[i], nil
}

// ColumnIndex returns the index of the column called name, or -1.
func (h *TableHeader) ColumnIndex(name string) int {
	for i, c := range h.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// RowSize returns the size in bytes of one row.
func (h *TableHeader) RowSize() int64 {
	var n int64
	for _, c := range h.columns {
		n += int64(c.Type.ByteSize())
	}
	return n
}

// DataSize returns the size in bytes of all rows.
func (h *TableHeader) DataSize() int64 {
	return int64(h.rowCount) * h.RowSize()
}

// Committed reports whether the header has been written to or read from a file.
func (h *TableHeader) Committed() bool { return h.committed }

// HeaderStart returns the file offset of the table header block.
func (h *TableHeader) HeaderStart() int64 { return h.headerStart }

// DataStart returns the file offset of the first row.
func (h *TableHeader) DataStart() int64 { return h.dataStart }

// NextTable returns the file offset just past the row data.
func (h *TableHeader) NextTable() int64 { return h.nextTable }

func (h *TableHeader) commit(headerStart, dataStart, nextTable int64) {
	h.committed = true
	h.headerStart = headerStart
	h.dataStart = dataStart
	h.nextTable = nextTable
}

func (h *TableHeader) toWire() message.TableBlock {
	tb := message.TableBlock{
		Name:     h.Name,
		RowCount: int32(h.rowCount),
		Columns:  make([]message.Column, len(h.columns)),
	}
	for _, p := range h.params.items {
		tb.Params = append(tb.Params, p.toWire())
	}
	for i, c := range h.columns {
		tb.Columns[i] = message.Column{
			Name: c.Name,
			Type: int8(c.Type.Kind()),
			Size: int32(c.Type.ByteSize()),
		}
	}
	return tb
}

func tableFromWire(tb message.TableBlock, headerStart int64) (*TableHeader, error) {
	h := NewTableHeader(tb.Name, int(tb.RowCount))
	for _, p := range tb.Params {
		h.params.Add(paramFromWire(p))
	}
	for _, c := range tb.Columns {
		t, err := ColumnTypeFromSize(dtype.Kind(c.Type), int(c.Size))
		if err != nil {
			return nil, fmt.Errorf("table %q column %q: %w", tb.Name, c.Name, err)
		}
		h.columns = append(h.columns, Column{Name: c.Name, Type: t})
	}
	h.commit(headerStart, int64(tb.DataPos), int64(tb.NextTablePos))
	return h, nil
}

// GroupHeader is a named collection of tables.
type GroupHeader struct {
	Name string

	tables    []*TableHeader
	committed bool
}

// NewGroupHeader returns an empty uncommitted group.
func NewGroupHeader(name string) *GroupHeader {
	return &GroupHeader{Name: name}
}

// AddTable appends a new table declared with rows rows.
func (g *GroupHeader) AddTable(name string, rows int) (*TableHeader, error) {
	if g.committed {
		return nil, fmt.Errorf("group %q: adding table %q: %w", g.Name, name, ErrCommitted)
	}
	if _, ok := g.Table(name); ok {
		return nil, fmt.Errorf("group %q: table %q: %w", g.Name, name, ErrDuplicateName)
	}
	t := NewTableHeader(name, rows)
	g.tables = append(g.tables, t)
	return t, nil
}

// Table returns the table called name.
func (g *GroupHeader) Table(name string) (*TableHeader, bool) {
	for _, t := range g.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Tables returns the tables in file order.
func (g *GroupHeader) Tables() []*TableHeader {
	return append([]*TableHeader(nil), g.tables...)
}

// GenericDataHeader carries file identity, free-form parameters and the
// headers of the files this one was derived from.
type GenericDataHeader struct {
	FileTypeID   string
	FileID       string
	CreationTime string
	Locale       string
	Params       ParamList

	parents []*GenericDataHeader
}

// NewGenericDataHeader returns a header for files of type typeID.
func NewGenericDataHeader(typeID string) *GenericDataHeader {
	return &GenericDataHeader{FileTypeID: typeID}
}

// AddParent appends a parent header to the provenance chain.
func (h *GenericDataHeader) AddParent(p *GenericDataHeader) {
	h.parents = append(h.parents, p)
}

// Parents returns the direct parent headers.
func (h *GenericDataHeader) Parents() []*GenericDataHeader {
	return append([]*GenericDataHeader(nil), h.parents...)
}

// FindParent searches the provenance chain depth first for a header with
// the given file type identifier.
func (h *GenericDataHeader) FindParent(typeID string) (*GenericDataHeader, bool) {
	for _, p := range h.parents {
		if p.FileTypeID == typeID {
			return p, true
		}
		if found, ok := p.FindParent(typeID); ok {
			return found, true
		}
	}
	return nil, false
}

func (h *GenericDataHeader) toWire() message.DataHeader {
	dh := message.DataHeader{
		FileTypeID:   h.FileTypeID,
		FileID:       h.FileID,
		CreationTime: h.CreationTime,
		Locale:       h.Locale,
	}
	for _, p := range h.Params.items {
		dh.Params = append(dh.Params, p.toWire())
	}
	for _, p := range h.parents {
		dh.Parents = append(dh.Parents, p.toWire())
	}
	return dh
}

func dataHeaderFromWire(dh message.DataHeader) *GenericDataHeader {
	h := &GenericDataHeader{
		FileTypeID:   dh.FileTypeID,
		FileID:       dh.FileID,
		CreationTime: dh.CreationTime,
		Locale:       dh.Locale,
	}
	for _, p := range dh.Params {
		h.Params.Add(paramFromWire(p))
	}
	for _, p := range dh.Parents {
		h.parents = append(h.parents, dataHeaderFromWire(p))
	}
	return h
}

// FileHeader is the complete header model of a file: the generic data
// header plus the group and table layout.
type FileHeader struct {
	Meta *GenericDataHeader

	groups    []*GroupHeader
	committed bool
}

// NewFileHeader returns a header for a new file of type typeID.
func NewFileHeader(typeID string) *FileHeader {
	return &FileHeader{Meta: NewGenericDataHeader(typeID)}
}

// AddGroup appends a new group.
func (f *FileHeader) AddGroup(name string) (*GroupHeader, error) {
	if f.committed {
		return nil, fmt.Errorf("adding group %q: %w", name, ErrCommitted)
	}
	if _, ok := f.Group(name); ok {
		return nil, fmt.Errorf("group %q: %w", name, ErrDuplicateName)
	}
	g := NewGroupHeader(name)
	f.groups = append(f.groups, g)
	return g, nil
}

// Group returns the group called name.
func (f *FileHeader) Group(name string) (*GroupHeader, bool) {
	for _, g := range f.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Groups returns the groups in file order.
func (f *FileHeader) Groups() []*GroupHeader {
	return append([]*GroupHeader(nil), f.groups...)
}

// Table returns the table called table in group group.
func (f *FileHeader) Table(group, table string) (*TableHeader, error) {
	g, ok := f.Group(group)
	if !ok {
		return nil, fmt.Errorf("group %q: %w", group, ErrNotFound)
	}
	t, ok := g.Table(table)
	if !ok {
		return nil, fmt.Errorf("table %q in group %q: %w", table, group, ErrNotFound)
	}
	return t, nil
}

// Committed reports whether the header has been written to or read from a file.
func (f *FileHeader) Committed() bool { return f.committed }

// TableCount returns the total number of tables across groups.
func (f *FileHeader) TableCount() int {
	n := 0
	for _, g := range f.groups {
		n += len(g.tables)
	}
	return n
}
