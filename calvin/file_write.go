package calvin

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/alloc"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/message"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/preamble"
)

// Writer streams rows into a file whose headers have already been written.
type Writer struct {
	path   string
	file   *os.File
	header *FileHeader
	alloc  *alloc.Allocator
	log    *zap.SugaredLogger

	tables    []*RowWriter
	finalized bool
	closed    bool
}

// Create creates the file at path and commits hdr to it. Every header block
// is written with its final offsets and the row area of every table is
// reserved, so rows can then be streamed with Writer.Table in any order.
//
// Missing FileID, CreationTime and Locale values are filled in on hdr.Meta.
func Create(path string, hdr *FileHeader, opts ...Option) (*Writer, error) {
	o := applyOptions(opts)
	if hdr == nil || hdr.Meta == nil {
		return nil, fmt.Errorf("creating %s: missing file header", path)
	}
	if hdr.committed {
		return nil, fmt.Errorf("creating %s: %w", path, ErrCommitted)
	}
	fillDefaults(hdr.Meta, o)

	plan, err := planLayout(hdr)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	osFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	fail := func(err error) (*Writer, error) {
		osFile.Close()
		os.Remove(path)
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	for _, blk := range plan.blocks {
		if _, err := osFile.WriteAt(blk.data, blk.addr); err != nil {
			return fail(fmt.Errorf("writing %s: %w", blk.tag, err))
		}
	}
	if err := osFile.Truncate(int64(plan.alloc.EOFAddr())); err != nil {
		return fail(fmt.Errorf("reserving row data: %w", err))
	}

	w := &Writer{
		path:   path,
		file:   osFile,
		header: hdr,
		alloc:  plan.alloc,
		log:    o.log,
	}
	plan.commit()
	hdr.committed = true
	for _, g := range hdr.groups {
		g.committed = true
		for _, t := range g.tables {
			s, err := newSchema(t)
			if err != nil {
				return fail(err)
			}
			w.tables = append(w.tables, &RowWriter{w: w, group: g.Name, schema: s})
			o.log.Debugw("committed table header",
				"group", g.Name,
				"table", t.Name,
				"rows", t.rowCount,
				"header_start", t.headerStart,
				"data_start", t.dataStart,
				"next_table", t.nextTable,
			)
		}
	}

	stats := plan.alloc.Stats()
	o.log.Debugw("created calvin file",
		"path", path,
		"type", hdr.Meta.FileTypeID,
		"groups", len(hdr.groups),
		"header_bytes", stats.HeaderBytes,
		"data_bytes", stats.DataBytes,
	)
	return w, nil
}

func fillDefaults(m *GenericDataHeader, o *options) {
	if m.FileID == "" {
		if o.fileID != nil {
			m.FileID = o.fileID()
		} else {
			m.FileID = uuid.NewString()
		}
	}
	if m.CreationTime == "" {
		if o.now != nil {
			m.CreationTime = o.now()
		} else {
			m.CreationTime = time.Now().UTC().Format(TimeFormat)
		}
	}
	if m.Locale == "" {
		m.Locale = DefaultLocale
	}
}

type block struct {
	addr int64
	tag  string
	data []byte
}

type layoutPlan struct {
	alloc  *alloc.Allocator
	blocks []block
	commit func()
}

// planLayout assigns every block an offset in depth-first order: preamble,
// generic data header, then each group block followed by its tables, each
// table header directly followed by its row data. The returned commit
// function records the offsets on the table headers.
func planLayout(hdr *FileHeader) (*layoutPlan, error) {
	a := alloc.New(0)
	a.Alloc(preamble.Size, alloc.Header, "preamble")

	dh := hdr.Meta.toWire()
	dhAddr := a.Alloc(uint64(dh.Size()), alloc.Header, "generic data header")

	type tablePlan struct {
		th   *TableHeader
		tb   message.TableBlock
		addr uint64
	}
	type groupPlan struct {
		gb     message.GroupBlock
		addr   uint64
		tables []tablePlan
	}

	groups := make([]groupPlan, len(hdr.groups))
	for i, g := range hdr.groups {
		gp := groupPlan{gb: message.GroupBlock{Name: g.Name, TableCount: int32(len(g.tables))}}
		gp.addr = a.Alloc(uint64(gp.gb.Size()), alloc.Header, g.Name)
		for _, t := range g.tables {
			tag := JoinTablePath(g.Name, t.Name)
			tb := t.toWire()
			addr := a.Alloc(uint64(tb.Size()), alloc.Header, tag)
			data := a.Alloc(uint64(t.DataSize()), alloc.Data, tag)
			tb.DataPos = uint32(data)
			tb.NextTablePos = uint32(data + uint64(t.DataSize()))
			gp.tables = append(gp.tables, tablePlan{th: t, tb: tb, addr: addr})
		}
		gp.gb.NextGroupPos = uint32(a.EOFAddr())
		gp.gb.FirstTablePos = uint32(a.EOFAddr())
		if len(gp.tables) > 0 {
			gp.gb.FirstTablePos = uint32(gp.tables[0].addr)
		}
		groups[i] = gp
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	firstGroup := uint32(a.EOFAddr())
	if len(groups) > 0 {
		firstGroup = uint32(groups[0].addr)
	}

	plan := &layoutPlan{alloc: a}
	add := func(addr uint64, tag string, write func(w *binary.Writer) error) error {
		var buf binary.Buffer
		if err := write(binary.NewWriter(&buf, binary.DefaultConfig())); err != nil {
			return fmt.Errorf("encoding %s: %w", tag, err)
		}
		plan.blocks = append(plan.blocks, block{addr: int64(addr), tag: tag, data: buf.Bytes()})
		return nil
	}

	pre := preamble.New(uint32(len(groups)), firstGroup)
	if err := add(0, "preamble", pre.Write); err != nil {
		return nil, err
	}
	if err := add(dhAddr, "generic data header", dh.Write); err != nil {
		return nil, err
	}
	for _, gp := range groups {
		if err := add(gp.addr, gp.gb.Name, gp.gb.Write); err != nil {
			return nil, err
		}
		for _, tp := range gp.tables {
			if err := add(tp.addr, tp.tb.Name, tp.tb.Write); err != nil {
				return nil, err
			}
		}
	}

	plan.commit = func() {
		for _, gp := range groups {
			for _, tp := range gp.tables {
				tp.th.commit(int64(tp.addr), int64(tp.tb.DataPos), int64(tp.tb.NextTablePos))
			}
		}
	}
	return plan, nil
}

// Header returns the committed header.
func (w *Writer) Header() *FileHeader { return w.header }

// Path returns the file path.
func (w *Writer) Path() string { return w.path }

// Allocations returns the block layout chosen at creation.
func (w *Writer) Allocations() []alloc.Allocation { return w.alloc.Allocations() }

// Table returns the row writer of a table.
func (w *Writer) Table(group, table string) (*RowWriter, error) {
	if w.closed {
		return nil, ErrClosed
	}
	for _, rw := range w.tables {
		if rw.group == group && rw.schema.header.Name == table {
			return rw, nil
		}
	}
	return nil, fmt.Errorf("table %q in group %q: %w", table, group, ErrNotFound)
}

// Finalize checks that every table received exactly its declared number of
// rows and syncs the file.
func (w *Writer) Finalize() error {
	if w.closed {
		return ErrClosed
	}
	var errs []error
	for _, rw := range w.tables {
		if rw.next != rw.schema.header.rowCount {
			errs = append(errs, fmt.Errorf("%w: table %s wrote %d of %d rows",
				ErrRowCount, JoinTablePath(rw.group, rw.schema.header.Name), rw.next, rw.schema.header.rowCount))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", w.path, err)
	}
	w.finalized = true
	return nil
}

// Close closes the file. It returns ErrNotFinalized if Finalize has not
// succeeded; the file is still closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.file.Close()
	if !w.finalized {
		return errors.Join(ErrNotFinalized, err)
	}
	return err
}
