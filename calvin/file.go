package calvin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

// File represents an open Calvin file.
type File struct {
	path   string
	file   *os.File
	size   int64
	reader *binary.Reader
	header *FileHeader
	log    *zap.SugaredLogger
	closed bool
}

// Open opens a Calvin file for reading. All header blocks are parsed and
// every table's data span is checked against the file size; row data is
// read lazily through Table.
func Open(path string, opts ...Option) (*File, error) {
	o := applyOptions(opts)

	osFile, err := openOS(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	hdr, size, err := parseFile(osFile)
	if err != nil {
		osFile.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	o.log.Debugw("opened calvin file",
		"path", path,
		"type", hdr.Meta.FileTypeID,
		"groups", len(hdr.groups),
		"tables", hdr.TableCount(),
	)
	return &File{
		path:   path,
		file:   osFile,
		size:   size,
		reader: binary.NewReader(osFile, binary.DefaultConfig()),
		header: hdr,
		log:    o.log,
	}, nil
}

// OpenAs opens a file and checks its file type identifier.
func OpenAs(path, typeID string, opts ...Option) (*File, error) {
	f, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if got := f.header.Meta.FileTypeID; got != typeID {
		f.Close()
		return nil, fmt.Errorf("opening %s: %w: got %q, want %q", path, ErrInvalidFileType, got, typeID)
	}
	return f, nil
}

func openOS(path string, flag int) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

func parseFile(f *os.File) (*FileHeader, int64, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat: %w", err)
	}
	hdr, err := readHeaders(f, st.Size())
	if err != nil {
		return nil, 0, err
	}
	return hdr, st.Size(), nil
}

// Close closes the file. Tables opened from it stop working.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Size returns the file size in bytes at open time.
func (f *File) Size() int64 { return f.size }

// Header returns the parsed header model. It is committed and read only.
func (f *File) Header() *FileHeader { return f.header }

// FileTypeID returns the file type identifier from the generic data header.
func (f *File) FileTypeID() string { return f.header.Meta.FileTypeID }

// Groups returns the groups in file order.
func (f *File) Groups() []*GroupHeader { return f.header.Groups() }

// Group returns the group called name.
func (f *File) Group(name string) (*GroupHeader, error) {
	g, ok := f.header.Group(name)
	if !ok {
		return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return g, nil
}

// OpenTable opens a table for row access.
func (f *File) OpenTable(group, table string) (*Table, error) {
	if f.closed {
		return nil, ErrClosed
	}
	th, err := f.header.Table(group, table)
	if err != nil {
		return nil, err
	}
	s, err := newSchema(th)
	if err != nil {
		return nil, err
	}
	return &Table{file: f, schema: s}, nil
}

// OpenTablePath opens a table by its "group/table" path.
func (f *File) OpenTablePath(path string) (*Table, error) {
	parts := SplitPath(path)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q is not a group/table path", ErrInvalidPath, path)
	}
	return f.OpenTable(parts[0], parts[1])
}
