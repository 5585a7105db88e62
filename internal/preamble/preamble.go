package preamble

import (
	"errors"
	"fmt"
	"io"

	binpkg "github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

const (
	// Magic is the first byte of every Calvin file.
	Magic uint8 = 59
	// Version is the only supported format version.
	Version uint8 = 1
	// Size is the encoded size of the preamble.
	Size = 10
)

// Errors
var (
	ErrBadMagic           = errors.New("not a Calvin file: bad magic number")
	ErrUnsupportedVersion = errors.New("unsupported Calvin file version")
)

// Preamble holds the fixed fields at the start of a Calvin file.
type Preamble struct {
	Magic         uint8
	Version       uint8
	GroupCount    uint32
	FirstGroupPos uint32
}

// New returns a preamble with the current magic and version.
func New(groupCount, firstGroupPos uint32) *Preamble {
	return &Preamble{
		Magic:         Magic,
		Version:       Version,
		GroupCount:    groupCount,
		FirstGroupPos: firstGroupPos,
	}
}

// Read parses and validates the preamble at offset 0.
func Read(r io.ReaderAt) (*Preamble, error) {
	br := binpkg.NewReader(r, binpkg.DefaultConfig())

	magic, err := br.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: got %d", ErrBadMagic, magic)
	}

	version, err := br.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	groups, err := br.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading group count: %w", err)
	}
	first, err := br.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading first group offset: %w", err)
	}

	return &Preamble{
		Magic:         magic,
		Version:       version,
		GroupCount:    groups,
		FirstGroupPos: first,
	}, nil
}

// Write writes the preamble at the writer's current position.
func (p *Preamble) Write(w *binpkg.Writer) error {
	if err := w.WriteUint8(p.Magic); err != nil {
		return err
	}
	if err := w.WriteUint8(p.Version); err != nil {
		return err
	}
	if err := w.WriteUint32(p.GroupCount); err != nil {
		return err
	}
	return w.WriteUint32(p.FirstGroupPos)
}
