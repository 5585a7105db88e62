package message

import (
	"errors"
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

// MaxParentDepth bounds the nesting of parent generic data headers.
const MaxParentDepth = 64

// MaxEntries bounds parameter, column, parent and table counts.
const MaxEntries = 1 << 20

// ErrBadCount is returned when a stored entry count is negative or too large.
var ErrBadCount = errors.New("invalid entry count")

// ErrParentDepth is returned when parent headers nest deeper than MaxParentDepth.
var ErrParentDepth = errors.New("maximum parent header depth exceeded")

// Param is a name/value/type triple as stored on disk.
type Param struct {
	Name     string
	Value    []byte
	MIMEType string
}

// Size returns the encoded size of p.
func (p Param) Size() int64 {
	return binary.String16Size(p.Name) + binary.BlobSize(p.Value) + binary.String16Size(p.MIMEType)
}

// Column is a column descriptor as stored on disk.
type Column struct {
	Name string
	Type int8
	Size int32
}

// EncodedSize returns the encoded size of the descriptor.
func (c Column) EncodedSize() int64 {
	return binary.String16Size(c.Name) + 1 + 4
}

func readCount(r *binary.Reader, what string) (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, fmt.Errorf("reading %s count: %w", what, err)
	}
	if n < 0 || n > MaxEntries {
		return 0, fmt.Errorf("%w: %d %s", ErrBadCount, n, what)
	}
	return int(n), nil
}

func readParams(r *binary.Reader) ([]Param, error) {
	n, err := readCount(r, "parameter")
	if err != nil {
		return nil, err
	}
	params := make([]Param, 0, n)
	for i := 0; i < n; i++ {
		var p Param
		if p.Name, err = r.ReadString16(); err != nil {
			return nil, fmt.Errorf("reading parameter %d name: %w", i, err)
		}
		if p.Value, err = r.ReadBlob(); err != nil {
			return nil, fmt.Errorf("reading parameter %q value: %w", p.Name, err)
		}
		if p.MIMEType, err = r.ReadString16(); err != nil {
			return nil, fmt.Errorf("reading parameter %q type: %w", p.Name, err)
		}
		params = append(params, p)
	}
	return params, nil
}

func writeParams(w *binary.Writer, params []Param) error {
	if err := w.WriteInt32(int32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := w.WriteString16(p.Name); err != nil {
			return err
		}
		if err := w.WriteBlob(p.Value); err != nil {
			return err
		}
		if err := w.WriteString16(p.MIMEType); err != nil {
			return err
		}
	}
	return nil
}

func paramsSize(params []Param) int64 {
	size := int64(4)
	for _, p := range params {
		size += p.Size()
	}
	return size
}
