package message

import (
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/binary"
)

// DataHeader is the generic data header: file identity, free-form
// parameters and the provenance chain of parent headers.
type DataHeader struct {
	FileTypeID   string
	FileID       string
	CreationTime string
	Locale       string
	Params       []Param
	Parents      []DataHeader
}

// ReadDataHeader parses a generic data header and its parents.
func ReadDataHeader(r *binary.Reader) (DataHeader, error) {
	return readDataHeader(r, 0)
}

func readDataHeader(r *binary.Reader, depth int) (DataHeader, error) {
	var h DataHeader
	if depth > MaxParentDepth {
		return h, ErrParentDepth
	}

	var err error
	if h.FileTypeID, err = r.ReadString8(); err != nil {
		return h, fmt.Errorf("reading file type id: %w", err)
	}
	if h.FileID, err = r.ReadString8(); err != nil {
		return h, fmt.Errorf("reading file id: %w", err)
	}
	if h.CreationTime, err = r.ReadString16(); err != nil {
		return h, fmt.Errorf("reading creation time: %w", err)
	}
	if h.Locale, err = r.ReadString16(); err != nil {
		return h, fmt.Errorf("reading locale: %w", err)
	}
	if h.Params, err = readParams(r); err != nil {
		return h, err
	}

	n, err := readCount(r, "parent header")
	if err != nil {
		return h, err
	}
	for i := 0; i < n; i++ {
		parent, err := readDataHeader(r, depth+1)
		if err != nil {
			return h, fmt.Errorf("reading parent header %d: %w", i, err)
		}
		h.Parents = append(h.Parents, parent)
	}
	return h, nil
}

// Write serializes the header and its parents at the writer's position.
func (h *DataHeader) Write(w *binary.Writer) error {
	if err := w.WriteString8(h.FileTypeID); err != nil {
		return err
	}
	if err := w.WriteString8(h.FileID); err != nil {
		return err
	}
	if err := w.WriteString16(h.CreationTime); err != nil {
		return err
	}
	if err := w.WriteString16(h.Locale); err != nil {
		return err
	}
	if err := writeParams(w, h.Params); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(h.Parents))); err != nil {
		return err
	}
	for i := range h.Parents {
		if err := h.Parents[i].Write(w); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the encoded size of the header including its parents.
func (h *DataHeader) Size() int64 {
	size := binary.String8Size(h.FileTypeID) +
		binary.String8Size(h.FileID) +
		binary.String16Size(h.CreationTime) +
		binary.String16Size(h.Locale) +
		paramsSize(h.Params) + 4
	for i := range h.Parents {
		size += h.Parents[i].Size()
	}
	return size
}
