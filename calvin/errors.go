// Package calvin reads, writes and updates Calvin generic data files.
//
// A Calvin file is a self-describing binary container: a preamble, a generic
// data header carrying file identity, parameters and provenance, and then a
// chain of groups, each holding a chain of fixed-width row tables.
//
// Files are written header-first with [Create], read with [Open] and patched
// in place with [OpenUpdate].
package calvin

import (
	"errors"

	"github.com/HenrikBengtsson/affxparser-sub002/internal/dtype"
)

// Common errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidVersion  = errors.New("not a Calvin file or unsupported version")
	ErrInvalidFileType = errors.New("unexpected file type identifier")
	ErrOutOfRange      = errors.New("index out of range")
	ErrTruncatedFile   = errors.New("file is truncated")
	ErrCorruptHeader   = errors.New("corrupt header")
	ErrCommitted       = errors.New("header already committed")
	ErrRowCount        = errors.New("streamed row count differs from declared row count")
	ErrNotFinalized    = errors.New("writer closed without Finalize")
	ErrClosed          = errors.New("file is closed")
	ErrNotFound        = errors.New("object not found")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidPath     = errors.New("invalid path")
	ErrRequired        = errors.New("required parameter missing")
	ErrNotInVocabulary = errors.New("value not in controlled vocabulary")

	// ErrSchemaMismatch is returned when a value, a typed accessor or a
	// stored column descriptor does not match the declared type.
	ErrSchemaMismatch = dtype.ErrMismatch

	// ErrCapacity is returned when a string is longer than its reserved width.
	ErrCapacity = dtype.ErrCapacity
)
