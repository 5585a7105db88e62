// Package multidata maps analysis record kinds onto Calvin tables.
//
// A multi-data file holds one table per record kind, each in a named group
// ("MultiData" unless the caller chooses otherwise). Every kind has a fixed
// column prefix; any columns after it are extra metrics, exposed on each
// record as a list of [calvin.TaggedValue]. Readers that only know the fixed
// prefix still read files written with more metrics.
//
// Writing goes through [NewHeader], [Header.SetEntryCount] and [Create].
// Reading goes through [Open]. [OpenUpdate] rewrites records in place and
// [BufferWriter] batches updates across many files.
package multidata

import (
	"errors"
	"fmt"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
)

// FileTypeID is the file type identifier of multi-data files.
const FileTypeID = "affymetrix-multi-data-type-analysis"

// DefaultGroup is the group used when SetEntryCount is given no group name.
const DefaultGroup = "MultiData"

var (
	// ErrUnknownKind is returned for a Kind outside the registry.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrKindMismatch is returned when a record type does not belong to the
	// requested kind.
	ErrKindMismatch = errors.New("record type does not match kind")

	// ErrMetricCount is returned when a record carries a different number of
	// metrics than the table has extra columns.
	ErrMetricCount = errors.New("metric count does not match table")

	// ErrKindNotPresent is returned when the file has no table for a kind.
	// It matches calvin.ErrNotFound.
	ErrKindNotPresent = fmt.Errorf("kind not present in file: %w", calvin.ErrNotFound)
)
