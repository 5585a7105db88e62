// Package alloc lays out the blocks of a Calvin file before it is written.
//
// Calvin files are written header-first: every header block and every
// table's reserved row span must have a known offset before the first byte
// is written, because header blocks store the offsets of the blocks that
// follow them. The [Allocator] hands out those offsets.
//
// # Allocator
//
//   - Append-only allocation: each block is placed at the current end of
//     the file, which then advances by the block size.
//   - Classes: every allocation is either a [Header] block or a [Data] span,
//     so tooling can report how much of a file is metadata.
//   - Tracking: all allocations are recorded with a tag (for example
//     "MultiData/Genotype") for debugging and validation.
//   - Limits: Calvin offsets are 32-bit, so [Allocator.Validate] rejects a
//     layout whose end lies beyond [MaxOffset].
//
// # Usage
//
//	a := alloc.New(preamble.Size)
//	hdr := a.Alloc(headerSize, alloc.Header, "generic header")
//	data := a.Alloc(rowCount*stride, alloc.Data, "MultiData/Genotype")
//	if err := a.Validate(); err != nil {
//	    // overlapping blocks or file too large
//	}
package alloc
