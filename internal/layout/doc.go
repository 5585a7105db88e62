// Package layout computes where table rows and cells live in a Calvin file.
//
// Calvin stores every table contiguously: a header block, then rowCount rows
// of rowStride bytes each, then the next table's header block. There is no
// chunking, no index and no per-row framing, so every cell address is pure
// arithmetic over the column sizes:
//
//	cellOffset(r, c) = dataStart + r*rowStride + prefix(c)
//	prefix(c)        = size(col 0) + ... + size(col c-1)
//
// [Contiguous] captures that arithmetic for one table. It is shared by the
// read path, the streaming writer and the in-place updater, so all three
// agree on every offset.
//
// # Span Checks
//
// [Contiguous.Check] validates a table's data span against the size of the
// file and against the offset of the next header block. A short file is
// reported as [ErrTruncated]; a span that does not end where the next block
// begins is reported as [ErrSpanMismatch].
package layout
