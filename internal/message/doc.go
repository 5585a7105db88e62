// Package message handles parsing and serialization of Calvin header blocks.
//
// A Calvin file is a preamble followed by three kinds of header block. This
// package works at the wire level: names are plain strings, parameter values
// are raw blobs, and parameter types are the MIME strings found on disk. The
// typed model in package calvin is built on top of these records.
//
// # Generic Data Header
//
// Immediately after the preamble. See [DataHeader].
//
//	String8   file type identifier
//	String8   file identifier (GUID)
//	String16  creation time
//	String16  locale
//	int32     parameter count, then parameters
//	int32     parent header count, then nested generic data headers
//
// # Data Group Block
//
// One per group, chained by file offset. See [GroupBlock].
//
//	uint32    offset of the next group block
//	uint32    offset of the first table header block
//	int32     table count
//	String16  group name
//
// # Table (Data Set) Header Block
//
// One per table, chained by file offset, followed directly by the row data.
// See [TableBlock].
//
//	uint32    offset of the first data row
//	uint32    offset of the next table header block
//	String16  table name
//	int32     parameter count, then parameters
//	int32     column count, then columns
//	int32     row count
//
// # Parameters and Columns
//
// A parameter is a String16 name, a blob value and a String16 MIME type. A
// column is a String16 name, an int8 type byte and an int32 total cell size.
//
// Every block type has Read, Write and Size. Size is exact, which lets the
// writer lay out the whole file before writing a single byte.
package message
