// Package preamble handles the fixed-size preamble at the start of every
// Calvin file.
//
// The preamble identifies the file and locates the first data group. It is
// the only part of a Calvin file with a fixed position and size:
//
//	offset  size  field
//	0       1     magic number, always 59
//	1       1     format version, always 1
//	2       4     number of data groups (big-endian uint32)
//	6       4     file offset of the first data group (big-endian uint32)
//
// The generic data header follows immediately at offset [Size].
//
// # Usage
//
// Read and validate the preamble of an existing file:
//
//	p, err := preamble.Read(file)
//	if errors.Is(err, preamble.ErrBadMagic) {
//	    // Not a Calvin file
//	}
//
// Write a preamble once the group layout is known:
//
//	p := preamble.New(groupCount, firstGroupPos)
//	err := p.Write(writer)
//
// # Errors
//
//   - [ErrBadMagic]: first byte is not the Calvin magic number
//   - [ErrUnsupportedVersion]: version byte is not 1
package preamble
