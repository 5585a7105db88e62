// Package dtype describes Calvin column types and encodes cell values.
//
// Calvin tables carry one of nine column kinds. Each kind has a fixed element
// size; the two string kinds also carry a 4-byte element-count prefix and a
// declared capacity, so their on-disk size is
//
//	elementSize*capacity + 4
//
// # Type Mapping
//
//	Kind    | type byte | element size | Go type
//	--------|-----------|--------------|---------
//	Int8    | 0         | 1            | int8
//	UInt8   | 1         | 1            | uint8
//	Int16   | 2         | 2            | int16
//	UInt16  | 3         | 2            | uint16
//	Int32   | 4         | 4            | int32
//	UInt32  | 5         | 4            | uint32
//	Float32 | 6         | 4            | float32
//	ASCII   | 7         | 1            | string
//	UTF16   | 8         | 2            | string
//
// # Codecs
//
// Every kind has exactly one [Codec]. The read path, the streaming writer and
// the in-place updater all go through [Lookup], so a column kind is encoded
// and decoded the same way no matter which path touches the cell.
//
// Encoding is strict: an int32 column accepts only an int32 value. A value of
// any other Go type fails with [ErrMismatch]; a string longer than the column
// capacity fails with [ErrCapacity]. Use [Convert] to widen or narrow a
// numeric value explicitly before encoding.
package dtype
