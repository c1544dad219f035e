package layout

import "encoding/binary"

// ReadU64 reads a little-endian uint64 at the given absolute byte offset.
func ReadU64(data []byte, off int64) uint64 {
	return binary.LittleEndian.Uint64(data[off : off+8])
}

// PutU64 writes a little-endian uint64 at the given absolute byte offset.
func PutU64(data []byte, off int64, v uint64) {
	binary.LittleEndian.PutUint64(data[off:off+8], v)
}

// ReadI64 reads a little-endian int64 at the given absolute byte offset.
func ReadI64(data []byte, off int64) int64 {
	return int64(ReadU64(data, off))
}

// PutI64 writes a little-endian int64 at the given absolute byte offset.
func PutI64(data []byte, off int64, v int64) {
	PutU64(data, off, uint64(v))
}

// AlignUp rounds n up to the nearest multiple of align (align must be a
// power of two).
func AlignUp(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}
