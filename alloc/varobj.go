package alloc

import "github.com/shuiping150/whitedb/internal/layout"

// A variable-length object is laid out as four or more words:
//
//	word 0: header  (size | flags)
//	word 1: next_ptr (free) or sentinel tag (special-used)
//	word 2: prev_ptr (free) or 0 (special-used)
//	...
//	word N: footer   (size | flags), the object's last word
//
// header and footer both pack the byte size into the high bits and two
// flags into the low bits; size is always a multiple of 8 so those bits
// never collide.
const (
	flagFree     = uint64(1) << 0
	flagPrevFree = uint64(1) << 1
	flagMask     = uint64(0x7)
)

const (
	nextPtrOffset = int64(layout.WordSize)     // word 1
	prevPtrOffset = int64(2 * layout.WordSize) // word 2
)

func packTag(size int64, free, prevFree bool) uint64 {
	tag := uint64(size) &^ flagMask
	if free {
		tag |= flagFree
	}
	if prevFree {
		tag |= flagPrevFree
	}
	return tag
}

func unpackTag(tag uint64) (size int64, free, prevFree bool) {
	size = int64(tag &^ flagMask)
	free = tag&flagFree != 0
	prevFree = tag&flagPrevFree != 0
	return
}

func readHeader(data []byte, off int64) (size int64, free, prevFree bool) {
	return unpackTag(layout.ReadU64(data, off))
}

func writeHeader(data []byte, off int64, size int64, free, prevFree bool) {
	layout.PutU64(data, off, packTag(size, free, prevFree))
}

func footerOffset(off, size int64) int64 { return off + size - layout.WordSize }

func readFooter(data []byte, off, size int64) (fsize int64, free, prevFree bool) {
	return unpackTag(layout.ReadU64(data, footerOffset(off, size)))
}

func writeFooter(data []byte, off, size int64, free, prevFree bool) {
	layout.PutU64(data, footerOffset(off, size), packTag(size, free, prevFree))
}

// writeBoundaryTags sets both header and footer to the same tag: a free
// object must carry matching boundary tags at both ends so a physical
// neighbor can recover its size and flags from either direction.
func writeBoundaryTags(data []byte, off, size int64, free, prevFree bool) {
	writeHeader(data, off, size, free, prevFree)
	writeFooter(data, off, size, free, prevFree)
}

func readNext(data []byte, off int64) uint64  { return layout.ReadU64(data, off+nextPtrOffset) }
func writeNext(data []byte, off int64, v uint64) { layout.PutU64(data, off+nextPtrOffset, v) }
func readPrev(data []byte, off int64) uint64  { return layout.ReadU64(data, off+prevPtrOffset) }
func writePrev(data []byte, off int64, v uint64) { layout.PutU64(data, off+prevPtrOffset, v) }

// readSentinel and writeSentinel access the same word as next_ptr; they
// are named separately because a special-used object and a free object
// never occupy that word for the same purpose at the same time.
func readSentinel(data []byte, off int64) uint64     { return readNext(data, off) }
func writeSentinel(data []byte, off int64, v uint64) { writeNext(data, off, v) }

// isSentinelValue reports whether v is one of the three special-used
// marker values a used object's sentinel word can carry.
func isSentinelValue(v uint64) bool {
	return v == layout.SpecialGInt1Start || v == layout.SpecialGInt1End || v == layout.SpecialGInt1DV
}
