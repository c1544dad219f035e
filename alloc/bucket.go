package alloc

import (
	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

// A free variable-length object's prev field holds either the offset of
// the free object before it in the bucket chain, or the back-link
// address of the bucket head slot itself when the object is first in the
// chain. Slot addresses always fall inside the segment header region
// (below SegmentHeaderSize); every real carved object lives above it, so
// the two address spaces never collide and setLink can tell them apart
// without callers threading a "am I the head" flag through every call.
func isHeaderSlot(addr uint64) bool { return addr < uint64(layout.SegmentHeaderSize) }

// setLink writes v into the link word addr identifies: the freebuckets
// slot itself if addr is a header slot, or an object's next field if
// addr is a real object offset.
func setLink(seg *segment.Segment, addr, v uint64) {
	if isHeaderSlot(addr) {
		layout.PutU64(seg.Bytes(), int64(addr), v)
	} else {
		writeNext(seg.Bytes(), int64(addr), v)
	}
}

// insertBucketHead links off onto the front of bucket i's chain, marking
// it free with the given prev-free flag and writing matching boundary
// tags.
func insertBucketHead(seg *segment.Segment, area segment.AreaHeader, i int, off uint64, size int64, prevFree bool) {
	data := seg.Bytes()
	writeBoundaryTags(data, int64(off), size, true, prevFree)

	head := area.FreeBucket(i)
	writeNext(data, int64(off), head)
	writePrev(data, int64(off), area.FreeBucketAddr(i))
	if head != 0 {
		writePrev(data, int64(head), off)
	}
	area.SetFreeBucket(i, off)
}

// removeBucketNode unlinks off from its bucket chain. off must currently
// be a free object on some chain; its prev and next links are read from
// off itself.
func removeBucketNode(seg *segment.Segment, off uint64) {
	data := seg.Bytes()
	next := readNext(data, int64(off))
	prev := readPrev(data, int64(off))

	setLink(seg, prev, next)
	if next != 0 {
		writePrev(data, int64(next), prev)
	}
}
