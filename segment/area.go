package segment

import (
	"github.com/shuiping150/whitedb/internal/layout"
)

// AreaHeader is a zero-copy view over one embedded area header. It never
// copies the underlying bytes — every accessor reads or writes straight
// into the segment's backing buffer.
type AreaHeader struct {
	seg *Segment
	id  layout.AreaID
}

// Area returns a view over the given area's header.
func (s *Segment) Area(id layout.AreaID) AreaHeader {
	return AreaHeader{seg: s, id: id}
}

func (a AreaHeader) base() int64 { return layout.AreaBase(a.id) }

// ID reports which area this header describes.
func (a AreaHeader) ID() layout.AreaID { return a.id }

// bootstrap writes the header's fixed-at-init fields: whether it holds
// fixed-length objects, the object length for fixed areas (0 for
// variable-length areas), and an empty sub-area table.
func (a AreaHeader) bootstrap() {
	data := a.seg.data
	fixed := uint64(0)
	if !a.id.IsVarLength() {
		fixed = 1
	}
	layout.PutU64(data, a.base()+layout.AreaHdrFixedLengthOffset, fixed)
	layout.PutU64(data, a.base()+layout.AreaHdrObjLengthOffset, uint64(a.id.ObjLength()))
	layout.PutI64(data, a.base()+layout.AreaHdrLastSubareaIdxOffset, -1)

	if a.id.IsVarLength() {
		for i := 0; i < layout.FreeBucketsLen; i++ {
			layout.PutU64(data, a.base()+layout.AreaHdrFreeBucketsOffset+int64(i)*layout.WordSize, 0)
		}
	} else {
		layout.PutU64(data, a.base()+layout.AreaHdrFreelistOffset, 0)
	}
}

// FixedLength reports whether this area holds fixed-size objects.
func (a AreaHeader) FixedLength() bool {
	return layout.ReadU64(a.seg.data, a.base()+layout.AreaHdrFixedLengthOffset) != 0
}

// ObjLength returns the fixed object size for fixed-length areas.
func (a AreaHeader) ObjLength() int64 {
	return int64(layout.ReadU64(a.seg.data, a.base()+layout.AreaHdrObjLengthOffset))
}

// LastSubareaIndex returns the index of the most recently carved sub-area,
// or -1 if none has been carved yet.
func (a AreaHeader) LastSubareaIndex() int {
	return int(layout.ReadI64(a.seg.data, a.base()+layout.AreaHdrLastSubareaIdxOffset))
}

func (a AreaHeader) setLastSubareaIndex(idx int) {
	layout.PutI64(a.seg.data, a.base()+layout.AreaHdrLastSubareaIdxOffset, int64(idx))
}

// SubareaEntry describes one sub-area: its requested size, its carved
// offset from the segment base, and the alignment-rounded offset/size
// actually reserved for it.
type SubareaEntry struct {
	Size         int64
	Offset       int64
	AlignedOff   int64
	AlignedSize  int64
}

// SubareaEntry reads the sub-area table entry at idx (0 <= idx <
// SubareaArraySize).
func (a AreaHeader) SubareaEntry(idx int) SubareaEntry {
	off := layout.SubareaEntryOffset(a.id, idx)
	data := a.seg.data
	return SubareaEntry{
		Size:        int64(layout.ReadU64(data, off+0*layout.WordSize)),
		Offset:      int64(layout.ReadU64(data, off+1*layout.WordSize)),
		AlignedOff:  int64(layout.ReadU64(data, off+2*layout.WordSize)),
		AlignedSize: int64(layout.ReadU64(data, off+3*layout.WordSize)),
	}
}

// SetSubareaEntry writes the sub-area table entry at idx.
func (a AreaHeader) SetSubareaEntry(idx int, e SubareaEntry) {
	off := layout.SubareaEntryOffset(a.id, idx)
	data := a.seg.data
	layout.PutU64(data, off+0*layout.WordSize, uint64(e.Size))
	layout.PutU64(data, off+1*layout.WordSize, uint64(e.Offset))
	layout.PutU64(data, off+2*layout.WordSize, uint64(e.AlignedOff))
	layout.PutU64(data, off+3*layout.WordSize, uint64(e.AlignedSize))
}

// Freelist returns a fixed-length area's single free-list head offset, or
// 0 if empty.
func (a AreaHeader) Freelist() uint64 {
	return layout.ReadU64(a.seg.data, a.base()+layout.AreaHdrFreelistOffset)
}

// SetFreelist sets a fixed-length area's free-list head.
func (a AreaHeader) SetFreelist(off uint64) {
	layout.PutU64(a.seg.data, a.base()+layout.AreaHdrFreelistOffset, off)
}

// FreeBucket returns the raw word stored at freebuckets[idx] for a
// variable-length area. Indices below DVBucket hold a free-list head
// offset; DVBucket/DVSizeBucket hold the designated victim's offset and
// size respectively.
func (a AreaHeader) FreeBucket(idx int) uint64 {
	return layout.ReadU64(a.seg.data, a.base()+layout.AreaHdrFreeBucketsOffset+int64(idx)*layout.WordSize)
}

// SetFreeBucket writes freebuckets[idx].
func (a AreaHeader) SetFreeBucket(idx int, v uint64) {
	layout.PutU64(a.seg.data, a.base()+layout.AreaHdrFreeBucketsOffset+int64(idx)*layout.WordSize, v)
}

// FreeBucketAddr returns the absolute byte offset of the freebuckets[idx]
// slot itself, used as the back-link value a bucket's head free object
// stores in its prev field so unlinking never needs a
// head-versus-interior branch.
func (a AreaHeader) FreeBucketAddr(idx int) uint64 {
	return uint64(a.base() + layout.AreaHdrFreeBucketsOffset + int64(idx)*layout.WordSize)
}

// DV returns the designated victim's (offset, size) pair. A zero size
// means there is no current designated victim.
func (a AreaHeader) DV() (offset, size uint64) {
	return a.FreeBucket(layout.DVBucket), a.FreeBucket(layout.DVSizeBucket)
}

// SetDV installs offset/size as the area's designated victim. Passing
// (0, 0) clears it.
func (a AreaHeader) SetDV(offset, size uint64) {
	a.SetFreeBucket(layout.DVBucket, offset)
	a.SetFreeBucket(layout.DVSizeBucket, size)
}

// GrowArea carves a new sub-area of size bytes via the segment's bump
// allocator and records it in the area's next free sub-area table slot.
// It returns the sub-area's carved offset and aligned size; the caller
// (package alloc) is responsible for threading the new span onto the
// area's free list or free buckets — segment only tracks geography.
func (a AreaHeader) GrowArea(size int64) (SubareaEntry, error) {
	idx := a.LastSubareaIndex() + 1
	if idx >= layout.SubareaArraySize {
		return SubareaEntry{}, ErrSegmentFull
	}

	off, err := a.seg.Carve(size)
	if err != nil {
		return SubareaEntry{}, err
	}

	entry := SubareaEntry{
		Size:        size,
		Offset:      off,
		AlignedOff:  off,
		AlignedSize: layout.AlignUp(size, layout.SubareaAlignmentBytes),
	}
	a.SetSubareaEntry(idx, entry)
	a.setLastSubareaIndex(idx)
	return entry, nil
}
