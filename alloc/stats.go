package alloc

import (
	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

// Stats is a read-only snapshot of one area's allocation state, taken by
// walking its free structures without modifying anything.
type Stats struct {
	Area AreaID

	// FixedLength reports whether this is a fixed-length area; Stats
	// leaves LargestFree and DVSize zero for fixed areas since
	// those concepts don't apply to a single-size free list.
	FixedLength bool

	SubareaCount int
	TotalBytes   int64

	// FreeBytes sums every free cell (fixed areas) or free object plus
	// the designated victim (variable areas).
	FreeBytes int64

	// LargestFree is the size of the largest single free object seen,
	// excluding the designated victim. Zero for fixed areas.
	LargestFree int64

	// DVSize is the current designated victim's size, or 0 if none.
	DVSize int64
}

// AreaStats walks area's sub-area table and free structures and reports a
// snapshot. It never allocates or frees anything and is safe to call at
// any time between operations.
func AreaStats(s *segment.Segment, area AreaID) Stats {
	ah := s.Area(area)
	st := Stats{Area: area, FixedLength: ah.FixedLength()}

	for i := 0; i <= ah.LastSubareaIndex(); i++ {
		st.SubareaCount++
		st.TotalBytes += ah.SubareaEntry(i).Size
	}

	data := s.Bytes()

	if st.FixedLength {
		objLen := ah.ObjLength()
		for off := ah.Freelist(); off != 0; {
			st.FreeBytes += objLen
			off = layout.ReadU64(data, int64(off))
		}
		return st
	}

	for b := 0; b < layout.ExactBucketsNr+layout.VarBucketsNr; b++ {
		for cur := ah.FreeBucket(b); cur != 0; {
			size, _, _ := readHeader(data, int64(cur))
			st.FreeBytes += size
			if size > st.LargestFree {
				st.LargestFree = size
			}
			cur = readNext(data, int64(cur))
		}
	}

	if _, dvSize := ah.DV(); dvSize > 0 {
		st.DVSize = int64(dvSize)
		st.FreeBytes += st.DVSize
	}

	return st
}
