package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

func TestAllocVar_RejectsFixedLengthArea(t *testing.T) {
	s := newTestSegment(t, 1<<20)
	_, err := AllocVar(s, AreaWord, 4)
	require.ErrorIs(t, err, ErrBadArea)
}

func TestAllocVar_RejectsNonPositiveWordCount(t *testing.T) {
	s := newTestSegment(t, 1<<20)
	_, err := AllocVar(s, AreaDatarec, 0)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestAllocVar_OffsetsAreMonotonicWithinOneSubarea(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	o1, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)
	o2, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)
	o3, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)
	o4, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)

	require.Less(t, o1, o2)
	require.Less(t, o2, o3)
	require.Less(t, o3, o4)
}

func TestFreeVar_MergesTwoAdjacentFreedNeighborsForward(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	o1, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)
	o2, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)
	o3, err := AllocVar(s, AreaDatarec, 10)
	require.NoError(t, err)

	require.NoError(t, Validate(s, AreaDatarec))

	require.NoError(t, FreeVar(s, AreaDatarec, o2))
	require.NoError(t, FreeVar(s, AreaDatarec, o3))

	require.NoError(t, Validate(s, AreaDatarec))

	st := AreaStats(s, AreaDatarec)
	// the merged block (or DV, if promoted) is at least the combined size
	// of o2 and o3: 10 words each, boundary-tag words included.
	require.GreaterOrEqual(t, int64(st.FreeBytes), int64(2*10*layout.WordSize))
	_ = o1
}

func TestFreeVar_DoubleFreeIsRejectedWithoutMutation(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	o, err := AllocVar(s, AreaDatarec, 5)
	require.NoError(t, err)

	require.NoError(t, FreeVar(s, AreaDatarec, o))

	before := snapshotBuffer(s)
	err = FreeVar(s, AreaDatarec, o)
	require.ErrorIs(t, err, ErrAlreadyFree)
	require.Equal(t, before, snapshotBuffer(s))
}

func TestFreeVar_RejectsOffsetsOutsideTheAreaWithoutMutation(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	_, err := AllocVar(s, AreaDatarec, 5)
	require.NoError(t, err)

	before := snapshotBuffer(s)

	// Offset 0 and an offset inside the segment header both fall outside
	// any sub-area this area has carved.
	err = FreeVar(s, AreaDatarec, 0)
	require.ErrorIs(t, err, ErrBadRef)

	err = FreeVar(s, AreaDatarec, 64)
	require.ErrorIs(t, err, ErrBadRef)

	// An offset past the end of the area's single carved sub-area is
	// equally not a db address.
	ah := s.Area(AreaDatarec)
	entry := ah.SubareaEntry(ah.LastSubareaIndex())
	err = FreeVar(s, AreaDatarec, uint64(entry.Offset+entry.Size))
	require.ErrorIs(t, err, ErrBadRef)

	require.Equal(t, before, snapshotBuffer(s))
}

func TestFreeVar_AbsorbsTheDesignatedVictimWhenAdjacent(t *testing.T) {
	s := newTestSegment(t, 1<<20)
	ah := s.Area(AreaDatarec)

	dvOff, dvSizeBefore := ah.DV()
	require.Greater(t, dvSizeBefore, uint64(0))

	// Allocate a block that ends exactly where the DV begins isn't
	// directly constructible through the public API, so instead verify
	// the other direction: allocate right up against the DV, then free
	// it, and check DV absorbs it from the low side.
	o, err := AllocVar(s, AreaDatarec, 8)
	require.NoError(t, err)

	newDVOff, newDVSize := ah.DV()
	require.NotEqual(t, dvOff, newDVOff, "allocating from the DV should move it")

	objSize, _, _ := readHeader(s.Bytes(), int64(o))
	require.NoError(t, FreeVar(s, AreaDatarec, o))

	mergedOff, mergedSize := ah.DV()
	require.Equal(t, o, mergedOff)
	require.Equal(t, uint64(objSize)+newDVSize, mergedSize)

	data := s.Bytes()
	sentinel := readSentinel(data, int64(mergedOff))
	require.Equal(t, layout.SpecialGInt1DV, sentinel)
}

func TestAllocVar_RoutesThroughLogScaleBucketForLargeRequests(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	wordCount := int64(layout.ExactBucketsNr * 4)
	off, err := AllocVar(s, AreaDatarec, wordCount)
	require.NoError(t, err)

	expectedBucket, err := Bucket(wordCount * layout.WordSize)
	require.NoError(t, err)
	require.GreaterOrEqual(t, expectedBucket, layout.ExactBucketsNr)
	require.NotZero(t, off)
}

func TestAllocVar_DVRemainsAfterManySmallAllocs(t *testing.T) {
	s := newTestSegment(t, 1<<21)
	ah := s.Area(AreaDatarec)

	var lastOff Offset
	for i := 0; i < 50; i++ {
		off, err := AllocVar(s, AreaDatarec, 20)
		require.NoError(t, err)
		lastOff = off
	}
	_ = lastOff

	_, dvSize := ah.DV()
	require.Greater(t, dvSize, uint64(0))
	require.NoError(t, Validate(s, AreaDatarec))
}

func TestAllocVar_NeverReturnsMoreThanOneDVAtATime(t *testing.T) {
	s := newTestSegment(t, 1<<21)
	ah := s.Area(AreaDatarec)

	for i := 0; i < 20; i++ {
		_, err := AllocVar(s, AreaDatarec, 12)
		require.NoError(t, err)
	}

	count := 0
	data := s.Bytes()
	for idx := 0; idx <= ah.LastSubareaIndex(); idx++ {
		entry := ah.SubareaEntry(idx)
		off := entry.Offset
		end := entry.Offset + entry.Size
		for off < end {
			size, free, _ := readHeader(data, off)
			if !free {
				if sentinel := readSentinel(data, off); sentinel == layout.SpecialGInt1DV {
					count++
				}
			}
			off += size
		}
	}
	require.Equal(t, 1, count)
}

func TestAllocVar_ExtendsWhenDVIsTooSmall(t *testing.T) {
	s := newTestSegment(t, 1<<22)
	ah := s.Area(AreaDatarec)

	// Drain the initial sub-area's DV down with many small allocations so
	// a subsequent large request cannot be satisfied by the DV alone.
	for i := 0; i < 100; i++ {
		_, err := AllocVar(s, AreaDatarec, 4)
		require.NoError(t, err)
	}

	_, dvSize := ah.DV()

	off, err := AllocVar(s, AreaDatarec, int64(dvSize)/layout.WordSize+1024)
	require.NoError(t, err)
	require.NotZero(t, off)
	require.NoError(t, Validate(s, AreaDatarec))
}

func TestFreeVar_LeavesNoTwoAdjacentFreeObjects(t *testing.T) {
	s := newTestSegment(t, 1<<20)

	offs := make([]Offset, 0, 6)
	for i := 0; i < 6; i++ {
		o, err := AllocVar(s, AreaDatarec, 8)
		require.NoError(t, err)
		offs = append(offs, o)
	}

	require.NoError(t, FreeVar(s, AreaDatarec, offs[1]))
	require.NoError(t, FreeVar(s, AreaDatarec, offs[3]))
	require.NoError(t, FreeVar(s, AreaDatarec, offs[2]))

	require.NoError(t, Validate(s, AreaDatarec))
}

func snapshotBuffer(s *segment.Segment) []byte {
	b := s.Bytes()
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
