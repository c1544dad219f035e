package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuiping150/whitedb/internal/layout"
)

func newTestBuffer(t *testing.T, size int64) []byte {
	t.Helper()
	return make([]byte, size)
}

func TestInit_RejectsUndersizedBuffer(t *testing.T) {
	buf := newTestBuffer(t, 16)
	_, err := Init(buf, 42)
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestInit_WritesHeaderFields(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 0xC0FFEE)
	require.NoError(t, err)

	require.Equal(t, uint64(len(buf)), s.TotalSize())
	require.Equal(t, uint64(0xC0FFEE), s.OwnerKey())
	require.Equal(t, uint64(0), s.ParentOffset())
	require.Equal(t, layout.MagicMark, layout.ReadU64(buf, layout.SegHeaderMagicOffset))
	require.Equal(t, layout.Version, layout.ReadU64(buf, layout.SegHeaderVersionOffset))
}

func TestInit_FreePointerClearsHeaderAndIsAligned(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	require.GreaterOrEqual(t, s.Free(), uint64(layout.SegmentHeaderSize))
	require.Zero(t, s.Free()%layout.SubareaAlignmentBytes)
}

func TestInit_BootstrapsEveryAreaHeader(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	for area := layout.AreaID(0); int(area) < layout.AreaCount; area++ {
		ah := s.Area(area)
		require.Equal(t, area.IsVarLength(), !ah.FixedLength())
		require.Equal(t, area.ObjLength(), ah.ObjLength())
		require.Equal(t, -1, ah.LastSubareaIndex())
	}
}

func TestOpen_RoundTripsAnInitializedSegment(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	_, err := Init(buf, 99)
	require.NoError(t, err)

	s2, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(99), s2.OwnerKey())
}

func TestOpen_RejectsBadMagicAndVersion(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	_, err := Init(buf, 1)
	require.NoError(t, err)

	layout.PutU64(buf, layout.SegHeaderMagicOffset, 0)
	_, err = Open(buf)
	require.ErrorIs(t, err, ErrBadMagic)

	_, err = Init(buf, 1)
	require.NoError(t, err)
	layout.PutU64(buf, layout.SegHeaderVersionOffset, layout.Version+1)
	_, err = Open(buf)
	require.ErrorIs(t, err, ErrBadVersion)
}

func TestSetParent_PersistsAcrossOpen(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	s.SetParent(4096)
	require.Equal(t, uint64(4096), s.ParentOffset())

	s2, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(4096), s2.ParentOffset())
}

func TestCarve_AdvancesFreeMonotonicallyAndReturnsDistinctOffsets(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	before := s.Free()
	off1, err := s.Carve(layout.MinimalSubareaSize)
	require.NoError(t, err)
	require.Equal(t, before, uint64(off1))
	require.Greater(t, s.Free(), before)
	require.Zero(t, s.Free()%layout.SubareaAlignmentBytes)

	off2, err := s.Carve(layout.MinimalSubareaSize)
	require.NoError(t, err)
	require.Greater(t, off2, off1)
}

func TestCarve_RejectsBelowMinimalSize(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	_, err = s.Carve(layout.MinimalSubareaSize - 1)
	require.ErrorIs(t, err, ErrSizeTooSmall)
}

func TestCarve_FailsOnceSegmentIsExhausted(t *testing.T) {
	buf := newTestBuffer(t, int64(layout.SegmentHeaderSize)+5*layout.SubareaAlignmentBytes)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	_, err = s.Carve(layout.MinimalSubareaSize)
	require.NoError(t, err)

	_, err = s.Carve(int64(s.TotalSize()))
	require.ErrorIs(t, err, ErrSegmentFull)
}

func TestGrowArea_RecordsSubareaTableEntryAndAdvancesIndex(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	ah := s.Area(layout.AreaWord)
	entry, err := ah.GrowArea(layout.InitialSubareaSize)
	require.NoError(t, err)
	require.Equal(t, int64(layout.InitialSubareaSize), entry.Size)
	require.Equal(t, 0, ah.LastSubareaIndex())
	require.Equal(t, entry, ah.SubareaEntry(0))
}

func TestGrowArea_FailsOnceSubareaTableIsFull(t *testing.T) {
	buf := newTestBuffer(t, int64(layout.SegmentHeaderSize)+layout.SubareaArraySize*2*layout.SubareaAlignmentBytes)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	ah := s.Area(layout.AreaWord)
	for i := 0; i < layout.SubareaArraySize; i++ {
		_, err := ah.GrowArea(layout.MinimalSubareaSize)
		require.NoError(t, err)
	}

	_, err = ah.GrowArea(layout.MinimalSubareaSize)
	require.ErrorIs(t, err, ErrSegmentFull)
}

func TestInitHashSubarea_ZeroFillsAndRecordsBounds(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	require.Equal(t, uint64(layout.InitialStrHashLength), s.HashArrayLength())
	start := s.HashArrayStart()
	require.Zero(t, layout.ReadU64(buf, int64(start)))
}

func TestNewChild_IsNotImplemented(t *testing.T) {
	buf := newTestBuffer(t, 1<<20)
	s, err := Init(buf, 1)
	require.NoError(t, err)

	child, err := NewChild(s, newTestBuffer(t, 1<<20), 2)
	require.Nil(t, child)
	require.ErrorIs(t, err, ErrNotImplemented)
}
