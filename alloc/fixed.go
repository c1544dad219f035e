package alloc

import (
	"github.com/shuiping150/whitedb/internal/diag"
	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

// initialSizeFor returns the sub-area size the first extension of area
// should request: the standard initial size for frequently used areas,
// or the smaller minimal size for the rarely touched ones (tree nodes,
// index headers).
func initialSizeFor(area AreaID) int64 {
	if area == layout.AreaTnode || area == layout.AreaIndexhdr {
		return layout.MinimalSubareaSize
	}
	return layout.InitialSubareaSize
}

// AllocFixed pops the head of area's free list, extending the area by one
// new sub-area and retrying once if the list is empty.
func AllocFixed(s *segment.Segment, area AreaID) (Offset, error) {
	ah := s.Area(area)
	if !ah.FixedLength() {
		return 0, ErrBadArea
	}

	if off := ah.Freelist(); off != 0 {
		popFixed(s, ah, off)
		return off, nil
	}

	if err := extendFixed(s, ah); err != nil {
		diag.Errorf("alloc: extend_fixed(%s) failed: %v", area, err)
		return 0, err
	}

	off := ah.Freelist()
	if off == 0 {
		return 0, ErrNoSpace
	}
	popFixed(s, ah, off)
	return off, nil
}

func popFixed(s *segment.Segment, ah segment.AreaHeader, off uint64) {
	next := layout.ReadU64(s.Bytes(), int64(off))
	ah.SetFreelist(next)
}

// FreeFixed pushes off back onto area's free list. There is no boundary
// or double-free check.
func FreeFixed(s *segment.Segment, area AreaID, off Offset) error {
	ah := s.Area(area)
	if !ah.FixedLength() {
		return ErrBadArea
	}
	layout.PutU64(s.Bytes(), int64(off), ah.Freelist())
	ah.SetFreelist(off)
	return nil
}

// extendFixed carves one new sub-area for area and threads the whole span
// into a fresh free list. The very first sub-area (idx==0) is carved at
// its standard initial size; every later extension doubles the previous
// sub-area's size, falling back to that same size on a doubled request's
// failure.
func extendFixed(s *segment.Segment, ah segment.AreaHeader) error {
	idx := ah.LastSubareaIndex() + 1
	if idx >= layout.SubareaArraySize {
		return ErrNoSpace
	}

	if idx == 0 {
		entry, err := ah.GrowArea(initialSizeFor(ah.ID()))
		if err != nil {
			return ErrNoSpace
		}
		threadFixedFreelist(s, ah, entry)
		return nil
	}

	prevSize := ah.SubareaEntry(idx - 1).Size
	entry, err := ah.GrowArea(2 * prevSize)
	if err != nil {
		entry, err = ah.GrowArea(prevSize)
		if err != nil {
			return ErrNoSpace
		}
	}

	threadFixedFreelist(s, ah, entry)
	return nil
}

// threadFixedFreelist splits a freshly carved sub-area into objLength-
// sized cells and links them into area's free list, head first.
func threadFixedFreelist(s *segment.Segment, ah segment.AreaHeader, entry segment.SubareaEntry) {
	data := s.Bytes()
	objLen := ah.ObjLength()
	n := entry.Size / objLen

	var head uint64
	for i := n - 1; i >= 0; i-- {
		cellOff := uint64(entry.Offset) + uint64(i)*uint64(objLen)
		layout.PutU64(data, int64(cellOff), head)
		head = cellOff
	}
	ah.SetFreelist(head)
}
