// Package segment implements the allocator core's segment bootstrap and
// bump sub-area allocator: the layout a single pre-sized, fixed-length
// memory region is carved into, addressed entirely by byte offset from
// the segment base so the region stays position independent across
// re-maps.
//
// Segment owns only the header bookkeeping. It never interprets payload
// bytes inside a sub-area — that is the fixed-length and variable-length
// pools' job (package alloc).
package segment

import (
	"fmt"

	"github.com/shuiping150/whitedb/internal/diag"
	"github.com/shuiping150/whitedb/internal/layout"
)

// Segment is a thin, zero-copy view over a caller-supplied byte buffer.
// Segment does not own the buffer's memory — the host maps or allocates
// it and is responsible for its lifetime.
type Segment struct {
	data []byte
}

// Bytes returns the raw backing buffer. Callers in package alloc use this
// to read and write fixed- and variable-length object payloads directly.
func (s *Segment) Bytes() []byte { return s.data }

// Init bootstraps a fresh segment header: magic, version, size, owner
// key, parent offset, the bump pointer, every embedded area header's
// scalar fields, the string-hash sub-area, and the opaque
// synchronization/index/logging blocks. Carving each area's first
// sub-area and threading its free structure happens later, in package
// alloc. data must already be sized to the segment's total size; Init
// never grows or shrinks it.
func Init(data []byte, ownerKey uint64) (*Segment, error) {
	if int64(len(data)) < layout.SegmentHeaderSize {
		return nil, ErrTooSmall
	}

	s := &Segment{data: data}

	layout.PutU64(data, layout.SegHeaderMagicOffset, layout.MagicMark)
	layout.PutU64(data, layout.SegHeaderVersionOffset, layout.Version)
	layout.PutU64(data, layout.SegHeaderTotalSizeOffset, uint64(len(data)))
	layout.PutU64(data, layout.SegHeaderInitialAddressOffset, 0)
	layout.PutU64(data, layout.SegHeaderOwnerKeyOffset, ownerKey)
	layout.PutU64(data, layout.SegHeaderParentOffsetOffset, 0)

	// free starts at the smallest SubareaAlignmentBytes multiple at or
	// above the header size, so the first carve never overlaps it.
	free := layout.AlignUp(layout.SegmentHeaderSize, layout.SubareaAlignmentBytes)
	layout.PutU64(data, layout.SegHeaderFreeOffset, uint64(free))

	// (a) bootstrap each area header. Carving each area's first sub-area
	// and threading its free structure is the fixed- and
	// variable-length pools' job (package alloc) — segment only lays
	// out the geography an area header needs to describe one.
	for area := layout.AreaID(0); int(area) < layout.AreaCount; area++ {
		ah := s.Area(area)
		ah.bootstrap()
	}

	// (d) string-hash table.
	if _, err := s.InitHashSubarea(layout.InitialStrHashLength); err != nil {
		diag.Errorf("segment: init failed to carve hash sub-area: %v", err)
		return nil, fmt.Errorf("segment: init hash area: %w", err)
	}

	// (e) reserve opaque synchronization storage via the bump allocator,
	// rounded up to the smallest size Carve accepts.
	syncSize := int64(layout.SyncBlockSize)
	if syncSize < layout.MinimalSubareaSize {
		syncSize = layout.MinimalSubareaSize
	}
	if _, err := s.Carve(syncSize); err != nil {
		diag.Errorf("segment: init failed to reserve synchronization storage: %v", err)
		return nil, fmt.Errorf("segment: init sync block: %w", err)
	}

	// (f) clear the index control table (already zero-filled by the
	// host-provided buffer; re-zero defensively in case of reuse).
	zeroRange(data, layout.IndexBlockSize, layout.IndexBlockOffset)

	// (g) initialize the logging block: no active log sub-area, zero
	// counter, logging enabled, file not open.
	layout.PutU64(data, layout.LoggingHdrSubareaOffsetOffset, 0)
	layout.PutU64(data, layout.LoggingHdrCounterOffset, 0)
	layout.PutU64(data, layout.LoggingHdrEnabledOffset, 1)
	layout.PutU64(data, layout.LoggingHdrFileOpenOffset, 0)

	return s, nil
}

// Open re-attaches to an already-initialized segment, validating its
// magic and version.
func Open(data []byte) (*Segment, error) {
	if int64(len(data)) < layout.SegmentHeaderSize {
		return nil, ErrTooSmall
	}
	if layout.ReadU64(data, layout.SegHeaderMagicOffset) != layout.MagicMark {
		return nil, ErrBadMagic
	}
	if layout.ReadU64(data, layout.SegHeaderVersionOffset) != layout.Version {
		return nil, ErrBadVersion
	}
	return &Segment{data: data}, nil
}

// Free returns the segment's bump pointer: the next unallocated byte
// within the segment. It never decreases.
func (s *Segment) Free() uint64 { return layout.ReadU64(s.data, layout.SegHeaderFreeOffset) }

// TotalSize returns the segment's total byte size, fixed at Init time.
func (s *Segment) TotalSize() uint64 {
	return layout.ReadU64(s.data, layout.SegHeaderTotalSizeOffset)
}

// OwnerKey returns the key the host identified this segment with at Init.
func (s *Segment) OwnerKey() uint64 {
	return layout.ReadU64(s.data, layout.SegHeaderOwnerKeyOffset)
}

// ParentOffset returns the byte delta to an outer segment's base, or 0 if
// this segment has no parent.
func (s *Segment) ParentOffset() uint64 {
	return layout.ReadU64(s.data, layout.SegHeaderParentOffsetOffset)
}

// SetParent records parentOffset as the byte delta from this segment's
// base address to an outer segment's base address. The host computes
// that delta itself — Segment never reasons about real memory addresses,
// only about the offset value it persists.
func (s *Segment) SetParent(parentOffset uint64) {
	layout.PutU64(s.data, layout.SegHeaderParentOffsetOffset, parentOffset)
}

// Carve is the bump sub-area allocator: it takes the next size bytes
// starting at the current free pointer, advances free to the next
// SubareaAlignmentBytes boundary after free+size, and returns the
// original free. Callers needing a sub-area, not a raw chunk, should use
// AreaHeader.GrowArea, which also records the sub-area table entry.
func (s *Segment) Carve(size int64) (int64, error) {
	if size < layout.MinimalSubareaSize {
		return 0, ErrSizeTooSmall
	}
	free := int64(s.Free())
	newFree := layout.AlignUp(free+size, layout.SubareaAlignmentBytes)
	if newFree >= int64(s.TotalSize()) {
		diag.Errorf("segment: carve(%d) would exceed total size %d (free=%d)", size, s.TotalSize(), free)
		return 0, ErrSegmentFull
	}
	layout.PutU64(s.data, layout.SegHeaderFreeOffset, uint64(newFree))
	return free, nil
}

func zeroRange(data []byte, n int64, off int64) {
	clear(data[off : off+n])
}
