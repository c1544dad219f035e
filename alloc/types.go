package alloc

import "github.com/shuiping150/whitedb/internal/layout"

// Offset is a segment-relative byte offset. 0 is reserved null, returned
// by the alloc functions on failure.
type Offset = uint64

// AreaID names one of the segment's fixed-order areas. It is an alias of
// layout.AreaID so callers of this package never need to import
// internal/layout themselves.
type AreaID = layout.AreaID

// Re-exported area identifiers, spelled the way callers of this package
// reach for them.
const (
	AreaDatarec    = layout.AreaDatarec
	AreaLongstr    = layout.AreaLongstr
	AreaListcell   = layout.AreaListcell
	AreaShortstr   = layout.AreaShortstr
	AreaWord       = layout.AreaWord
	AreaDoubleword = layout.AreaDoubleword
	AreaTnode      = layout.AreaTnode
	AreaIndexhdr   = layout.AreaIndexhdr
)
