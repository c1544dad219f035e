package alloc

import "errors"

var (
	// ErrNoSpace indicates a fixed-length extension or variable-length
	// growth request could not be satisfied: the sub-area array is full,
	// or the segment's bump allocator has no room left.
	ErrNoSpace = errors.New("alloc: no space for extension")

	// ErrBadArea indicates an area tag outside the fixed set of embedded
	// areas, or an operation applied to an area of the wrong kind (fixed
	// vs variable).
	ErrBadArea = errors.New("alloc: bad area")

	// ErrBadRef indicates free_var was called with an offset that does
	// not belong to the given area's sub-areas. FreeFixed does not check
	// its offset and never returns it.
	ErrBadRef = errors.New("alloc: bad reference")

	// ErrInvalidSize indicates a non-positive word count, or a byte size
	// too large for any bucket.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrAlreadyFree indicates free_var was called twice on the same
	// object without an intervening allocation (double free).
	ErrAlreadyFree = errors.New("alloc: object already free")

	// ErrCorruption indicates a boundary-tag inconsistency was detected
	// while inspecting a predecessor during free_var's backward merge.
	ErrCorruption = errors.New("alloc: boundary tag corruption detected")
)
