package segment

import "errors"

var (
	// ErrTooSmall indicates the backing buffer is smaller than the
	// segment header (layout.SegmentHeaderSize).
	ErrTooSmall = errors.New("segment: buffer too small for header and initial sub-areas")

	// ErrBadMagic indicates Open was called on a buffer that was never
	// initialized by Init, or whose header was corrupted.
	ErrBadMagic = errors.New("segment: bad magic")

	// ErrBadVersion indicates Open found a segment written by an
	// incompatible format version.
	ErrBadVersion = errors.New("segment: unsupported version")

	// ErrSegmentFull indicates carve could not satisfy a request because
	// doing so would meet or exceed the segment's total size, or that
	// GrowArea found the area's sub-area table already full.
	ErrSegmentFull = errors.New("segment: bump allocator exhausted")

	// ErrSizeTooSmall indicates carve was asked for fewer than
	// layout.MinimalSubareaSize bytes.
	ErrSizeTooSmall = errors.New("segment: requested sub-area below minimum size")

	// ErrNotImplemented is returned by the disabled child-segment
	// creator.
	ErrNotImplemented = errors.New("segment: child segment creation is not implemented")
)
