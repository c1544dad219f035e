package alloc

import (
	"fmt"

	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

// Validate walks every sub-area of a variable-length area and checks the
// boundary-tag invariants a correct allocator state must satisfy: header
// and footer agree at every free object, every special-used object
// (sub-area sentinel or designated victim) ends in a used footer of its
// own size, no two adjacent objects are both free, and every free or
// normal used object's prev-free flag matches its predecessor's actual
// state. The prev-free bit of a special-used object is not checked. It
// never mutates the segment.
//
// Validate is diagnostic only — Alloc/Free never call it on their own
// path — and returns the first violation found, or nil if the area is
// consistent.
func Validate(s *segment.Segment, area AreaID) error {
	ah := s.Area(area)
	if ah.FixedLength() {
		return ErrBadArea
	}
	data := s.Bytes()

	for i := 0; i <= ah.LastSubareaIndex(); i++ {
		entry := ah.SubareaEntry(i)
		if err := validateSubarea(data, entry); err != nil {
			return fmt.Errorf("alloc: sub-area %d of %s: %w", i, area, err)
		}
	}
	return nil
}

func validateSubarea(data []byte, entry segment.SubareaEntry) error {
	off := entry.Offset
	end := entry.Offset + entry.Size
	prevWasFree := false

	for off < end {
		size, free, prevFree := readHeader(data, off)
		if size < layout.MinVarlenObjSize {
			return fmt.Errorf("object at offset %d has implausible size %d", off, size)
		}
		if off+size > end {
			return fmt.Errorf("object at offset %d of size %d overruns its sub-area", off, size)
		}

		special := !free && isSentinelValue(readSentinel(data, off))

		if !special && prevFree != prevWasFree {
			return fmt.Errorf("object at offset %d has prev-free flag %v, predecessor free state was %v", off, prevFree, prevWasFree)
		}

		if free {
			fsize, ffree, fprevFree := readFooter(data, off, size)
			if fsize != size || !ffree || fprevFree != prevFree {
				return fmt.Errorf("free object at offset %d has mismatched header/footer tags", off)
			}
			if prevWasFree {
				return fmt.Errorf("two adjacent free objects meet at offset %d", off)
			}
		} else if special {
			fsize, ffree, _ := readFooter(data, off, size)
			if fsize != size || ffree {
				return fmt.Errorf("special-used object at offset %d has mismatched header/footer tags", off)
			}
		}

		prevWasFree = free
		off += size
	}

	if off != end {
		return fmt.Errorf("objects in sub-area at offset %d do not exactly tile its span", entry.Offset)
	}
	return nil
}
