package alloc

import (
	"github.com/shuiping150/whitedb/internal/diag"
	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/segment"
)

// markSpecialUsed writes a special-used object's header, sentinel word,
// zeroed third word, and footer. Special-used objects (sub-area
// sentinels and the designated victim) are never freed and never sit on
// a bucket chain.
func markSpecialUsed(data []byte, off, size int64, prevFree bool, sentinel uint64) {
	writeHeader(data, off, size, false, prevFree)
	writeSentinel(data, off, sentinel)
	writePrev(data, off, 0)
	writeFooter(data, off, size, false, prevFree)
}

// consumeWholeFree converts a free object of exactly the requested size
// into a used one without splitting, and flags its physical successor's
// prev-free bit false.
func consumeWholeFree(data []byte, off uint64, size int64) {
	writeHeader(data, int64(off), size, false, false)
	setSuccessorPrevFree(data, off, size, false)
}

// setSuccessorPrevFree updates the prev-free bit of the object
// physically following off (an object of the given size), keeping its
// footer in sync when that object is itself free.
func setSuccessorPrevFree(data []byte, off uint64, size int64, prevFree bool) {
	succOff := int64(off) + size
	sSize, sFree, _ := readHeader(data, succOff)
	writeHeader(data, succOff, sSize, sFree, prevFree)
	if sFree {
		writeFooter(data, succOff, sSize, sFree, prevFree)
	}
}

// initVarSubarea installs sentinels, the middle free block, and the new
// designated victim in a freshly carved variable-length sub-area. A
// pre-existing designated victim is pushed onto its bucket first so a
// var area never holds more than one at a time.
func initVarSubarea(s *segment.Segment, ah segment.AreaHeader, entry segment.SubareaEntry) {
	data := s.Bytes()

	if dvOff, dvSize := ah.DV(); dvSize >= layout.MinVarlenObjSize {
		_, _, prevFree := readHeader(data, int64(dvOff))
		b, err := Bucket(int64(dvSize))
		if err == nil {
			insertBucketHead(s, ah, b, dvOff, int64(dvSize), prevFree)
			setSuccessorPrevFree(data, dvOff, int64(dvSize), true)
		}
		ah.SetDV(0, 0)
	}

	begin := entry.Offset
	markSpecialUsed(data, begin, layout.MinVarlenObjSize, false, layout.SpecialGInt1Start)

	mid := begin + layout.MinVarlenObjSize
	midSize := entry.Size - 2*layout.MinVarlenObjSize
	markSpecialUsed(data, mid, midSize, false, layout.SpecialGInt1DV)
	ah.SetDV(uint64(mid), uint64(midSize))

	end := mid + midSize
	markSpecialUsed(data, end, layout.MinVarlenObjSize, false, layout.SpecialGInt1End)
}

// extendVar carves a new sub-area at least large enough to satisfy a
// minBytes request plus both sentinels, doubling the standard initial
// size until it fits, and installs it via initVarSubarea.
func extendVar(s *segment.Segment, ah segment.AreaHeader, minBytes int64) error {
	if ah.LastSubareaIndex()+1 >= layout.SubareaArraySize {
		return ErrNoSpace
	}

	lowerBound := minBytes + layout.SubareaAlignmentBytes + 2*layout.MinVarlenObjSize
	newSize := int64(layout.InitialSubareaSize)
	for newSize < lowerBound {
		newSize *= 2
	}

	entry, err := ah.GrowArea(newSize)
	if err != nil {
		idx := ah.LastSubareaIndex()
		if idx < 0 {
			return ErrNoSpace
		}
		prevSize := ah.SubareaEntry(idx).Size
		if prevSize < lowerBound {
			return ErrNoSpace
		}
		entry, err = ah.GrowArea(prevSize)
		if err != nil {
			return ErrNoSpace
		}
	}

	initVarSubarea(s, ah, entry)
	return nil
}

// splitFree removes a free block already unlinked from its bucket,
// writes the allocated head of used bytes, and reinstalls the remainder
// as a fresh free object in its own bucket. The tail never becomes the
// designated victim — only extension and free-time promotion do that.
func splitFree(s *segment.Segment, ah segment.AreaHeader, off uint64, blockSize, used int64) Offset {
	data := s.Bytes()
	tailOff := off + uint64(used)
	tailSize := blockSize - used

	writeHeader(data, int64(off), used, false, false)

	tailBucket, err := Bucket(tailSize)
	if err != nil {
		diag.Errorf("alloc: split produced an oversized tail of %d bytes", tailSize)
		return off
	}
	insertBucketHead(s, ah, tailBucket, tailOff, tailSize, false)
	return off
}

// AllocVar carves a variable-length object of wordCount machine words
// out of area, searching exact buckets, near-exact buckets, the
// designated victim, remaining exact buckets, and log-scale buckets in
// that order before extending the area with a new sub-area and retrying.
func AllocVar(s *segment.Segment, area AreaID, wordCount int64) (Offset, error) {
	if wordCount <= 0 {
		return 0, ErrInvalidSize
	}
	ah := s.Area(area)
	if ah.FixedLength() {
		return 0, ErrBadArea
	}

	used := wordCount * layout.WordSize
	if used < layout.MinVarlenObjSize {
		used = layout.MinVarlenObjSize
	}

	return allocVarSized(s, ah, used)
}

func allocVarSized(s *segment.Segment, ah segment.AreaHeader, used int64) (Offset, error) {
	data := s.Bytes()

	// Exact small bucket.
	if used < layout.ExactBucketsNr {
		if head := ah.FreeBucket(int(used)); head != 0 {
			removeBucketNode(s, head)
			consumeWholeFree(data, head, used)
			return head, nil
		}

		// Near-exact buckets: scan at most three slots above used.
		limit := used + 3
		if limit >= layout.ExactBucketsNr {
			limit = layout.ExactBucketsNr - 1
		}
		for b := used + 1; b <= limit; b++ {
			head := ah.FreeBucket(int(b))
			if head == 0 {
				continue
			}
			size, _, _ := readHeader(data, int64(head))
			if size >= used+layout.MinVarlenObjSize {
				removeBucketNode(s, head)
				return splitFree(s, ah, head, size, used), nil
			}
		}
	}

	// Designated victim.
	if dvOff, dvSize := ah.DV(); dvSize > 0 && used <= int64(dvSize) {
		if used == int64(dvSize) {
			_, _, prevFree := readHeader(data, int64(dvOff))
			ah.SetDV(0, 0)
			writeHeader(data, int64(dvOff), used, false, prevFree)
			// Clear the DV marker so the returned object does not read
			// as special-used.
			writeSentinel(data, int64(dvOff), 0)
			return dvOff, nil
		}
		if used+layout.MinVarlenObjSize <= int64(dvSize) {
			_, _, prevFree := readHeader(data, int64(dvOff))
			tailOff := dvOff + uint64(used)
			tailSize := int64(dvSize) - used
			writeHeader(data, int64(dvOff), used, false, prevFree)
			writeSentinel(data, int64(dvOff), 0)
			markSpecialUsed(data, int64(tailOff), tailSize, false, layout.SpecialGInt1DV)
			ah.SetDV(tailOff, uint64(tailSize))
			return dvOff, nil
		}
	}

	// Remaining exact small buckets, scanned for a splittable block.
	if used < layout.ExactBucketsNr {
		for b := used + 4; b < layout.ExactBucketsNr; b++ {
			head := ah.FreeBucket(int(b))
			if head == 0 {
				continue
			}
			size, _, _ := readHeader(data, int64(head))
			if size >= used+layout.MinVarlenObjSize {
				removeBucketNode(s, head)
				return splitFree(s, ah, head, size, used), nil
			}
		}
	}

	// Log-scale buckets from bucket(used) upward.
	if start, err := Bucket(used); err == nil {
		lo := start
		if lo < layout.ExactBucketsNr {
			lo = layout.ExactBucketsNr
		}
		for b := lo; b < layout.ExactBucketsNr+layout.VarBucketsNr; b++ {
			cur := ah.FreeBucket(b)
			for cur != 0 {
				size, _, _ := readHeader(data, int64(cur))
				next := readNext(data, int64(cur))
				if size == used {
					removeBucketNode(s, cur)
					consumeWholeFree(data, cur, used)
					return cur, nil
				}
				if size >= used+layout.MinVarlenObjSize {
					removeBucketNode(s, cur)
					return splitFree(s, ah, cur, size, used), nil
				}
				cur = next
			}
		}
	}

	// Grow and retry from the top; the new designated victim guarantees
	// success unless used itself is unsatisfiable.
	if err := extendVar(s, ah, used); err != nil {
		diag.Errorf("alloc: extend_var failed for %d bytes: %v", used, err)
		return 0, err
	}
	return allocVarSized(s, ah, used)
}

// belongsToArea reports whether off falls inside one of area's carved
// sub-area spans. A caller-supplied offset that doesn't is not a db
// address at all, let alone a live one, and must never be interpreted as
// a boundary tag.
func belongsToArea(ah segment.AreaHeader, off uint64) bool {
	o := int64(off)
	for i := 0; i <= ah.LastSubareaIndex(); i++ {
		e := ah.SubareaEntry(i)
		if o >= e.Offset && o < e.Offset+e.Size {
			return true
		}
	}
	return false
}

// FreeVar returns a previously allocated variable-length object to area,
// merging with free or designated-victim neighbors in both directions
// and promoting the freed region to designated victim when it grows
// larger than the current one.
func FreeVar(s *segment.Segment, area AreaID, off Offset) error {
	ah := s.Area(area)
	if ah.FixedLength() {
		return ErrBadArea
	}
	if !belongsToArea(ah, off) {
		diag.Errorf("alloc: free_var(%s, %d): not a db address", area, off)
		return ErrBadRef
	}
	// An object already absorbed into the designated victim was freed
	// before; its stale header would otherwise still read as used.
	if dvOff, dvSize := ah.DV(); dvSize > 0 && off >= dvOff && off < dvOff+dvSize {
		diag.Errorf("alloc: double free at offset %d", off)
		return ErrAlreadyFree
	}
	data := s.Bytes()

	size, free, prevFree := readHeader(data, int64(off))
	if free {
		diag.Errorf("alloc: double free at offset %d", off)
		return ErrAlreadyFree
	}
	if size < layout.MinVarlenObjSize {
		return ErrInvalidSize
	}

	curOff, curSize := off, size

	// Backward merge.
	if prevFree {
		predFooterOff := int64(curOff) - layout.WordSize
		predSize, predFree, predPrevFree := unpackTag(layout.ReadU64(data, predFooterOff))
		predOff := int64(curOff) - predSize
		hSize, hFree, _ := readHeader(data, predOff)
		if hSize != predSize || !hFree || !predFree {
			diag.Errorf("alloc: boundary tag mismatch merging predecessor at offset %d", predOff)
			return ErrCorruption
		}
		removeBucketNode(s, uint64(predOff))
		curOff = uint64(predOff)
		curSize = predSize + curSize
		prevFree = predPrevFree
	} else if dvOff, dvSize := ah.DV(); dvSize > 0 && dvOff+dvSize == curOff {
		_, _, dvPrevFree := readHeader(data, int64(dvOff))
		curOff = dvOff
		curSize = int64(dvSize) + curSize
		ah.SetDV(0, 0)
		markSpecialUsed(data, int64(curOff), curSize, dvPrevFree, layout.SpecialGInt1DV)
		ah.SetDV(curOff, uint64(curSize))
		return nil
	}

	// Forward merge.
	succOff := int64(curOff) + curSize
	succSize, succFree, _ := readHeader(data, succOff)
	switch {
	case succFree:
		removeBucketNode(s, uint64(succOff))
		curSize += succSize
	default:
		if dvOff, dvSize := ah.DV(); dvSize > 0 && dvOff == uint64(succOff) {
			curSize += int64(dvSize)
			ah.SetDV(0, 0)
			markSpecialUsed(data, int64(curOff), curSize, prevFree, layout.SpecialGInt1DV)
			ah.SetDV(curOff, uint64(curSize))
			return nil
		}
		if sentinel := readSentinel(data, succOff); sentinel != layout.SpecialGInt1End {
			setSuccessorPrevFree(data, curOff, curSize, true)
		}
	}

	// Promote to designated victim if the merged region now beats it.
	if oldDVOff, oldDVSize := ah.DV(); curSize > int64(oldDVSize) {
		markSpecialUsed(data, int64(curOff), curSize, prevFree, layout.SpecialGInt1DV)
		ah.SetDV(curOff, uint64(curSize))
		if oldDVSize > 0 {
			_, _, oldPrevFree := readHeader(data, int64(oldDVOff))
			b, err := Bucket(int64(oldDVSize))
			if err == nil {
				insertBucketHead(s, ah, b, oldDVOff, int64(oldDVSize), oldPrevFree)
			}
			setSuccessorPrevFree(data, oldDVOff, int64(oldDVSize), true)
		}
		setSuccessorPrevFree(data, curOff, curSize, false)
		return nil
	}

	b, err := Bucket(curSize)
	if err != nil {
		diag.Errorf("alloc: merged free object of %d bytes has no bucket", curSize)
		return err
	}
	insertBucketHead(s, ah, b, curOff, curSize, prevFree)
	return nil
}
