package segment

import (
	"github.com/shuiping150/whitedb/internal/layout"
)

// InitHashSubarea carves a zero-filled word array of arrayLength entries
// for the string-interning hash table and records its bounds in the
// hash-area header. It does not populate any entries — that is the
// string interner's job, out of this package's scope.
func (s *Segment) InitHashSubarea(arrayLength int64) (offset int64, err error) {
	size := arrayLength * layout.WordSize
	if size < layout.MinimalSubareaSize {
		size = layout.MinimalSubareaSize
	}
	off, err := s.Carve(size)
	if err != nil {
		return 0, err
	}

	for i := int64(0); i < arrayLength; i++ {
		layout.PutU64(s.data, off+i*layout.WordSize, 0)
	}

	layout.PutU64(s.data, layout.HashHdrOffsetOffset, uint64(off))
	layout.PutU64(s.data, layout.HashHdrSizeOffset, uint64(size))
	layout.PutU64(s.data, layout.HashHdrArrayLengthOffset, uint64(arrayLength))
	layout.PutU64(s.data, layout.HashHdrArrayStartOffset, uint64(off))
	return off, nil
}

// HashArrayStart returns the byte offset of the first hash-table slot.
func (s *Segment) HashArrayStart() uint64 { return layout.ReadU64(s.data, layout.HashHdrArrayStartOffset) }

// HashArrayLength returns the number of slots in the hash table.
func (s *Segment) HashArrayLength() uint64 {
	return layout.ReadU64(s.data, layout.HashHdrArrayLengthOffset)
}
