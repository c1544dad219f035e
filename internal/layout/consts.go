// Package layout houses the binary layout of a segment: byte offsets for
// the segment header, area headers, sub-area entries, and the hash-area
// header, plus the small set of zero-copy accessors used to read and write
// them. It mirrors the on-disk word width and sentinel encodings a real
// segment would use so the layout stays stable if re-mapped at a different
// base address.
package layout

// WordSize is the engine word W, fixed at 8 bytes (uint64) for this
// implementation. Every aligned quantity in the segment is a multiple of
// WordSize.
const WordSize = 8

const (
	// MagicMark identifies an initialized segment header.
	MagicMark uint64 = 0x57484954_44425347 // "WHITDBSG"

	// Version is the on-disk segment format version this package writes
	// and expects to read.
	Version uint64 = 1
)

const (
	// SubareaAlignmentBytes is the alignment every sub-area's
	// AlignedOffset and AlignedSize, and the segment bump pointer, must
	// satisfy.
	SubareaAlignmentBytes = 4096

	// MinVarlenObjSize is the minimum total size (header + next + prev +
	// footer) of a variable-length object.
	MinVarlenObjSize = 32

	// MinimalSubareaSize is the smallest sub-area `carve` will accept.
	MinimalSubareaSize = 4096

	// InitialSubareaSize is the size of the first sub-area carved for a
	// frequently used area. It is carved on the area's first allocation,
	// not at segment bootstrap; variable-length areas double it until a
	// request fits.
	InitialSubareaSize = 8192

	// SubareaArraySize bounds how many sub-areas a single area can grow
	// into before allocation reports capacity exhausted.
	SubareaArraySize = 8

	// ExactBucketsNr is the number of exact-size free buckets
	// (freebuckets[0..ExactBucketsNr-1]), one per byte size class.
	ExactBucketsNr = 64

	// VarBucketsNr is the number of log-scale free buckets above
	// ExactBucketsNr.
	VarBucketsNr = 32

	// CacheBucketsNr is the number of cache slots at the end of
	// freebuckets: DVBUCKET and DVSIZEBUCKET.
	CacheBucketsNr = 2

	// DVBucket is the freebuckets index holding the designated victim's
	// offset.
	DVBucket = ExactBucketsNr + VarBucketsNr

	// DVSizeBucket is the freebuckets index holding the designated
	// victim's byte size.
	DVSizeBucket = DVBucket + 1

	// FreeBucketsLen is the total length of an area's freebuckets array.
	FreeBucketsLen = ExactBucketsNr + VarBucketsNr + CacheBucketsNr

	// ShortstrSize is the fixed object size of the shortstr area.
	ShortstrSize = 16

	// TreeNodeSize is the fixed object size of the tnode area.
	TreeNodeSize = 64

	// IndexHeaderSize is the fixed object size of the indexhdr area.
	IndexHeaderSize = 48

	// InitialStrHashLength is the number of zero words carved for the
	// string-interning hash table at bootstrap.
	InitialStrHashLength = 1024

	// SynVarPadding and MaxLocks size the opaque synchronization block
	// bootstrap reserves; the allocator never interprets these bytes.
	SynVarPadding = 16
	MaxLocks      = 16

	// MaxIndexedFieldNr sizes the opaque index-control block; the
	// allocator never interprets these bytes.
	MaxIndexedFieldNr = 32
)

// Sentinel word values stored in a special-used variable-length object's
// second word. These encodings are part of the persisted format — tests
// check them directly.
const (
	SpecialGInt1Start uint64 = 0x53545254_42474e31 // sub-area begin marker
	SpecialGInt1End   uint64 = 0x454e4421_42474e31 // sub-area end marker
	SpecialGInt1DV    uint64 = 0x44562121_42474e31 // designated victim marker
)

// AreaID enumerates the fixed-order areas embedded in the segment header.
type AreaID uint8

const (
	AreaDatarec AreaID = iota
	AreaLongstr
	AreaListcell
	AreaShortstr
	AreaWord
	AreaDoubleword
	AreaTnode
	AreaIndexhdr
	areaCount
)

// AreaCount is the number of embedded areas.
const AreaCount = int(areaCount)

// IsVarLength reports whether the area holds variable-length objects.
func (a AreaID) IsVarLength() bool {
	return a == AreaDatarec || a == AreaLongstr
}

// ObjLength returns the fixed-length object size for fixed areas, or 0 for
// variable-length areas (where ObjLength is meaningless).
func (a AreaID) ObjLength() int64 {
	switch a {
	case AreaListcell:
		return 2 * WordSize
	case AreaShortstr:
		return ShortstrSize
	case AreaWord:
		return WordSize
	case AreaDoubleword:
		return 2 * WordSize
	case AreaTnode:
		return TreeNodeSize
	case AreaIndexhdr:
		return IndexHeaderSize
	default:
		return 0
	}
}

// String names an area for diagnostics.
func (a AreaID) String() string {
	switch a {
	case AreaDatarec:
		return "datarec"
	case AreaLongstr:
		return "longstr"
	case AreaListcell:
		return "listcell"
	case AreaShortstr:
		return "shortstr"
	case AreaWord:
		return "word"
	case AreaDoubleword:
		return "doubleword"
	case AreaTnode:
		return "tnode"
	case AreaIndexhdr:
		return "indexhdr"
	default:
		return "unknown-area"
	}
}

// ---- Segment header layout ----
//
// All offsets are absolute byte offsets from the segment base.

const (
	// SegHeaderMagicOffset .. SegHeaderFreeOffset are the fixed segment
	// header scalar fields, in bootstrap order.
	SegHeaderMagicOffset          = 0
	SegHeaderVersionOffset        = SegHeaderMagicOffset + WordSize
	SegHeaderTotalSizeOffset      = SegHeaderVersionOffset + WordSize
	SegHeaderInitialAddressOffset = SegHeaderTotalSizeOffset + WordSize
	SegHeaderOwnerKeyOffset       = SegHeaderInitialAddressOffset + WordSize
	SegHeaderParentOffsetOffset   = SegHeaderOwnerKeyOffset + WordSize
	SegHeaderFreeOffset           = SegHeaderParentOffsetOffset + WordSize

	// areaHeadersBase is where the first embedded AreaHeader begins.
	areaHeadersBase = SegHeaderFreeOffset + WordSize
)

// ---- Area header layout (relative to an area's own base offset) ----

const (
	AreaHdrFixedLengthOffset     = 0
	AreaHdrObjLengthOffset       = AreaHdrFixedLengthOffset + WordSize
	AreaHdrLastSubareaIdxOffset  = AreaHdrObjLengthOffset + WordSize
	areaHdrSubareaArrayOffset    = AreaHdrLastSubareaIdxOffset + WordSize
	subareaEntrySize             = 4 * WordSize // size, offset, alignedOffset, alignedSize
	areaHdrSubareaArrayLen       = SubareaArraySize * subareaEntrySize
	areaHdrBucketsOrFreelistBase = areaHdrSubareaArrayOffset + areaHdrSubareaArrayLen

	// AreaHdrFreelistOffset is where a fixed-length area stores its
	// single free-list head (word-sized, relative to the area base).
	AreaHdrFreelistOffset = areaHdrBucketsOrFreelistBase

	// AreaHdrFreeBucketsOffset is where a variable-length area's
	// freebuckets array begins (relative to the area base).
	AreaHdrFreeBucketsOffset = areaHdrBucketsOrFreelistBase

	// AreaHeaderSize is the total fixed size of one embedded area
	// header (large enough for either a fixed area's freelist word or a
	// variable area's full freebuckets array).
	AreaHeaderSize = areaHdrBucketsOrFreelistBase + FreeBucketsLen*WordSize
)

// AreaBase returns the absolute offset of the given area's header within
// the segment.
func AreaBase(area AreaID) int64 {
	return areaHeadersBase + int64(area)*AreaHeaderSize
}

// SubareaEntryOffset returns the absolute offset of sub-area entry `idx`
// within the given area's sub-area array.
func SubareaEntryOffset(area AreaID, idx int) int64 {
	return AreaBase(area) + areaHdrSubareaArrayOffset + int64(idx)*subareaEntrySize
}

const (
	subareaEntrySizeOffset         = 0
	subareaEntryOffsetOffset       = subareaEntrySizeOffset + WordSize
	subareaEntryAlignedOffOffset   = subareaEntryOffsetOffset + WordSize
	subareaEntryAlignedSizeOffset  = subareaEntryAlignedOffOffset + WordSize
)

// ---- Hash-area header layout ----

const (
	hashAreaBase              = areaHeadersBase + int64(areaCount)*AreaHeaderSize
	HashHdrOffsetOffset       = hashAreaBase + 0*WordSize
	HashHdrSizeOffset         = hashAreaBase + 1*WordSize
	HashHdrArrayLengthOffset  = hashAreaBase + 2*WordSize
	HashHdrArrayStartOffset   = hashAreaBase + 3*WordSize
	hashAreaHeaderSize        = 4 * WordSize
)

// ---- Opaque blocks (synchronization, index control, logging) ----
//
// The allocator only reserves and zeroes this space at bootstrap; the
// fields inside are interpreted by collaborators outside this module
// (synchronization, index bookkeeping, logging).

const (
	syncBlockBase  = hashAreaBase + hashAreaHeaderSize
	SyncBlockSize  = SynVarPadding * (MaxLocks + 1)

	// IndexBlockOffset is the absolute offset of the opaque index-control
	// block, zeroed at bootstrap and otherwise untouched by this package.
	IndexBlockOffset = syncBlockBase + SyncBlockSize
	indexBlockBase    = IndexBlockOffset
	IndexBlockSize    = MaxIndexedFieldNr * WordSize

	loggingBlockBase = indexBlockBase + IndexBlockSize

	// LoggingHdrSubareaOffsetOffset .. LoggingHdrFileOpenOffset are the
	// four fields `init_segment` step (g) initializes.
	LoggingHdrSubareaOffsetOffset = loggingBlockBase + 0*WordSize
	LoggingHdrCounterOffset       = loggingBlockBase + 1*WordSize
	LoggingHdrEnabledOffset       = loggingBlockBase + 2*WordSize
	LoggingHdrFileOpenOffset      = loggingBlockBase + 3*WordSize
	loggingBlockSize              = 4 * WordSize
)

// SegmentHeaderSize is the total byte size of the segment header, every
// embedded area header, the hash-area header, and the opaque blocks —
// everything that must exist before the first sub-area can be carved.
const SegmentHeaderSize = loggingBlockBase + loggingBlockSize
