package segment

// NewChild would create a nested segment sharing this segment's backing
// buffer and link it via ParentOffset/SetParent. Nested segments were
// never finished upstream and the creation path shipped disabled; this
// port keeps the linkage primitives (ParentOffset, SetParent) available
// for a host that wants to build the feature, but does not implement the
// allocation and teardown policy a real child segment needs, so NewChild
// reports ErrNotImplemented rather than return a half-working segment.
func NewChild(parent *Segment, data []byte, ownerKey uint64) (*Segment, error) {
	_ = parent
	_ = data
	_ = ownerKey
	return nil, ErrNotImplemented
}
