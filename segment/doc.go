// Package segment is the bootstrap and addressing layer beneath the
// fixed-length and variable-length pools in package alloc.
//
// A Segment wraps a single caller-supplied byte slice — typically backed
// by a shared memory mapping acquired through internal/segfile, but
// Segment itself is agnostic to where the bytes come from. Every
// quantity a Segment persists is a byte offset relative to its own base,
// never a pointer, so the same segment can be re-mapped at a different
// base address across processes or restarts without patching its
// contents.
//
// Init lays out the segment header, the fixed-order area headers, the
// string-hash table, and the opaque synchronization/index/logging
// blocks. Carve and AreaHeader.GrowArea are the only ways new space ever
// leaves the segment's bump pointer; neither one interprets the bytes it
// hands back, leaving free-list and boundary-tag bookkeeping to package
// alloc.
package segment
