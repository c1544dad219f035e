// Package alloc implements the two memory pools carved out of a
// segment's areas: a fixed-length pool with a per-area LIFO free list,
// and a variable-length pool with segregated-fit free buckets, a
// designated-victim cache slot, and boundary-tag coalescing.
//
// Package segment owns geography — bootstrap, the bump pointer, and the
// sub-area table — and knows nothing about free lists or object tags.
// This package owns everything that gives that geography meaning: where
// free cells chain together, how a variable-length object's header and
// footer are packed, and when two free neighbors merge.
package alloc
