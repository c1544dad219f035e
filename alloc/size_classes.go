package alloc

import (
	"math"

	"github.com/shuiping150/whitedb/internal/layout"
)

// Bucket computes the free-bucket index a variable-length object of the
// given byte size belongs to:
//
//   - size < ExactBucketsNr: one bucket per exact byte size, bucket == size.
//   - size >= ExactBucketsNr: ExactBucketsNr + floor(log2(size / ExactBucketsNr)),
//     capped at VarBucketsNr-1; sizes beyond the cap are oversized.
//
// Bucket is monotone non-decreasing in size.
func Bucket(size int64) (int, error) {
	if size <= 0 {
		return -1, ErrInvalidSize
	}
	if size < layout.ExactBucketsNr {
		return int(size), nil
	}

	ratio := float64(size) / float64(layout.ExactBucketsNr)
	b := layout.ExactBucketsNr + int(math.Floor(math.Log2(ratio)))
	if b > layout.ExactBucketsNr+layout.VarBucketsNr-1 {
		return -1, ErrInvalidSize
	}
	return b, nil
}
