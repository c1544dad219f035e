package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuiping150/whitedb/internal/layout"
)

func TestBucket_ExactSizesMapToThemselves(t *testing.T) {
	for size := int64(1); size < layout.ExactBucketsNr; size++ {
		b, err := Bucket(size)
		require.NoError(t, err)
		require.Equal(t, int(size), b)
	}
}

func TestBucket_RejectsNonPositiveSize(t *testing.T) {
	_, err := Bucket(0)
	require.ErrorIs(t, err, ErrInvalidSize)
	_, err = Bucket(-8)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBucket_IsMonotonicNonDecreasing(t *testing.T) {
	prev, err := Bucket(1)
	require.NoError(t, err)
	for size := int64(2); size < 1<<20; size *= 2 {
		b, err := Bucket(size)
		require.NoError(t, err)
		require.GreaterOrEqual(t, b, prev)
		prev = b
	}
}

func TestBucket_RejectsSizesBeyondTheLargestBucket(t *testing.T) {
	huge := int64(layout.ExactBucketsNr) << (layout.VarBucketsNr + 4)
	_, err := Bucket(huge)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBucket_LogScaleBucketsStayWithinRange(t *testing.T) {
	for size := int64(layout.ExactBucketsNr); size < int64(layout.ExactBucketsNr)<<20; size *= 3 {
		b, err := Bucket(size)
		if err != nil {
			continue
		}
		require.GreaterOrEqual(t, b, layout.ExactBucketsNr)
		require.Less(t, b, layout.ExactBucketsNr+layout.VarBucketsNr)
	}
}
