package vector

import (
	"math/bits"
	"testing"

	"github.com/openacid/low/bitmap"
	"github.com/stretchr/testify/require"
)

func buildBits(t *testing.T, bits []bool) *BitVector {
	b := NewBitVector()
	for _, bit := range bits {
		b.PushBack(bit)
	}
	require.NoError(t, b.Build(true, true))
	return b
}

func TestBitVectorRankSelectBasic(t *testing.T) {
	bv := buildBits(t, []bool{true, false, true, true, false, false, true})
	require.Equal(t, 7, bv.Size())
	require.Equal(t, 4, bv.NumOnes())
	require.Equal(t, 3, bv.NumZeros())

	require.Equal(t, 0, bv.Rank1(0))
	require.Equal(t, 1, bv.Rank1(1))
	require.Equal(t, 1, bv.Rank1(2))
	require.Equal(t, 4, bv.Rank1(7))
	require.Equal(t, 3, bv.Rank0(7))

	require.Equal(t, 0, bv.Select1(0))
	require.Equal(t, 2, bv.Select1(1))
	require.Equal(t, 3, bv.Select1(2))
	require.Equal(t, 6, bv.Select1(3))

	require.Equal(t, 1, bv.Select0(0))
	require.Equal(t, 4, bv.Select0(1))
	require.Equal(t, 5, bv.Select0(2))
}

// TestBitVectorAgainstOpenacidLow cross-checks Rank1/Select1 against
// openacid/low/bitmap's rank64/select64 on the same random bit patterns.
func TestBitVectorAgainstOpenacidLow(t *testing.T) {
	sizes := []int{1, 7, 63, 64, 65, 511, 512, 513, 4097}
	seed := uint64(0x2545F4914F6CDD1D)
	next := func() uint64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return seed
	}

	for _, size := range sizes {
		bits_ := make([]bool, size)
		var words []uint64
		numOnes := 0
		for i := 0; i < size; i++ {
			bit := next()&1 == 1
			bits_[i] = bit
			if bit {
				numOnes++
				for i/64 >= len(words) {
					words = append(words, 0)
				}
				words[i/64] |= uint64(1) << uint(i%64)
			}
		}

		ours := buildBits(t, bits_)
		selects, ranks := bitmap.IndexSelect32R64(words)

		for i := 0; i <= size; i++ {
			want, _ := bitmap.Rank64(words, ranks, int32(i))
			require.Equalf(t, int(want), ours.Rank1(i), "size=%d rank1(%d)", size, i)
		}
		for k := 0; k < numOnes; k++ {
			want, _ := bitmap.Select32R64(words, selects, ranks, int32(k))
			require.Equalf(t, int(want), ours.Select1(k), "size=%d select1(%d)", size, k)
		}
	}
}

func TestBitVectorEmpty(t *testing.T) {
	bv := buildBits(t, nil)
	require.Equal(t, 0, bv.Size())
	require.Equal(t, 0, bv.Rank1(0))
}

func TestPopCountMatchesStdlib(t *testing.T) {
	vals := []uint64{0, 1, 0xFFFFFFFFFFFFFFFF, 0xDEADBEEF, 0x8000000000000001}
	for _, v := range vals {
		require.Equal(t, bits.OnesCount64(v), PopCount64(v))
	}
}
