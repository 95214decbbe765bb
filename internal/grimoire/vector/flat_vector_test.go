package vector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatVectorPacksToMinimumWidth(t *testing.T) {
	fv := BuildFromValues([]uint64{0, 1, 2, 3, 7})
	require.Equal(t, 3, fv.ValueSize())
	for i, want := range []uint64{0, 1, 2, 3, 7} {
		require.Equal(t, want, fv.Get(i))
	}
}

func TestFlatVectorEmpty(t *testing.T) {
	fv := BuildFromValues(nil)
	require.Equal(t, 0, fv.Size())
	require.Equal(t, 1, fv.ValueSize())
}

func TestFlatVectorWideValues(t *testing.T) {
	values := []uint64{1 << 20, 1, 1 << 23, 0}
	fv := BuildFromValues(values)
	require.Equal(t, 24, fv.ValueSize())
	for i, want := range values {
		require.Equal(t, want, fv.Get(i))
	}
}
