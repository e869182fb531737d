package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcbridge/mcvm/types"
)

func TestAllocBothClasses(t *testing.T) {
	cases := []struct {
		name string
		prot Protection
		exec bool
	}{
		{"plain", ReadWrite, false},
		{"executable", ReadWriteExec, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r, err := Alloc(64, tc.prot)
			require.NoError(t, err)
			require.True(t, r.Live())
			require.Equal(t, 64, r.Len())
			require.Equal(t, tc.exec, r.Executable())
			require.NoError(t, r.Free())
		})
	}
}

func TestAllocRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -4096} {
		_, err := Alloc(size, ReadWrite)
		var allocErr types.AllocationError
		require.ErrorAs(t, err, &allocErr, "size %d", size)
		require.Equal(t, size, allocErr.Size)
	}
}

func TestGetSetBounds(t *testing.T) {
	r, err := Alloc(4, ReadWrite)
	require.NoError(t, err)
	defer func() { _ = r.Free() }()

	for i := 0; i < 4; i++ {
		require.NoError(t, r.Set(i, byte(0x90+i)))
	}
	for i := 0; i < 4; i++ {
		b, err := r.Get(i)
		require.NoError(t, err)
		require.Equal(t, byte(0x90+i), b)
	}

	// index == length is past the end, same as any other violation
	for _, idx := range []int{-1, 4, 5, 1 << 20} {
		_, err := r.Get(idx)
		var rangeErr types.IndexOutOfRange
		require.ErrorAs(t, err, &rangeErr, "Get(%d)", idx)
		assert.Equal(t, idx, rangeErr.Index)
		assert.Equal(t, 4, rangeErr.Length)

		err = r.Set(idx, 0)
		require.ErrorAs(t, err, &rangeErr, "Set(%d)", idx)
	}
}

func TestAddr(t *testing.T) {
	r, err := Alloc(8, ReadWriteExec)
	require.NoError(t, err)
	defer func() { _ = r.Free() }()

	base, err := r.Addr(0)
	require.NoError(t, err)
	require.NotZero(t, base)

	mid, err := r.Addr(5)
	require.NoError(t, err)
	require.Equal(t, base+5, mid)

	for _, idx := range []int{-1, 8, 9} {
		_, err := r.Addr(idx)
		var rangeErr types.IndexOutOfRange
		require.ErrorAs(t, err, &rangeErr, "Addr(%d)", idx)
	}
}

func TestFreePoisonsRegion(t *testing.T) {
	r, err := Alloc(16, ReadWrite)
	require.NoError(t, err)
	require.NoError(t, r.Free())

	require.False(t, r.Live())
	require.Equal(t, 0, r.Len())

	var handleErr types.InvalidHandle
	_, err = r.Get(0)
	require.ErrorAs(t, err, &handleErr)
	err = r.Set(0, 1)
	require.ErrorAs(t, err, &handleErr)
	_, err = r.Addr(0)
	require.ErrorAs(t, err, &handleErr)

	// double free is a caller error, not a crash
	err = r.Free()
	require.ErrorAs(t, err, &handleErr)
}

func TestCounters(t *testing.T) {
	allocBefore, freedBefore, bytesBefore := Counters()

	r, err := Alloc(32, ReadWrite)
	require.NoError(t, err)
	require.NoError(t, r.Free())

	allocAfter, freedAfter, bytesAfter := Counters()
	require.Equal(t, allocBefore+1, allocAfter)
	require.Equal(t, freedBefore+1, freedAfter)
	require.Equal(t, bytesBefore+32, bytesAfter)
}

func TestFreedCounterOnlyCountsSuccessfulFrees(t *testing.T) {
	r, err := Alloc(16, ReadWrite)
	require.NoError(t, err)
	require.NoError(t, r.Free())

	_, freedBefore, _ := Counters()
	require.Error(t, r.Free())
	_, freedAfter, _ := Counters()
	require.Equal(t, freedBefore, freedAfter)
}
