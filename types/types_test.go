package types

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestWordSizeMatchesPointerWidth(t *testing.T) {
	require.Equal(t, int(unsafe.Sizeof(uintptr(0))), WordSize)
}

func TestWordInt(t *testing.T) {
	require.Equal(t, int64(42), Word(42).Int())
	require.Equal(t, int64(-1), Word(^uintptr(0)).Int())
}

func TestArgVariants(t *testing.T) {
	a := IntArg(-7)
	require.Equal(t, KindInteger, a.Kind)
	require.Equal(t, int64(-7), a.Word().Int())

	p := PtrArg(Word(0xdead))
	require.Equal(t, KindPointer, p.Kind)
	require.Equal(t, Word(0xdead), p.Word())

	u := UnsupportedArg()
	require.Equal(t, KindUnsupported, u.Kind)
}

func TestChecksumString(t *testing.T) {
	require.Equal(t, "00ff10", Checksum{0x00, 0xff, 0x10}.String())
}
