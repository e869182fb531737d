package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			"allocation",
			AllocationError{Size: 4096, Msg: "cannot allocate"},
			"cannot allocate block of 4096 bytes: cannot allocate",
		},
		{
			"index",
			IndexOutOfRange{Index: 8, Length: 8},
			"index 8 out of range for block of length 8",
		},
		{
			"size",
			SizeMismatch{Expected: 8, Actual: 3},
			"encoded value must be exactly 8 bytes, got 3",
		},
		{
			"value",
			ValueOutOfRange{Index: 2, Value: 256},
			"value 256 at index 2 outside of byte range",
		},
		{
			"arity",
			UnsupportedArity{Arity: 4, Max: 3},
			"unsupported argument count 4, bridge supports 0 to 3",
		},
		{
			"argument type",
			UnsupportedArgumentType{Index: 1},
			"unsupported argument type at position 1",
		},
		{
			"not found",
			NotFound{Name: "printHello"},
			"native function not found: printHello",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestToBridgeError(t *testing.T) {
	be := ToBridgeError(SizeMismatch{Expected: 8, Actual: 2})
	require.NotNil(t, be)
	require.NotNil(t, be.Size)
	require.Nil(t, be.Arity)
	require.Equal(t, "encoded value must be exactly 8 bytes, got 2", be.Error())

	be = ToBridgeError(&NotFound{Name: "foo"})
	require.NotNil(t, be)
	require.NotNil(t, be.Function)

	// unknown errors are not contract violations and stay unconverted
	require.Nil(t, ToBridgeError(errors.New("some io failure")))
	require.Nil(t, ToBridgeError(nil))
}

func TestBridgeErrorVariants(t *testing.T) {
	variants := []error{
		AllocationError{Size: 1},
		InvalidHandle{Msg: "freed"},
		IndexOutOfRange{Index: 1, Length: 1},
		SizeMismatch{Expected: 8, Actual: 1},
		ValueOutOfRange{Index: 0, Value: -1},
		UnsupportedArity{Arity: 9, Max: 3},
		UnsupportedArgumentType{Index: 0},
		NotFound{Name: "x"},
		CodeNotFound{Checksum: Checksum{0x01}},
	}

	for _, v := range variants {
		be := ToBridgeError(v)
		require.NotNil(t, be, "variant %T", v)
		require.Equal(t, v.Error(), be.Error(), "variant %T", v)
	}

	require.Equal(t, "unknown error variant", BridgeError{}.Error())
}
