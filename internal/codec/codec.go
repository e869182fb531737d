// Package codec converts native fixed-width values (machine words, block
// addresses, function addresses) to and from byte sequences. This is the
// single place where pointers and integers cross between host values and
// the native address space, so every conversion is width-checked instead of
// blind-cast: a decode either consumes exactly one word worth of bytes or
// fails, never partially.
//
// Byte order is the CPU's own. No endianness translation happens anywhere;
// the encoded form is the in-memory layout of the value, byte by byte.
package codec

import (
	"unsafe"

	"github.com/mcbridge/mcvm/types"
)

// EncodeWord produces the native byte layout of w: exactly
// types.WordSize bytes, native order.
func EncodeWord(w types.Word) []byte {
	out := make([]byte, types.WordSize)
	src := (*[types.WordSize]byte)(unsafe.Pointer(&w))
	copy(out, src[:])
	return out
}

// DecodeWord reinterprets exactly one word worth of bytes as a native
// value. A source of any other length fails with SizeMismatch.
func DecodeWord(data []byte) (types.Word, error) {
	if len(data) != types.WordSize {
		return 0, types.SizeMismatch{Expected: types.WordSize, Actual: len(data)}
	}
	var w types.Word
	dst := (*[types.WordSize]byte)(unsafe.Pointer(&w))
	copy(dst[:], data)
	return w, nil
}

// DecodeWordBuffer is DecodeWord over the abstract buffer capability, for
// hosts that hand encoded values over as indexable objects rather than
// byte slices.
func DecodeWordBuffer(buf types.ByteBuffer) (types.Word, error) {
	if buf.Len() != types.WordSize {
		return 0, types.SizeMismatch{Expected: types.WordSize, Actual: buf.Len()}
	}
	data := make([]byte, types.WordSize)
	for i := range data {
		b, err := buf.Get(i)
		if err != nil {
			return 0, err
		}
		data[i] = b
	}
	return DecodeWord(data)
}

// DecodeWordValues decodes a word from host numbers that are nominally
// bytes. The source representation does not guarantee a true byte type, so
// each element is checked against [0, 255] and rejected with
// ValueOutOfRange before any reinterpretation happens.
func DecodeWordValues(values []int64) (types.Word, error) {
	if len(values) != types.WordSize {
		return 0, types.SizeMismatch{Expected: types.WordSize, Actual: len(values)}
	}
	data := make([]byte, types.WordSize)
	for i, v := range values {
		if v < 0 || v > 255 {
			return 0, types.ValueOutOfRange{Index: i, Value: v}
		}
		data[i] = byte(v)
	}
	return DecodeWord(data)
}
