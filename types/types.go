package types

import (
	"encoding/hex"
	"unsafe"
)

// Word is the native machine word of the executing CPU. It is the unit of
// exchange across the FFI boundary and is wide enough to hold either an
// integer or a pointer.
type Word uintptr

// WordSize is the exact byte width of a Word on this CPU.
const WordSize = int(unsafe.Sizeof(Word(0)))

// Int reinterprets the word as a signed integer, which is how native call
// results are usually consumed.
func (w Word) Int() int64 {
	return int64(w)
}

// ByteBuffer is an indexable sequence of bytes. It is the only interface the
// core uses to talk to host-managed byte storage, so hosts with their own
// object representation just supply an adapter.
//
// All index arguments must be in [0, Len()); violations fail with
// IndexOutOfRange rather than wrapping or extending.
type ByteBuffer interface {
	Len() int
	Get(index int) (byte, error)
	Set(index int, value byte) error
}

// ArgKind discriminates the payload of an Arg.
type ArgKind int

const (
	// KindInteger is a plain integer argument.
	KindInteger ArgKind = iota
	// KindPointer is a pointer-sized argument (a block or context address).
	KindPointer
	// KindUnsupported marks a host value the bridge cannot marshal.
	KindUnsupported
)

// Arg is one positional argument for a native call. Exactly one payload
// field is meaningful, selected by Kind.
type Arg struct {
	Kind ArgKind
	Int  int64
	Ptr  Word
}

// IntArg wraps an integer for a native call.
func IntArg(v int64) Arg {
	return Arg{Kind: KindInteger, Int: v}
}

// PtrArg wraps a pointer-sized value for a native call.
func PtrArg(p Word) Arg {
	return Arg{Kind: KindPointer, Ptr: p}
}

// UnsupportedArg marks a host value that has no native representation.
// Passing one to the bridge fails with UnsupportedArgumentType.
func UnsupportedArg() Arg {
	return Arg{Kind: KindUnsupported}
}

// Word returns the argument's payload as a native word.
func (a Arg) Word() Word {
	if a.Kind == KindPointer {
		return a.Ptr
	}
	return Word(a.Int)
}

// Checksum identifies a stored machine-code blob (sha256 of the bytes).
type Checksum []byte

func (c Checksum) String() string {
	return hex.EncodeToString(c)
}

// Metrics is a snapshot of bridge activity counters.
type Metrics struct {
	BlocksAllocated uint64 `json:"blocks_allocated"`
	BlocksFreed     uint64 `json:"blocks_freed"`
	BytesMapped     uint64 `json:"bytes_mapped"`
	Invocations     uint64 `json:"invocations"`
	NativeCalls     uint64 `json:"native_calls"`
}
