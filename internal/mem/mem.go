// Package mem owns the process memory mappings that back machine-code and
// data blocks. Every region is an anonymous, private mapping requested with
// an explicit permission class; nothing here is file-backed or shared.
package mem

import (
	"sync/atomic"
	"unsafe"

	"github.com/mcbridge/mcvm/types"
)

// Protection is the permission class of a region.
type Protection int

const (
	// ReadWrite is a plain data region. Code can never be executed from it.
	ReadWrite Protection = iota
	// ReadWriteExec is a machine-code region: writable so the host can fill
	// it byte by byte, executable so control can be transferred into it.
	ReadWriteExec
)

// Activity counters, exposed through the host-level metrics snapshot.
var (
	totalBlocksAllocated uint64
	totalBlocksFreed     uint64
	totalBytesMapped     uint64
)

// Region is one live mapping. It is exclusively owned by whoever holds the
// pointer: there is no reference counting and no finalizer, the owner must
// call Free exactly once.
type Region struct {
	data []byte
	prot Protection
}

// Alloc maps size bytes of anonymous memory with the given permission
// class. The OS default for new memory is non-executable, so executable
// regions must be requested here and nowhere else.
func Alloc(size int, prot Protection) (*Region, error) {
	if size <= 0 {
		return nil, types.AllocationError{Size: size, Msg: "size must be positive"}
	}
	data, err := mapRegion(size, prot == ReadWriteExec)
	if err != nil {
		return nil, types.AllocationError{Size: size, Msg: err.Error()}
	}
	atomic.AddUint64(&totalBlocksAllocated, 1)
	atomic.AddUint64(&totalBytesMapped, uint64(size))
	return &Region{data: data, prot: prot}, nil
}

// Free releases the mapping. The region is poisoned afterwards: any further
// Get/Set/Addr fails with InvalidHandle instead of touching the dead
// mapping. Freeing twice is a caller error and reports InvalidHandle.
func (r *Region) Free() error {
	if r == nil || r.data == nil {
		return types.InvalidHandle{Msg: "block is not live"}
	}
	data := r.data
	r.data = nil
	if err := unmapRegion(data); err != nil {
		return err
	}
	atomic.AddUint64(&totalBlocksFreed, 1)
	return nil
}

// Live reports whether the region still owns its mapping.
func (r *Region) Live() bool {
	return r != nil && r.data != nil
}

// Executable reports the permission class the region was mapped with.
func (r *Region) Executable() bool {
	return r.prot == ReadWriteExec
}

// Len returns the mapped length in bytes, or 0 after Free.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.data)
}

// Get reads one byte. The index must be in [0, Len()).
func (r *Region) Get(index int) (byte, error) {
	if !r.Live() {
		return 0, types.InvalidHandle{Msg: "block is not live"}
	}
	if index < 0 || index >= len(r.data) {
		return 0, types.IndexOutOfRange{Index: index, Length: len(r.data)}
	}
	return r.data[index], nil
}

// Set writes one byte. The index must be in [0, Len()).
func (r *Region) Set(index int, value byte) error {
	if !r.Live() {
		return types.InvalidHandle{Msg: "block is not live"}
	}
	if index < 0 || index >= len(r.data) {
		return types.IndexOutOfRange{Index: index, Length: len(r.data)}
	}
	r.data[index] = value
	return nil
}

// Addr returns the native address of the byte at index. An index equal to
// the length is past the end of the block and is rejected like any other
// out-of-range index.
func (r *Region) Addr(index int) (types.Word, error) {
	if !r.Live() {
		return 0, types.InvalidHandle{Msg: "block is not live"}
	}
	if index < 0 || index >= len(r.data) {
		return 0, types.IndexOutOfRange{Index: index, Length: len(r.data)}
	}
	return types.Word(uintptr(unsafe.Pointer(&r.data[index]))), nil
}

// Bytes exposes the mapping for bulk copies. The slice aliases the mapping
// directly and must not be retained past Free.
func (r *Region) Bytes() []byte {
	return r.data
}

// Counters returns the process-wide allocation counters.
func Counters() (allocated, freed, bytesMapped uint64) {
	return atomic.LoadUint64(&totalBlocksAllocated),
		atomic.LoadUint64(&totalBlocksFreed),
		atomic.LoadUint64(&totalBytesMapped)
}
