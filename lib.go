// Package mcvm is a bridge between a managed host process and raw machine
// code. It allocates executable memory, lets the host fill it byte by byte
// with the output of an external compiler, transfers control into it with a
// runtime context, and calls already-compiled native functions through a
// bounded-arity FFI.
//
// Executed code runs with full native privileges. The bridge reports every
// caller-detectable contract violation as a typed error, but it is not a
// sandbox: transferring control to malformed code, or using an address
// after its block was freed, corrupts the process.
package mcvm

import (
	"go.uber.org/zap"

	"github.com/mcbridge/mcvm/internal/api"
	"github.com/mcbridge/mcvm/internal/codec"
	"github.com/mcbridge/mcvm/internal/mem"
	"github.com/mcbridge/mcvm/internal/store"
	"github.com/mcbridge/mcvm/types"
)

const (
	// MaxArity is the largest supported argument count for Call.
	MaxArity = api.MaxArity
	// HandlerSlots is the capacity of the runtime context handler table.
	HandlerSlots = api.HandlerSlots
)

// Block is a handle to one allocated memory block. It implements
// types.ByteBuffer, so the host can read and write it like any indexable
// byte sequence. The holder of the handle owns the block exclusively and
// must free it through the VM exactly once.
type Block struct {
	region *mem.Region
}

var _ types.ByteBuffer = (*Block)(nil)

// Len returns the block length in bytes, or 0 once freed.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return b.region.Len()
}

// Get reads the byte at index.
func (b *Block) Get(index int) (byte, error) {
	if b == nil {
		return 0, types.InvalidHandle{Msg: "nil block"}
	}
	return b.region.Get(index)
}

// Set writes the byte at index.
func (b *Block) Set(index int, value byte) error {
	if b == nil {
		return types.InvalidHandle{Msg: "nil block"}
	}
	return b.region.Set(index, value)
}

// Executable reports whether the block was allocated with execute
// permission.
func (b *Block) Executable() bool {
	return b != nil && b.region.Executable()
}

// Write copies data into the block starting at offset, bounds-checked as a
// whole before any byte is written.
func (b *Block) Write(offset int, data []byte) error {
	if b == nil {
		return types.InvalidHandle{Msg: "nil block"}
	}
	if !b.region.Live() {
		return types.InvalidHandle{Msg: "block is not live"}
	}
	if offset < 0 || offset+len(data) > b.region.Len() {
		return types.IndexOutOfRange{Index: offset + len(data) - 1, Length: b.region.Len()}
	}
	copy(b.region.Bytes()[offset:], data)
	return nil
}

// VM is the main entry point to this library. All operations are
// synchronous and run to completion on the calling goroutine; Execute and
// Call block for the full duration of native execution, forever if the
// code does not return. The VM does no locking of its own: a multi-threaded
// host must serialize allocate/free/execute per block itself.
type VM struct {
	config   types.VMConfig
	logger   *zap.Logger
	store    *store.CodeStore
	handlers []types.Word
}

// NewVM creates a VM. With an empty StoreDir the code store is in-memory
// only. The handler table starts with the three reference handlers in
// slots 0 to 2.
//
// The reference handlers log through a single process-wide sink, so the
// logger of the most recently constructed VM receives all handler output,
// including output triggered by code running under an earlier VM.
func NewVM(config types.VMConfig) (*VM, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	api.SetLogger(logger)

	var cs *store.CodeStore
	if config.StoreDir != "" {
		var err error
		cs, err = store.New(config.StoreDir)
		if err != nil {
			return nil, err
		}
	} else {
		cs = store.NewInMemory()
	}

	return &VM{
		config:   config,
		logger:   logger,
		store:    cs,
		handlers: api.DefaultHandlers(),
	}, nil
}

// Cleanup releases the code store. Live blocks are not tracked here and
// stay owned by their holders.
func (vm *VM) Cleanup() error {
	return vm.store.Close()
}

// AllocateExecutable maps size bytes with read, write and execute
// permission.
func (vm *VM) AllocateExecutable(size int) (*Block, error) {
	region, err := mem.Alloc(size, mem.ReadWriteExec)
	if err != nil {
		return nil, err
	}
	vm.logger.Debug("allocated executable block", zap.Int("size", size))
	return &Block{region: region}, nil
}

// AllocatePlain maps size bytes with read and write permission only. Code
// can never be executed from a plain block.
func (vm *VM) AllocatePlain(size int) (*Block, error) {
	region, err := mem.Alloc(size, mem.ReadWrite)
	if err != nil {
		return nil, err
	}
	vm.logger.Debug("allocated plain block", zap.Int("size", size))
	return &Block{region: region}, nil
}

// FreeExecutable releases an executable block. Passing a plain block, a
// freed block, or nil fails with InvalidHandle.
func (vm *VM) FreeExecutable(b *Block) error {
	if b == nil || !b.Executable() {
		return types.InvalidHandle{Msg: "not a live executable block"}
	}
	return b.region.Free()
}

// FreePlain releases a plain block. Passing an executable block, a freed
// block, or nil fails with InvalidHandle.
func (vm *VM) FreePlain(b *Block) error {
	if b == nil {
		return types.InvalidHandle{Msg: "nil block"}
	}
	if b.Executable() {
		return types.InvalidHandle{Msg: "block is executable"}
	}
	return b.region.Free()
}

// Execute transfers control to the first byte of the block, passing the
// address of a stack-scoped runtime context carrying the configured limits
// and the handler table. It returns the word result produced by the code.
//
// Precondition: the block must contain valid machine code for this CPU
// following the context-pointer-in, word-out convention. Executing anything
// else is undefined behavior.
func (vm *VM) Execute(b *Block) (types.Word, error) {
	if b == nil || !b.Executable() || !b.region.Live() {
		return 0, types.InvalidHandle{Msg: "not a live executable block"}
	}
	entry, err := b.region.Addr(0)
	if err != nil {
		return 0, err
	}
	api.SyncCode(entry, b.Len())
	result := api.Invoke(entry, vm.config.StackLimit, vm.config.HeapLimit, vm.handlers)
	vm.logger.Debug("executed block", zap.Int64("result", result.Int()))
	return result, nil
}

// BlockAddress returns the native address of the byte at index, encoded as
// a byte sequence in the native word layout. Index len(block) is past the
// end and fails with IndexOutOfRange like any other out-of-range index.
func (vm *VM) BlockAddress(b *Block, index int) ([]byte, error) {
	if b == nil {
		return nil, types.InvalidHandle{Msg: "nil block"}
	}
	addr, err := b.region.Addr(index)
	if err != nil {
		return nil, err
	}
	return codec.EncodeWord(addr), nil
}

// ResolveFunction returns the encoded address of a named native function:
// the builtin allowlist first, then the process image. Unknown names fail
// with NotFound.
func (vm *VM) ResolveFunction(name string) ([]byte, error) {
	addr, err := api.Resolve(name)
	if err != nil {
		return nil, err
	}
	return codec.EncodeWord(addr), nil
}

// Call invokes the native function whose encoded address is fn, passing
// the encoded context pointer as the first argument and then args, and
// returns the function's word result.
//
// Both encoded values must be exactly one word long (SizeMismatch
// otherwise). More than MaxArity arguments fails with UnsupportedArity,
// and any argument without an integer/pointer representation fails with
// UnsupportedArgumentType; in both cases the native function is not
// called.
func (vm *VM) Call(fn, ctx []byte, args []types.Arg) (types.Word, error) {
	fnPtr, err := codec.DecodeWord(fn)
	if err != nil {
		return 0, err
	}
	ctxPtr, err := codec.DecodeWord(ctx)
	if err != nil {
		return 0, err
	}
	if len(args) > MaxArity {
		return 0, types.UnsupportedArity{Arity: len(args), Max: MaxArity}
	}
	words := make([]types.Word, len(args))
	for i, a := range args {
		if a.Kind == types.KindUnsupported {
			return 0, types.UnsupportedArgumentType{Index: i}
		}
		words[i] = a.Word()
	}
	return api.Call(fnPtr, ctxPtr, words)
}

// RegisterHandler installs a native function address in the given handler
// table slot for all subsequent invocations.
func (vm *VM) RegisterHandler(slot int, addr types.Word) error {
	if slot < 0 || slot >= HandlerSlots {
		return types.IndexOutOfRange{Index: slot, Length: HandlerSlots}
	}
	for len(vm.handlers) <= slot {
		vm.handlers = append(vm.handlers, 0)
	}
	vm.handlers[slot] = addr
	return nil
}

// Handlers returns a copy of the current handler table.
func (vm *VM) Handlers() []types.Word {
	out := make([]types.Word, len(vm.handlers))
	copy(out, vm.handlers)
	return out
}

// StoreCode persists a machine-code blob and returns its checksum.
func (vm *VM) StoreCode(code []byte) (types.Checksum, error) {
	return vm.store.Save(code)
}

// GetCode loads a previously stored blob.
func (vm *VM) GetCode(checksum types.Checksum) ([]byte, error) {
	return vm.store.Load(checksum)
}

// RemoveCode deletes a previously stored blob.
func (vm *VM) RemoveCode(checksum types.Checksum) error {
	return vm.store.Remove(checksum)
}

// LoadExecutable allocates an executable block sized to a stored blob and
// copies the blob into it, ready for Execute.
func (vm *VM) LoadExecutable(checksum types.Checksum) (*Block, error) {
	code, err := vm.store.Load(checksum)
	if err != nil {
		return nil, err
	}
	b, err := vm.AllocateExecutable(len(code))
	if err != nil {
		return nil, err
	}
	if err := b.Write(0, code); err != nil {
		_ = vm.FreeExecutable(b)
		return nil, err
	}
	return b, nil
}

// Metrics returns a snapshot of the bridge activity counters.
func (vm *VM) Metrics() types.Metrics {
	allocated, freed, bytesMapped := mem.Counters()
	invocations, nativeCalls := api.Counters()
	return types.Metrics{
		BlocksAllocated: allocated,
		BlocksFreed:     freed,
		BytesMapped:     bytesMapped,
		Invocations:     invocations,
		NativeCalls:     nativeCalls,
	}
}
