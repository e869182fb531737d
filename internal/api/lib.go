// Package api is the cgo layer of the bridge: it transfers control into
// machine-code blocks, dispatches native calls through per-arity adapters,
// and resolves native function addresses.
package api

/*
#include <stdio.h>
#include "bridge.h"

// Transfer control to a code block. The runtime context lives on this C
// stack frame and is dead once the callee returns; generated code must not
// retain its address.
static word invoke_entry(uintptr_t code, word stack_limit, word heap_limit, uintptr_t *handlers, int nhandlers) {
	runtime_context ctx;
	int i;

	ctx.stack_limit = stack_limit;
	ctx.heap_limit = heap_limit;
	for (i = 0; i < handler_slots; i++) {
		ctx.handlers[i] = (i < nhandlers) ? (handler_fn)handlers[i] : NULL;
	}

	return ((entry_fn)code)(&ctx);
}

// One calling-convention shape per supported arity. The context pointer is
// always the first argument.
typedef word (*ffi_fn0)(void *);
typedef word (*ffi_fn1)(void *, word);
typedef word (*ffi_fn2)(void *, word, word);
typedef word (*ffi_fn3)(void *, word, word, word);

static word call_fn0(uintptr_t fn, uintptr_t ctx) {
	return ((ffi_fn0)fn)((void *)ctx);
}
static word call_fn1(uintptr_t fn, uintptr_t ctx, word a0) {
	return ((ffi_fn1)fn)((void *)ctx, a0);
}
static word call_fn2(uintptr_t fn, uintptr_t ctx, word a0, word a1) {
	return ((ffi_fn2)fn)((void *)ctx, a0, a1);
}
static word call_fn3(uintptr_t fn, uintptr_t ctx, word a0, word a1, word a2) {
	return ((ffi_fn3)fn)((void *)ctx, a0, a1, a2);
}

// Builtin natives callable through the bridge. Every FFI-callable native
// takes the context pointer as its first argument, per the bridge's calling
// convention.
static word native_print_hello(void *ctx) {
	(void)ctx;
	printf("Hello!\n");
	return 0;
}
static word native_print_int(void *ctx, word v) {
	(void)ctx;
	printf("%ld\n", (long)v);
	return 0;
}
static word native_print_2ints(void *ctx, word a, word b) {
	(void)ctx;
	printf("%ld and %ld\n", (long)a, (long)b);
	return 0;
}
static word native_print_2shorts(void *ctx, word a, word b) {
	(void)ctx;
	printf("%d and %d\n", (int)(short)a, (int)(short)b);
	return 0;
}
static word native_sum_2ints(void *ctx, word a, word b) {
	(void)ctx;
	return a + b;
}

// Make freshly written code bytes visible to the instruction fetch path.
// A no-op on x86; required on CPUs with split caches such as arm64.
static void sync_code(uintptr_t start, size_t len) {
	__builtin___clear_cache((char *)start, (char *)start + len);
}

static uintptr_t addr_print_hello(void)   { return (uintptr_t)native_print_hello; }
static uintptr_t addr_print_int(void)     { return (uintptr_t)native_print_int; }
static uintptr_t addr_print_2ints(void)   { return (uintptr_t)native_print_2ints; }
static uintptr_t addr_print_2shorts(void) { return (uintptr_t)native_print_2shorts; }
static uintptr_t addr_sum_2ints(void)     { return (uintptr_t)native_sum_2ints; }
*/
import "C"

import (
	"runtime"
	"sync/atomic"

	"github.com/mcbridge/mcvm/types"
)

// Value types
type cword = C.word
type cint = C.int
type cuptr = C.uintptr_t

const (
	// MaxArity is the largest supported positional argument count after the
	// context pointer. Extending it means adding one more typed call shape
	// to the preamble and one more adapter below; there is no generic
	// fallback on purpose.
	MaxArity = 3

	// HandlerSlots is the capacity of the runtime context handler table.
	HandlerSlots = int(C.handler_slots)
)

var (
	totalInvocations uint64
	totalNativeCalls uint64
)

// Invoke transfers control to the code at entry, passing the address of a
// freshly constructed runtime context as the only argument, and returns the
// callee's word result.
//
// Precondition: entry must point at valid, well-formed code for this CPU
// that follows the one-pointer-in one-word-out convention. If it does not,
// behavior is undefined (native crash); that is not catchable here.
// The calling thread is blocked, with no timeout, until the code returns.
func Invoke(entry types.Word, stackLimit, heapLimit uint64, handlers []types.Word) types.Word {
	table := make([]cuptr, 0, len(handlers))
	for _, h := range handlers {
		table = append(table, cuptr(h))
	}
	var tablePtr *cuptr
	if len(table) > 0 {
		tablePtr = &table[0]
	}

	atomic.AddUint64(&totalInvocations, 1)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	result := C.invoke_entry(cuptr(entry), cword(stackLimit), cword(heapLimit), tablePtr, cint(len(table)))
	runtime.KeepAlive(table)
	return types.Word(result)
}

// SyncCode flushes the instruction cache for a freshly written code range.
// Must run between the last byte written and the transfer of control.
func SyncCode(start types.Word, length int) {
	if length <= 0 {
		return
	}
	C.sync_code(cuptr(start), C.size_t(length))
}

// callAdapters maps an argument count to the one cgo shim with exactly that
// calling-convention shape. Arity dispatch is a table lookup, not a switch,
// so adding an arity is a single new entry.
var callAdapters = [MaxArity + 1]func(fn, ctx types.Word, args []types.Word) types.Word{
	func(fn, ctx types.Word, _ []types.Word) types.Word {
		return types.Word(C.call_fn0(cuptr(fn), cuptr(ctx)))
	},
	func(fn, ctx types.Word, args []types.Word) types.Word {
		return types.Word(C.call_fn1(cuptr(fn), cuptr(ctx), cword(args[0])))
	},
	func(fn, ctx types.Word, args []types.Word) types.Word {
		return types.Word(C.call_fn2(cuptr(fn), cuptr(ctx), cword(args[0]), cword(args[1])))
	},
	func(fn, ctx types.Word, args []types.Word) types.Word {
		return types.Word(C.call_fn3(cuptr(fn), cuptr(ctx), cword(args[0]), cword(args[1]), cword(args[2])))
	},
}

// Call invokes the already-compiled native function at fn with the context
// pointer and up to MaxArity word arguments, and returns its word result.
// An argument count outside the supported set fails with UnsupportedArity
// before anything native runs.
//
// Precondition: fn's actual signature must match the arity used here. An
// arity/ABI mismatch between caller and callee is undefined behavior.
func Call(fn, ctx types.Word, args []types.Word) (types.Word, error) {
	if len(args) > MaxArity {
		return 0, types.UnsupportedArity{Arity: len(args), Max: MaxArity}
	}

	atomic.AddUint64(&totalNativeCalls, 1)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return callAdapters[len(args)](fn, ctx, args), nil
}

// builtins is the fixed allowlist of statically known native functions,
// resolvable by name.
var builtins = map[string]types.Word{
	"printHello":   types.Word(C.addr_print_hello()),
	"printInt":     types.Word(C.addr_print_int()),
	"print2Ints":   types.Word(C.addr_print_2ints()),
	"print2Shorts": types.Word(C.addr_print_2shorts()),
	"sum2Ints":     types.Word(C.addr_sum_2ints()),
}

// Resolve returns the address of a named native function: the builtin
// allowlist first, then the process image via dlsym. Unknown names fail
// with NotFound.
func Resolve(name string) (types.Word, error) {
	if addr, ok := builtins[name]; ok {
		return addr, nil
	}
	if addr, err := dlsymResolve(name); err == nil && addr != 0 {
		return types.Word(addr), nil
	}
	return 0, types.NotFound{Name: name}
}

// Counters returns the process-wide invocation counters.
func Counters() (invocations, nativeCalls uint64) {
	return atomic.LoadUint64(&totalInvocations), atomic.LoadUint64(&totalNativeCalls)
}
