package api

/*
#include "bridge.h"

// address helpers for the gateway functions (defined in callbacks_cgo.go)
uintptr_t addr_handler_hello(void);
uintptr_t addr_handler_trace(void);
uintptr_t addr_handler_sum(void);
*/
import "C"

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mcbridge/mcvm/types"
)

// Note: we have to keep the preamble of this file free of definitions
// because of the //export directives below; the C gateway bodies live in
// callbacks_cgo.go.

// handlerLogger receives handler output. The VM swaps it in at
// construction; the default drops everything.
var handlerLogger atomic.Pointer[zap.Logger]

func init() {
	handlerLogger.Store(zap.NewNop())
}

// SetLogger routes handler output to l. A nil logger silences the handlers.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	handlerLogger.Store(l)
}

// lastTraced records the most recent argument seen by the trace handler so
// hosts (and tests) can observe that generated code really reached it.
var lastTraced int64

//export handlerHello
func handlerHello() C.word {
	handlerLogger.Load().Info("hello world!")
	return 11
}

//export handlerTrace
func handlerTrace(x C.word) C.word {
	atomic.StoreInt64(&lastTraced, int64(x))
	handlerLogger.Load().Info("handler trace", zap.Int64("x", int64(x)))
	return 22
}

//export handlerSum
func handlerSum(x, y C.word) C.word {
	return x + y
}

// TracedValue returns the argument most recently passed to the trace
// handler (slot 1).
func TracedValue() int64 {
	return atomic.LoadInt64(&lastTraced)
}

// Direct invocations of the reference handlers, for hosts that want the
// handler semantics without a native transfer. Generated code calling a
// handler slot must be observationally equivalent to these.

func CallHello() int64 {
	return int64(handlerHello())
}

func CallTrace(x int64) int64 {
	return int64(handlerTrace(C.word(x)))
}

func CallSum(x, y int64) int64 {
	return int64(handlerSum(C.word(x), C.word(y)))
}

// DefaultHandlers returns the reference handler table: slot 0 is the
// zero-argument hello handler, slot 1 the one-argument trace handler,
// slot 2 the two-argument sum handler. Callers may extend or replace any
// slot up to HandlerSlots before invoking code.
func DefaultHandlers() []types.Word {
	return []types.Word{
		types.Word(C.addr_handler_hello()),
		types.Word(C.addr_handler_trace()),
		types.Word(C.addr_handler_sum()),
	}
}
