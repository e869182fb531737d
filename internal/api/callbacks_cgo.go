package api

/*
#include "bridge.h"

// exported Go handlers (cgo generates the real declarations in _cgo_export.h)
word handlerHello(void);
word handlerTrace(word x);
word handlerSum(word x, word y);

// Gateway functions: stable C symbols whose addresses can sit in a runtime
// context handler table and be called directly by generated code with the
// native calling convention.
word handlerHello_cgo(void) {
	return handlerHello();
}
word handlerTrace_cgo(word x) {
	return handlerTrace(x);
}
word handlerSum_cgo(word x, word y) {
	return handlerSum(x, y);
}

uintptr_t addr_handler_hello(void) { return (uintptr_t)handlerHello_cgo; }
uintptr_t addr_handler_trace(void) { return (uintptr_t)handlerTrace_cgo; }
uintptr_t addr_handler_sum(void)   { return (uintptr_t)handlerSum_cgo; }
*/
import "C"

// We need these gateway functions so that native code can call back into Go
// handlers through plain C function pointers. They live in a separate file
// from callbacks.go because a file with //export directives cannot carry
// definitions in its preamble.
