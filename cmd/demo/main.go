package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	mcvm "github.com/mcbridge/mcvm"
	"github.com/mcbridge/mcvm/types"
)

const (
	StackLimit = 1 << 20
	HeapLimit  = 16 << 20
)

// returnConst is a minimal "load immediate 42 into the result register and
// return" sequence for the running CPU.
func returnConst() []byte {
	switch runtime.GOARCH {
	case "amd64":
		return []byte{0xb8, 0x2a, 0x00, 0x00, 0x00, 0xc3} // mov eax, 42; ret
	case "arm64":
		return []byte{0x40, 0x05, 0x80, 0x52, 0xc0, 0x03, 0x5f, 0xd6} // mov w0, #42; ret
	default:
		return nil
	}
}

// This is just a demo to ensure we can compile a working binary: it fills
// an executable block byte by byte, runs it, and calls a builtin native
// through the FFI.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	vm, err := mcvm.NewVM(types.VMConfig{
		StackLimit: StackLimit,
		HeapLimit:  HeapLimit,
		Logger:     logger,
	})
	if err != nil {
		panic(err)
	}
	defer vm.Cleanup()

	code := returnConst()
	if code == nil {
		fmt.Fprintf(os.Stderr, "no demo code sequence for %s\n", runtime.GOARCH)
		os.Exit(1)
	}

	block, err := vm.AllocateExecutable(len(code))
	if err != nil {
		panic(err)
	}
	for i, b := range code {
		if err := block.Set(i, b); err != nil {
			panic(err)
		}
	}

	result, err := vm.Execute(block)
	if err != nil {
		panic(err)
	}
	fmt.Printf("executed block: %d\n", result.Int())

	sum, err := vm.ResolveFunction("sum2Ints")
	if err != nil {
		panic(err)
	}
	ctx, err := vm.BlockAddress(block, 0)
	if err != nil {
		panic(err)
	}
	total, err := vm.Call(sum, ctx, []types.Arg{types.IntArg(3), types.IntArg(4)})
	if err != nil {
		panic(err)
	}
	fmt.Printf("sum2Ints(3, 4) = %d\n", total.Int())

	if err := vm.FreeExecutable(block); err != nil {
		panic(err)
	}
	fmt.Println("finished")
}
