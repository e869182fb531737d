package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mcbridge/mcvm/types"
)

func TestResolveBuiltins(t *testing.T) {
	names := []string{"printHello", "printInt", "print2Ints", "print2Shorts", "sum2Ints"}
	seen := make(map[types.Word]string, len(names))

	for _, name := range names {
		addr, err := Resolve(name)
		require.NoError(t, err, "resolving %s", name)
		require.NotZero(t, addr, "address of %s", name)
		require.NotContains(t, seen, addr, "%s and %s share an address", name, seen[addr])
		seen[addr] = name
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve("definitelyNotARealSymbolName123")
	var notFound types.NotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "definitelyNotARealSymbolName123", notFound.Name)
}

func TestCallArityDispatch(t *testing.T) {
	sum, err := Resolve("sum2Ints")
	require.NoError(t, err)

	// The builtins ignore their context argument, so a zero context is
	// fine here.
	cases := []struct {
		name     string
		fn       string
		args     []types.Word
		expected int64
	}{
		{"zero args", "printHello", nil, 0},
		{"one arg", "printInt", []types.Word{7}, 0},
		{"two args add", "sum2Ints", []types.Word{3, 4}, 7},
		{"two args print", "print2Ints", []types.Word{3, 4}, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			fn, err := Resolve(tc.fn)
			require.NoError(t, err)
			result, err := Call(fn, 0, tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.expected, result.Int())
		})
	}

	// same function, different payloads
	result, err := Call(sum, 0, []types.Word{types.Word(^uintptr(41)) + 1, 100}) // -41 + 100
	require.NoError(t, err)
	require.Equal(t, int64(59), result.Int())
}

func TestCallUnsupportedArity(t *testing.T) {
	sum, err := Resolve("sum2Ints")
	require.NoError(t, err)

	_, callsBefore := Counters()
	_, err = Call(sum, 0, []types.Word{1, 2, 3, 4})
	var arityErr types.UnsupportedArity
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, 4, arityErr.Arity)
	assert.Equal(t, MaxArity, arityErr.Max)

	// the native function must not have been called
	_, callsAfter := Counters()
	require.Equal(t, callsBefore, callsAfter)
}

func TestHandlersDirect(t *testing.T) {
	require.Equal(t, int64(11), CallHello())

	require.Equal(t, int64(22), CallTrace(5))
	require.Equal(t, int64(5), TracedValue())

	require.Equal(t, int64(7), CallSum(3, 4))
}

func TestSetLoggerIsProcessWide(t *testing.T) {
	defer SetLogger(nil)

	first, firstLogs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(first))
	CallHello()
	require.Equal(t, 1, firstLogs.FilterMessage("hello world!").Len())

	// the most recently installed logger receives all handler output
	second, secondLogs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(second))
	CallHello()
	require.Equal(t, 1, firstLogs.FilterMessage("hello world!").Len())
	require.Equal(t, 1, secondLogs.FilterMessage("hello world!").Len())

	// nil silences the handlers instead of crashing them
	SetLogger(nil)
	CallHello()
	require.Equal(t, 1, secondLogs.FilterMessage("hello world!").Len())
}

func TestDefaultHandlerTable(t *testing.T) {
	handlers := DefaultHandlers()
	require.Len(t, handlers, 3)
	for slot, addr := range handlers {
		require.NotZero(t, addr, "handler slot %d", slot)
	}
	require.LessOrEqual(t, len(handlers), HandlerSlots)
}
