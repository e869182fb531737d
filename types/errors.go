package types

import (
	"fmt"
)

// The errors below cover every caller-detectable contract violation and
// resource failure in the bridge. True undefined behavior (executing
// malformed code, dereferencing a stale address inside native code) is a
// precondition violation and is deliberately not represented here.

var (
	_ error = AllocationError{}
	_ error = InvalidHandle{}
	_ error = IndexOutOfRange{}
	_ error = SizeMismatch{}
	_ error = ValueOutOfRange{}
	_ error = UnsupportedArity{}
	_ error = UnsupportedArgumentType{}
	_ error = NotFound{}
	_ error = CodeNotFound{}
)

// AllocationError reports a failed or rejected memory mapping request.
type AllocationError struct {
	Size int    `json:"size"`
	Msg  string `json:"msg,omitempty"`
}

func (e AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate block of %d bytes: %s", e.Size, e.Msg)
}

// InvalidHandle reports an operation on a handle that is freed, nil, or of
// the wrong permission class for the entry point used.
type InvalidHandle struct {
	Msg string `json:"msg,omitempty"`
}

func (e InvalidHandle) Error() string {
	return fmt.Sprintf("invalid block handle: %s", e.Msg)
}

// IndexOutOfRange reports a buffer access outside [0, length).
type IndexOutOfRange struct {
	Index  int `json:"index"`
	Length int `json:"length"`
}

func (e IndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for block of length %d", e.Index, e.Length)
}

// SizeMismatch reports a decode source whose length is not exactly the
// native word size. Decoding never partially succeeds.
type SizeMismatch struct {
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
}

func (e SizeMismatch) Error() string {
	return fmt.Sprintf("encoded value must be exactly %d bytes, got %d", e.Expected, e.Actual)
}

// ValueOutOfRange reports a host value that claims to be a byte but lies
// outside [0, 255].
type ValueOutOfRange struct {
	Index int   `json:"index"`
	Value int64 `json:"value"`
}

func (e ValueOutOfRange) Error() string {
	return fmt.Sprintf("value %d at index %d outside of byte range", e.Value, e.Index)
}

// UnsupportedArity reports a native call with an argument count outside the
// closed set of supported calling-convention shapes.
type UnsupportedArity struct {
	Arity int `json:"arity"`
	Max   int `json:"max"`
}

func (e UnsupportedArity) Error() string {
	return fmt.Sprintf("unsupported argument count %d, bridge supports 0 to %d", e.Arity, e.Max)
}

// UnsupportedArgumentType reports a native call argument that has no
// integer/pointer representation.
type UnsupportedArgumentType struct {
	Index int `json:"index"`
}

func (e UnsupportedArgumentType) Error() string {
	return fmt.Sprintf("unsupported argument type at position %d", e.Index)
}

// NotFound reports a native function name that is neither in the builtin
// allowlist nor resolvable in the process image.
type NotFound struct {
	Name string `json:"name"`
}

func (e NotFound) Error() string {
	return fmt.Sprintf("native function not found: %s", e.Name)
}

// CodeNotFound reports a checksum with no stored code blob.
type CodeNotFound struct {
	Checksum Checksum `json:"checksum"`
}

func (e CodeNotFound) Error() string {
	return fmt.Sprintf("no code stored for checksum %s", e.Checksum)
}

// BridgeError captures any error crossing the host boundary.
// Exactly one of the fields should be set.
type BridgeError struct {
	Allocation     *AllocationError         `json:"allocation,omitempty"`
	Handle         *InvalidHandle           `json:"handle,omitempty"`
	Index          *IndexOutOfRange         `json:"index,omitempty"`
	Size           *SizeMismatch            `json:"size,omitempty"`
	Value          *ValueOutOfRange         `json:"value,omitempty"`
	Arity          *UnsupportedArity        `json:"arity,omitempty"`
	ArgumentType   *UnsupportedArgumentType `json:"argument_type,omitempty"`
	Function       *NotFound                `json:"function,omitempty"`
	Code           *CodeNotFound            `json:"code,omitempty"`
}

var _ error = BridgeError{}

func (e BridgeError) Error() string {
	switch {
	case e.Allocation != nil:
		return e.Allocation.Error()
	case e.Handle != nil:
		return e.Handle.Error()
	case e.Index != nil:
		return e.Index.Error()
	case e.Size != nil:
		return e.Size.Error()
	case e.Value != nil:
		return e.Value.Error()
	case e.Arity != nil:
		return e.Arity.Error()
	case e.ArgumentType != nil:
		return e.ArgumentType.Error()
	case e.Function != nil:
		return e.Function.Error()
	case e.Code != nil:
		return e.Code.Error()
	default:
		return "unknown error variant"
	}
}

// ToBridgeError converts any of the typed errors above into the union form
// used at the host boundary. Unknown errors return nil, so callers can tell
// contract violations apart from unexpected failures.
func ToBridgeError(err error) *BridgeError {
	switch t := err.(type) {
	case AllocationError:
		return &BridgeError{Allocation: &t}
	case *AllocationError:
		return &BridgeError{Allocation: t}
	case InvalidHandle:
		return &BridgeError{Handle: &t}
	case *InvalidHandle:
		return &BridgeError{Handle: t}
	case IndexOutOfRange:
		return &BridgeError{Index: &t}
	case *IndexOutOfRange:
		return &BridgeError{Index: t}
	case SizeMismatch:
		return &BridgeError{Size: &t}
	case *SizeMismatch:
		return &BridgeError{Size: t}
	case ValueOutOfRange:
		return &BridgeError{Value: &t}
	case *ValueOutOfRange:
		return &BridgeError{Value: t}
	case UnsupportedArity:
		return &BridgeError{Arity: &t}
	case *UnsupportedArity:
		return &BridgeError{Arity: t}
	case UnsupportedArgumentType:
		return &BridgeError{ArgumentType: &t}
	case *UnsupportedArgumentType:
		return &BridgeError{ArgumentType: t}
	case NotFound:
		return &BridgeError{Function: &t}
	case *NotFound:
		return &BridgeError{Function: t}
	case CodeNotFound:
		return &BridgeError{Code: &t}
	case *CodeNotFound:
		return &BridgeError{Code: t}
	default:
		return nil
	}
}
