package types

import (
	"go.uber.org/zap"
)

// VMConfig contains the configuration for a VM instance.
type VMConfig struct {
	// StoreDir is a base directory for the persistent code blob store.
	// Leave empty to keep stored code in memory only.
	StoreDir string `json:"store_dir"`
	// StackLimit and HeapLimit are carried into the runtime context of every
	// invocation. Generated code polls them for its own bounds checks; the
	// bridge itself does not enforce them.
	StackLimit uint64 `json:"stack_limit"`
	HeapLimit  uint64 `json:"heap_limit"`

	// Logger receives handler output and bridge diagnostics. Nil means no
	// logging.
	Logger *zap.Logger `json:"-"`
}
