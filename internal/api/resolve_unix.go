//go:build linux || darwin || freebsd

package api

import (
	"github.com/ebitengine/purego"
)

// dlsymResolve looks a symbol up in the process image, so embedders can
// reach natives beyond the builtin allowlist without recompiling the
// bridge.
func dlsymResolve(name string) (uintptr, error) {
	return purego.Dlsym(purego.RTLD_DEFAULT, name)
}
