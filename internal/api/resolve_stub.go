//go:build !(linux || darwin || freebsd)

package api

import (
	"errors"
)

func dlsymResolve(name string) (uintptr, error) {
	return 0, errors.New("symbol lookup is not supported on this platform")
}
