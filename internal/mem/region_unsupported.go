//go:build !(linux || freebsd || (darwin && amd64))

package mem

import (
	"errors"
)

func mapRegion(size int, executable bool) ([]byte, error) {
	return nil, errors.New("executable mappings are not supported on this platform")
}

func unmapRegion(data []byte) error {
	return errors.New("executable mappings are not supported on this platform")
}
