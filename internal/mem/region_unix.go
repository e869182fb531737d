//go:build linux || freebsd || (darwin && amd64)

package mem

import (
	"golang.org/x/sys/unix"
)

// mapRegion requests an anonymous private mapping. Executable regions are
// mapped RWX up front so the host can write code bytes and transfer control
// without an extra protection flip; hardened targets that refuse RWX
// mappings are excluded by the build constraint above.
func mapRegion(size int, executable bool) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	if executable {
		prot |= unix.PROT_EXEC
	}
	return unix.Mmap(-1, 0, size, prot, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapRegion(data []byte) error {
	return unix.Munmap(data)
}
