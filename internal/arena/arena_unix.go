//go:build linux || darwin

package arena

import (
	"golang.org/x/sys/unix"
)

// Default returns the unix default allocator: each region is an
// anonymous, zero-filled mmap mapping. This keeps the region off the Go
// heap entirely: the garbage collector neither moves nor scans it, since
// it was never GC-managed memory to begin with.
func Default() (AllocFunc, FreeFunc) {
	alloc := func(size int) []byte {
		b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			panic("smr: arena: mmap failed: " + err.Error())
		}
		return b
	}
	free := func(b []byte) {
		if len(b) == 0 {
			return
		}
		_ = unix.Munmap(b)
	}
	return alloc, free
}
