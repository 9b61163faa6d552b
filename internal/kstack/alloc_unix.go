//go:build unix

package kstack

import "golang.org/x/sys/unix"

// allocPages returns a page-aligned, anonymous-mapped region of at least
// size bytes, rounded up to a whole number of pages, the same
// PROT_READ|PROT_WRITE, MAP_PRIVATE|MAP_ANON mapping tinyrange-cc's JIT
// allocators use for executable memory, here just backing a stack.
func allocPages(size int) []byte {
	n := (size + pageSize - 1) &^ (pageSize - 1)
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		// Anonymous mmap failing is a host resource exhaustion, not a
		// recoverable kernel condition: nothing downstream can run without
		// its stacks.
		panic("kstack: mmap failed: " + err.Error())
	}
	return mem[:size]
}
