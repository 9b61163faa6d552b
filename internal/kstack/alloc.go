package kstack

import (
	"unsafe"

	"github.com/rvcore-os/kernel/internal/trapctx"
)

type trapCtx = trapctx.TrapContext

// sliceTop returns the address one past the end of data, i.e. the initial
// stack pointer for a downward-growing stack backed by data.
func sliceTop(data []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(&data[0]))) + uint64(len(data))
}

// baseAddr returns the address of data[0].
func baseAddr(data []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(&data[0])))
}

// putTrapContext writes cx at stack address sp, which must fall within data.
func putTrapContext(data []byte, sp uint64, cx trapCtx) {
	off := sp - baseAddr(data)
	*(*trapCtx)(unsafe.Pointer(&data[off])) = cx
}

// getTrapContext reads the TrapContext living at stack address sp.
func getTrapContext(data []byte, sp uint64) *trapCtx {
	off := sp - baseAddr(data)
	return (*trapCtx)(unsafe.Pointer(&data[off]))
}
