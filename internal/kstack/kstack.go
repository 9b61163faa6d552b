// Package kstack implements the per-app kernel and user stacks. The
// original kernel gets page alignment for free from a
// `#[repr(align(4096))]` static array; a hosted Go process has to ask the
// OS for page-aligned memory explicitly, which is what golang.org/x/sys's
// unix.Mmap gives on unix hosts, with a manually-aligned byte slice as the
// portable fallback elsewhere.
package kstack

import (
	"github.com/rvcore-os/kernel/internal/kconfig"
	"github.com/rvcore-os/kernel/internal/trapctx"
)

const pageSize = 4096

// KernelStack is one app's kernel-mode stack. Like RISC-V stacks generally,
// it grows down: SP starts at the top of the allocation.
type KernelStack struct {
	data []byte
}

// UserStack is one app's user-mode stack, identical in shape to KernelStack
// but never holds a TrapContext.
type UserStack struct {
	data []byte
}

// NewKernelStack allocates a page-aligned KernelStack of kconfig.KernelStackSize bytes.
func NewKernelStack() *KernelStack {
	return &KernelStack{data: allocPages(kconfig.KernelStackSize)}
}

// NewUserStack allocates a page-aligned UserStack of kconfig.UserStackSize bytes.
func NewUserStack() *UserStack {
	return &UserStack{data: allocPages(kconfig.UserStackSize)}
}

// SP returns the initial stack pointer: the byte just past the end of the
// allocation, since RISC-V stacks grow down from the top.
func (k *KernelStack) SP() uint64 { return sliceTop(k.data) }

// SP returns the initial stack pointer for a user stack.
func (u *UserStack) SP() uint64 { return sliceTop(u.data) }

// PushContext writes cx just below the top of the kernel stack and returns
// the stack pointer at which it now lives, the same pointer __restore (or
// here, the task-manager's "resume in user mode" path) reads it back from.
// It is the Go analogue of KernelStack::push_context.
func (k *KernelStack) PushContext(cx trapctx.TrapContext) uint64 {
	cxSP := k.SP() - uint64(trapctx.Size)
	putTrapContext(k.data, cxSP, cx)
	return cxSP
}

// ReadContext reads the TrapContext previously written by PushContext back
// off the kernel stack at the given stack pointer.
func (k *KernelStack) ReadContext(cxSP uint64) *trapctx.TrapContext {
	return getTrapContext(k.data, cxSP)
}
