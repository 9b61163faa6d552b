// Package trap is the Go analogue of `trap/mod.rs`'s trap_handler: given
// the reason a trap was taken, it either routes to the syscall table, logs
// and kills the offending app, or (for the timer case this port adds to
// drive scheduling) suspends and reschedules. There is no real scause CSR
// to read in a hosted process, so Cause is passed in directly by whatever
// observed the trap: internal/kapp's app wrappers for ecalls and
// exceptions. internal/taskmgr's Runtime.Tick does not go through Dispatch
// for its timer checkpoints; it suspends the task itself.
package trap

import (
	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/ksyscall"
	"github.com/rvcore-os/kernel/internal/taskmgr"
	"github.com/rvcore-os/kernel/internal/trapctx"
)

// Cause is why a trap was taken, matching the arms trap_handler matches on.
type Cause int

const (
	// CauseSyscall is Trap::Exception(Exception::UserEnvCall): route to the
	// syscall table.
	CauseSyscall Cause = iota
	// CauseIllegalInstruction is Trap::Exception(Exception::IllegalInstruction).
	CauseIllegalInstruction
	// CauseStoreFault is Trap::Exception(Exception::StorePageFault) (or
	// the no-MMU StoreFault): writing through a bad pointer.
	CauseStoreFault
	// CauseTimer is the supervisor-timer interrupt case: suspend and
	// reschedule. internal/taskmgr's Runtime.Tick, which reaches its
	// preemption point every checkpointTicks instructions, yields directly
	// rather than dispatching this cause.
	CauseTimer
)

func (c Cause) String() string {
	switch c {
	case CauseSyscall:
		return "UserEnvCall"
	case CauseIllegalInstruction:
		return "IllegalInstruction"
	case CauseStoreFault:
		return "StorePageFault"
	case CauseTimer:
		return "Timer"
	default:
		return "Unknown"
	}
}

// Frame carries the stval CSR value the dispatcher logs for faults: the
// address a bad store touched. Syscall and timer traps leave it zero; the
// faulting PC comes from the TrapContext's Sepc.
type Frame struct {
	StVal uint64
}

// Dispatch is the Go analogue of trap_handler: it takes the mutable
// TrapContext saved on the current kernel stack and, for CauseSyscall,
// does exactly what the original's UserEnvCall arm does: advance sepc
// past the ecall, read the syscall id from x17 and its register arguments
// from x10..x12, and write the result back into the x10 slot the trap
// trailer restores into user mode. args carries the values the register
// arguments point at (the write buffer, the timespec), since there is no
// emulated address space to dereference x11 against. For the two
// exception causes it logs the fault and kills the application via
// rt.Exit; for CauseTimer it suspends and switches.
func Dispatch(rt *taskmgr.Runtime, log *klog.Logger, cause Cause, frame Frame, cx *trapctx.TrapContext, args ksyscall.Args) int64 {
	switch cause {
	case CauseSyscall:
		cx.Sepc += 4
		args.A0 = cx.X[trapctx.RegA0]
		args.A1 = cx.X[trapctx.RegA1]
		args.A2 = cx.X[trapctx.RegA2]
		ret := ksyscall.Syscall(rt, cx.X[trapctx.RegSyscID], args)
		cx.X[trapctx.RegA0] = uint64(ret)
		return ret
	case CauseStoreFault:
		log.Error("%s in application, bad addr = %#x, bad instruction = %#x, kernel killed it.", cause, frame.StVal, cx.Sepc)
		rt.Exit(-1)
		panic("trap: unreachable after Exit")
	case CauseIllegalInstruction:
		log.Error("%s in application, kernel killed it.", cause)
		rt.Exit(-1)
		panic("trap: unreachable after Exit")
	case CauseTimer:
		return rt.Yield()
	default:
		panic("trap: unsupported trap cause")
	}
}
