package taskmgr

import (
	"github.com/rvcore-os/kernel/internal/sbi"
	"github.com/rvcore-os/kernel/internal/trapctx"
)

// Runtime is the syscall surface an AppFunc sees: it plays the role the
// ecall path into the kernel plays for a real app. internal/ksyscall's
// syscall table is built on top of these primitives; apps that want the
// exact syscall-ID dispatch path go through ksyscall.Syscall instead of
// calling Runtime directly (see internal/kapp).
type Runtime struct {
	m    *Manager
	task *task
}

// TaskID returns this app's task index.
func (rt *Runtime) TaskID() int { return rt.task.id }

// TrapContext returns the trap frame on this task's kernel stack: the
// struct the trap path reads syscall registers from and writes results
// back into, exactly the pointer trap_handler receives.
func (rt *Runtime) TrapContext() *trapctx.TrapContext {
	return rt.m.ld.TrapContext(rt.task.id)
}

// WriteConsole writes buf to the console, the Runtime half of sys_write's
// STDOUT case; fd validation happens in ksyscall, one layer up.
func (rt *Runtime) WriteConsole(buf []byte) int64 {
	for _, b := range buf {
		rt.m.sbi.ConsoleByte(b)
	}
	return int64(len(buf))
}

// Yield suspends this task and switches to the next Ready one, returning
// once this task is rescheduled, the Runtime half of sys_yield.
func (rt *Runtime) Yield() int64 {
	rt.m.suspendCurrentAndRunNext(rt.task)
	return 0
}

// Exit marks this task Exited with the given code and switches away. It
// never returns to its caller, mirroring sys_exit's `-> !`: any code in the
// AppFunc after calling Exit is dead and will never run.
func (rt *Runtime) Exit(code int32) {
	rt.m.exitCurrentAndRunNext(rt.task, code)
	select {} // unreachable: this task's status is Exited and is never rescheduled
}

// SleepNS busy-waits ns nanoseconds of simulated mtime, the Runtime half of
// sys_nanosleep.
func (rt *Runtime) SleepNS(ns uint64) {
	sbi.SleepNS(rt.m.sbi, ns)
}

// TimeUS returns elapsed microseconds since boot, the Runtime half of
// sys_gettimeofday.
func (rt *Runtime) TimeUS() uint64 {
	return sbi.GetTimeUS(rt.m.sbi)
}

// Tick counts one simulated instruction retiring and, every checkpointTicks
// ticks (counted across all tasks), preempts this task exactly as a real timer interrupt would,
// deterministically, instead of racing a wall-clock goroutine against the
// app, so scheduling order is reproducible across runs. This is this port's
// substitute for the original's asynchronous CLINT timer interrupt, which
// nothing in a hosted Go process can raise mid-instruction.
func (rt *Runtime) Tick() {
	n := rt.m.instructionCount.Add(1)
	if n%checkpointTicks == 0 {
		// Arm the next quantum before suspending, in the same order the
		// timer-interrupt arm of the trap handler runs set_next_trigger
		// then suspend_current_and_run_next.
		rt.m.sbi.SetNextTimer()
		rt.Yield()
	}
}

// checkpointTicks is the number of Tick calls between deterministic
// preemption points, standing in for TicksPerQuantum mtime ticks between
// real timer interrupts.
const checkpointTicks = 64
