// Package kapp holds the sample user applications the kernel schedules,
// translated one-for-one from `user/src/bin/*.rs`: each function here is
// that app's `main`, issuing the same syscalls through the same trap path
// a real app takes via ecall. Apart from Power's Runtime.Tick timer
// checkpoints, apps never call internal/taskmgr directly; every syscall goes through internal/trap.Dispatch and internal/ksyscall,
// exactly mirroring `_start`'s `sys_exit(main())` wrapper calling into the
// syscall table rather than touching the scheduler itself.
package kapp

import (
	"fmt"

	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/ksyscall"
	"github.com/rvcore-os/kernel/internal/taskmgr"
	"github.com/rvcore-os/kernel/internal/trap"
	"github.com/rvcore-os/kernel/internal/trapctx"
)

// App bundles one app's name with its entry point, the unit cmd/kernel
// wires into a Loader/Manager pair.
type App struct {
	Name string
	Fn   taskmgr.AppFunc
}

// env bundles what every app needs to issue syscalls: the Runtime the
// trap dispatcher routes through, the trap frame on this task's kernel
// stack, and the logger info!/warn!/error! write to.
type env struct {
	rt  *taskmgr.Runtime
	cx  *trapctx.TrapContext
	log *klog.Logger
}

func newEnv(rt *taskmgr.Runtime, log *klog.Logger) *env {
	return &env{rt: rt, cx: rt.TrapContext(), log: log}
}

// ecall plays user_lib's syscall stub: load the syscall id into x17 and
// the register arguments into x10..x12, trap, and read the result back
// out of the x10 slot the dispatcher wrote. args carries the values the
// register arguments would point at in a real address space.
func (e *env) ecall(id, a0, a1, a2 uint64, args ksyscall.Args) int64 {
	e.cx.X[trapctx.RegSyscID] = id
	e.cx.X[trapctx.RegA0] = a0
	e.cx.X[trapctx.RegA1] = a1
	e.cx.X[trapctx.RegA2] = a2
	trap.Dispatch(e.rt, e.log, trap.CauseSyscall, trap.Frame{}, e.cx, args)
	return int64(e.cx.X[trapctx.RegA0])
}

// write issues sys_write(STDOUT, s) through the full trap/syscall path.
func (e *env) write(s string) {
	buf := []byte(s)
	e.ecall(ksyscall.SysWrite, ksyscall.STDOUT, 0, uint64(len(buf)), ksyscall.Args{Buf: buf})
}

// print is print!'s Go equivalent: write with no trailing newline.
func (e *env) print(format string, args ...any) {
	e.write(fmt.Sprintf(format, args...))
}

// println is println!'s Go equivalent.
func (e *env) println(format string, args ...any) {
	e.write(fmt.Sprintf(format, args...) + "\n")
}

// info, warn and error are the app-side analogues of the kernel's
// info!/warn!/error! macros: user/src/log.rs defines the same leveled,
// ANSI-tagged macros the kernel does, but built on the user print! macro,
// so app-side logging goes through sys_write like any other console
// output, unlike internal/klog, which the kernel uses to write to its own
// log writer directly without an ecall.
func (e *env) info(format string, args ...any) {
	e.println("\x1b[34m[INFO] "+format+"\x1b[0m", args...)
}

func (e *env) warn(format string, args ...any) {
	e.println("\x1b[93m[WARN] "+format+"\x1b[0m", args...)
}

// yield_ issues sys_yield through the trap/syscall path (named with a
// trailing underscore since yield is a Go keyword).
func (e *env) yield_() {
	e.ecall(ksyscall.SysYield, 0, 0, 0, ksyscall.Args{})
}

// sleepSeconds issues sys_nanosleep(KernelTimespec::sec(s), null).
func (e *env) sleepSeconds(s int64) {
	e.ecall(ksyscall.SysNanosleep, 0, 0, 0,
		ksyscall.Args{Req: &ksyscall.Timespec{Sec: s}})
}

// illegalInstruction routes through the trap dispatcher's exception arm,
// the Go analogue of an app executing a privileged CSR instruction in U
// mode and trapping into the kernel, which then kills it.
func (e *env) illegalInstruction() {
	trap.Dispatch(e.rt, e.log, trap.CauseIllegalInstruction, trap.Frame{}, e.cx, ksyscall.Args{})
}

// storeFault routes through the trap dispatcher's exception arm, the Go
// analogue of writing through a null pointer.
func (e *env) storeFault() {
	trap.Dispatch(e.rt, e.log, trap.CauseStoreFault, trap.Frame{StVal: 0}, e.cx, ksyscall.Args{})
}

// All is every sample app, in the order the original chapter introduces
// them.
func All(log *klog.Logger) []App {
	return []App{
		{Name: "hello_world", Fn: wrap(log, HelloWorld)},
		{Name: "power", Fn: wrap(log, Power)},
		{Name: "priv_inst", Fn: wrap(log, PrivInst)},
		{Name: "store_fault", Fn: wrap(log, StoreFault)},
		{Name: "write_a", Fn: wrap(log, WriteA)},
		{Name: "write_b", Fn: wrap(log, WriteB)},
		{Name: "write_c", Fn: wrap(log, WriteC)},
	}
}

func wrap(log *klog.Logger, fn func(e *env) int32) taskmgr.AppFunc {
	return func(rt *taskmgr.Runtime) int32 {
		return fn(newEnv(rt, log))
	}
}
