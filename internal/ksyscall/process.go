package ksyscall

import "github.com/rvcore-os/kernel/internal/taskmgr"

// sysExit mirrors sys_exit: the task exits with exitCode and control
// switches to whatever runs next. Like the original it never returns.
func sysExit(rt *taskmgr.Runtime, exitCode int32) int64 {
	rt.Exit(exitCode)
	panic("ksyscall: unreachable in sys_exit")
}

// sysYield mirrors sys_yield: give up the remaining quantum voluntarily.
func sysYield(rt *taskmgr.Runtime) int64 {
	return rt.Yield()
}

// sysGetTimeOfDay mirrors sys_gettimeofday: fill out with the current
// boot-relative time. tz is accepted but unused, as in the original.
func sysGetTimeOfDay(rt *taskmgr.Runtime, out *TimeVal) int64 {
	us := rt.TimeUS()
	if out != nil {
		*out = TimeVal{Sec: us / 1_000_000, Usec: us % 1_000_000}
	}
	return 0
}
