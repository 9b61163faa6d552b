package ksyscall

import "github.com/rvcore-os/kernel/internal/taskmgr"

// sysNanosleep mirrors sys_nanosleep: req must not be nil (EINVAL
// otherwise), the sleep itself busy-waits on simulated mtime, and a
// non-nil rem is not implemented, exactly as the original leaves
// "remaining time on interruption" unimplemented since this kernel never
// interrupts a sleep.
func sysNanosleep(rt *taskmgr.Runtime, req, rem *Timespec) int64 {
	if req == nil {
		return -EINVAL
	}
	totalNS := uint64(req.Sec)*1_000_000_000 + uint64(req.Nsec)
	rt.SleepNS(totalNS)
	if rem != nil {
		panic("ksyscall: remaining time handling requires signal/interruption logic")
	}
	return 0
}
