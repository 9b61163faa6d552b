package ksyscall

import "github.com/rvcore-os/kernel/internal/taskmgr"

// sysWrite writes buf to fd, exactly as sys_write: only STDOUT is
// supported, and any other fd is kernel-fatal.
func sysWrite(rt *taskmgr.Runtime, fd uint64, buf []byte) int64 {
	switch fd {
	case STDOUT:
		return rt.WriteConsole(buf)
	default:
		panic("ksyscall: unsupported fd in sys_write")
	}
}
