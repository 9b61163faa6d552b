// Package kpanic plays the role of the original kernel's #[panic_handler]:
// it formats the panic, walks the host stack, logs both, and requests an
// SBI shutdown with the failure reason. It is reserved for kernel-invariant
// violations (unknown trap cause, re-entrant task-manager borrow, a failed
// SBI call), never for user-programming errors, which are handled locally
// by exiting the offending task instead.
package kpanic

import (
	"fmt"
	"runtime"
)

// Shutdown is called with failure=true once the panic has been logged. It is
// injected so tests can observe the shutdown request instead of exiting the
// process; taskmgr passes its requestShutdown, which ends in
// sbi.Provider.Shutdown.
type Shutdown func(failure bool)

// Logger is the minimal surface kpanic needs; internal/klog.Logger satisfies it.
type Logger interface {
	Error(format string, args ...any)
	Trace(format string, args ...any)
}

// Handle logs msg and a stack trace, then calls shutdown(true). It never
// returns to the caller in production use, but does not itself call
// os.Exit so it stays testable.
func Handle(log Logger, shutdown Shutdown, msg string, args ...any) {
	log.Error(msg, args...)
	printStackTrace(log)
	shutdown(true)
}

// printStackTrace is the Go-native analogue of the original's frame-pointer
// walk: runtime.Callers gives us the same "return address per frame"
// information without reading fp directly.
func printStackTrace(log Logger) {
	log.Trace("== Begin stack trace ==")
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		log.Trace("0x%016x %s:%d", frame.PC, frame.Function, frame.Line)
		if !more {
			break
		}
	}
	log.Trace("== End stack trace ==")
}

// Recover turns a recovered panic value into a formatted message, suitable
// for feeding to Handle from a deferred recover().
func Recover(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", r)
}
