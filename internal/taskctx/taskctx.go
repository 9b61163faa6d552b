// Package taskctx defines the TaskContext: the callee-saved register
// snapshot the task switcher saves and restores. In real hardware this is
// crossed by a two-instruction-pointer assembly routine that swaps the
// stack pointer itself; see DESIGN.md's "switcher" entry for why this port
// models the struct (for layout fidelity and unit testing) but realizes
// live control transfer through taskmgr's goroutine rendezvous instead of
// an actual SP swap, which Go's runtime gives no portable primitive for.
package taskctx

import "unsafe"

// trapReturnTrampoline is the sentinel "return address" a freshly
// initialized task's context carries: it marks a task that has never run,
// whose first "return" from switch restores a TrapContext instead of
// resuming mid-function. There is no real code address behind it in this
// port; NeverRun is how callers distinguish a fresh context from one a
// switch has already passed through.
const trapReturnTrampoline = ^uint64(0)

// TaskContext is the register file the switcher saves/restores. Field order
// mirrors the assembly switcher's store order: ra, sp, then s0..s11.
type TaskContext struct {
	RA uint64
	SP uint64
	S  [12]uint64 // s0-s11, callee-saved per the RISC-V calling convention
}

// Size is the number of 8-byte slots the switcher touches: ra, sp, s0-s11.
const Size = unsafe.Sizeof(TaskContext{})

func init() {
	if Size != 14*8 {
		panic("taskctx: TaskContext layout drifted from the 14-word switch frame")
	}
}

// Zero returns a zero-initialized context, used as the throwaway "current"
// slot run_first_task hands to the switcher.
func Zero() TaskContext {
	return TaskContext{}
}

// GotoTrapReturn builds the context a never-run task starts with: its
// return address is the trap-return trampoline and its stack pointer is
// kernelSP, which must point just below an already-initialized TrapContext
// on that task's kernel stack (see internal/loader).
func GotoTrapReturn(kernelSP uint64) TaskContext {
	return TaskContext{RA: trapReturnTrampoline, SP: kernelSP}
}

// NeverRun reports whether cx is still in its post-init state, i.e. the
// switcher has never "returned" into it.
func (c TaskContext) NeverRun() bool {
	return c.RA == trapReturnTrampoline
}

// Switch saves the live register file into prev and loads it from next.
// On real hardware this single routine both performs the save/restore and
// is the point at which control actually transfers to next's saved
// instruction pointer; here it is pure bookkeeping: taskmgr.Manager
// performs the actual transfer by waking next's goroutine and parking the
// caller's, and calls Switch only to keep the two contexts' recorded state
// consistent for callers that inspect it.
func Switch(prev *TaskContext, next *TaskContext) {
	*prev, *next = *next, *prev
}
