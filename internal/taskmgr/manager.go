// Package taskmgr is the Go analogue of `task/mod.rs`'s TaskManager: it
// owns every task's control block and context, runs the round-robin
// scheduler, and answers run_first_task/suspend_current/exit_current/
// run_next. The one place this port
// necessarily diverges from the original is *how* control actually
// transfers between tasks: real hardware swaps the stack pointer and
// return address in `__switch`'s two instructions; Go gives no portable
// way to swap a goroutine's call stack onto another one, so each task
// here is its own goroutine and "switching" is a rendezvous on an
// unbuffered wake channel: the next task's goroutine is released, the
// current one blocks on its own channel until rescheduled. This preserves
// the property __switch exists for: a suspended task's local state (loop
// counters inside write_a, say) survives exactly where execution left it,
// just held by a parked goroutine instead of a saved stack pointer.
package taskmgr

import (
	"sync"

	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/kpanic"
	"github.com/rvcore-os/kernel/internal/loader"
	"github.com/rvcore-os/kernel/internal/sbi"
	"github.com/rvcore-os/kernel/internal/taskctx"
	"gvisor.dev/gvisor/pkg/atomicbitops"
)

// TaskStatus is one of the four states a task passes through, exactly as
// `task::TaskStatus` enumerates them.
type TaskStatus int

const (
	StatusUnInit TaskStatus = iota
	StatusReady
	StatusRunning
	StatusExited
)

func (s TaskStatus) String() string {
	switch s {
	case StatusUnInit:
		return "UnInit"
	case StatusReady:
		return "Ready"
	case StatusRunning:
		return "Running"
	case StatusExited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// AppFunc is a loaded app's entry point: it runs on its own goroutine with
// exclusive logical use of the Runtime until it exits, exactly as the
// original app's `_start` has exclusive use of the CPU until it traps back
// into the kernel. The return value is the app's exit code, as from
// `sys_exit(main())`.
type AppFunc func(rt *Runtime) int32

// taskControlBlock is the Go analogue of TaskControlBlock: status plus
// saved context. The context is bookkeeping only once a task has started;
// taskctx.Switch keeps it consistent with what callers that inspect it expect,
// but the goroutine rendezvous below is what actually moves control.
type taskControlBlock struct {
	status TaskStatus
	cx     taskctx.TaskContext
}

// task bundles the control block with the goroutine plumbing that realizes
// scheduling: wake is sent to release this task to run; it is always read
// by a goroutine that is either fresh (first schedule) or parked inside
// Runtime.Yield (a later schedule).
type task struct {
	id   int
	fn   AppFunc
	wake chan struct{}
}

// Manager is the Go analogue of task::TaskManager: owns every task and
// drives the scheduler. All mutable scheduling state lives behind inner, a
// single-writer cell exactly like the original's UPSafeCell<TaskManagerInner>.
type Manager struct {
	numApp int
	tasks  []*task
	ld     *loader.Loader
	inner  *upCell[managerInner]

	sbi sbi.Provider
	log *klog.Logger

	// currentTask and instructionCount are read by diagnostics without
	// taking inner's exclusive access, the same way gvisor's sentry
	// kernel.Task keeps fields like stopCount and cpu outside its primary
	// lock for lock-free reads.
	currentTask      atomicbitops.Int32
	instructionCount atomicbitops.Uint64

	exitCode     []int32
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

type managerInner struct {
	blocks      []taskControlBlock
	currentTask int
}

// New builds a Manager for every app ld has loaded, wiring fns[i] as task
// i's entry point. len(fns) must equal ld.NumApp().
func New(ld *loader.Loader, fns []AppFunc, provider sbi.Provider, log *klog.Logger) *Manager {
	n := ld.NumApp()
	m := &Manager{
		numApp:   n,
		tasks:    make([]*task, n),
		ld:       ld,
		sbi:      provider,
		log:      log,
		exitCode: make([]int32, n),
		shutdown: make(chan struct{}),
	}
	blocks := make([]taskControlBlock, n)
	for i := 0; i < n; i++ {
		blocks[i] = taskControlBlock{
			status: StatusReady,
			cx:     ld.InitTaskContext(i),
		}
		m.tasks[i] = &task{id: i, fn: fns[i], wake: make(chan struct{})}
	}
	m.inner = newUPCell(managerInner{blocks: blocks, currentTask: 0})
	m.currentTask.Store(-1)
	return m
}

// LogAppInfo mirrors AppManager::log_app_info's boot-time debug dump.
func (m *Manager) LogAppInfo() {
	m.log.Debug("num_app = %d", m.numApp)
}

// Run starts every task's goroutine (parked until scheduled), hands the
// first one control, and blocks until every task has exited and the
// machine shuts down, the Go equivalent of run_first_task() never
// returning to its caller.
func (m *Manager) Run() {
	for _, t := range m.tasks {
		go m.runTaskGoroutine(t)
	}
	m.runFirstTask()
	<-m.shutdown
}

// runTaskGoroutine is the body of a task's dedicated goroutine. A panic
// raised while running the app (an unsupported syscall or fd, an
// unrecognized trap cause) is this goroutine's own, and Go gives no way
// for any other goroutine's recover() to catch it, so it is handled here,
// the same way the original's #[panic_handler] is the last stop for a
// trap the kernel cannot service.
func (m *Manager) runTaskGoroutine(t *task) {
	defer func() {
		if r := recover(); r != nil {
			kpanic.Handle(m.log, m.requestShutdown, "task %d panicked: %s", t.id, kpanic.Recover(r))
		}
	}()
	<-t.wake // wait to be scheduled for the first time
	rt := &Runtime{m: m, task: t}
	code := t.fn(rt)
	m.exitCurrentAndRunNext(t, code)
}

// requestShutdown unblocks Run's <-m.shutdown exactly once, regardless of
// whether it is reached via runNext finding no more ready tasks or via a
// recovered panic in runTaskGoroutine; m.shutdown must never be closed
// twice.
func (m *Manager) requestShutdown(failure bool) {
	m.shutdownOnce.Do(func() {
		m.currentTask.Store(-1)
		close(m.shutdown)
		m.sbi.Shutdown(failure)
	})
}

// runFirstTask is the Go analogue of TaskManager::run_first_task: mark
// task 0 Running and release it to run.
func (m *Manager) runFirstTask() {
	// The original hands __switch a throwaway zeroed "current" context it
	// never switches back into; kept here so task 0's recorded context
	// moves through the same save/restore every later switch uses.
	unused := taskctx.Zero()
	m.inner.access(func(in *managerInner) {
		in.blocks[0].status = StatusRunning
		in.currentTask = 0
		taskctx.Switch(&unused, &in.blocks[0].cx)
	})
	m.currentTask.Store(0)
	m.tasks[0].wake <- struct{}{}
}

// markCurrentSuspended mirrors TaskManager::mark_current_suspended.
func (m *Manager) markCurrentSuspended(id int) {
	m.inner.access(func(in *managerInner) {
		in.blocks[id].status = StatusReady
	})
}

// markCurrentExited mirrors TaskManager::mark_current_exited.
func (m *Manager) markCurrentExited(id int) {
	m.inner.access(func(in *managerInner) {
		in.blocks[id].status = StatusExited
	})
}

// findNextTask mirrors TaskManager::find_next_task: starting just after
// current, scan round-robin for the first Ready task (which may be
// current itself, if it is the only Ready task left).
func (m *Manager) findNextTask(current int) (int, bool) {
	found := -1
	m.inner.access(func(in *managerInner) {
		for off := 1; off <= m.numApp; off++ {
			id := (current + off) % m.numApp
			if in.blocks[id].status == StatusReady {
				found = id
				return
			}
		}
	})
	return found, found >= 0
}

// runNext mirrors TaskManager::run_next_task. current is the task handing
// off control; if parkSelf is non-nil (the suspend path), the caller's
// goroutine blocks on its own wake channel until later rescheduled, the
// Go analogue of __switch returning once something switches back into it.
// The exit path passes parkSelf=nil: that goroutine is about to return
// from its AppFunc and terminate, nothing to park.
func (m *Manager) runNext(current int, parkSelf *task) {
	next, ok := m.findNextTask(current)
	if !ok {
		m.log.Info("All applications completed!")
		m.requestShutdown(false)
		return
	}
	if parkSelf != nil && next == current {
		// The caller is the only Ready task left. __switch with
		// prev == next is a harmless save/restore; here the goroutine
		// equivalent is marking the task Running again and returning
		// without touching its own wake channel, which has no peer to
		// receive from it.
		m.inner.access(func(in *managerInner) {
			in.blocks[next].status = StatusRunning
		})
		return
	}
	m.inner.access(func(in *managerInner) {
		in.blocks[next].status = StatusRunning
		in.currentTask = next
		taskctx.Switch(&in.blocks[current].cx, &in.blocks[next].cx)
	})
	m.currentTask.Store(int32(next))
	m.tasks[next].wake <- struct{}{}
	if parkSelf != nil {
		<-parkSelf.wake
	}
}

// suspendCurrentAndRunNext mirrors suspend_current_and_run_next: the
// calling goroutine parks here and only returns once it is next
// rescheduled, i.e. once this call returns the task should resume exactly
// as if sys_yield had returned in the original.
func (m *Manager) suspendCurrentAndRunNext(t *task) {
	m.markCurrentSuspended(t.id)
	m.runNext(t.id, t)
}

// exitCurrentAndRunNext mirrors exit_current_and_run_next.
func (m *Manager) exitCurrentAndRunNext(t *task, code int32) {
	m.exitCode[t.id] = code
	m.markCurrentExited(t.id)
	m.runNext(t.id, nil)
}

// CurrentTask returns the id of whichever task is currently Running, or -1
// once every task has exited. Safe to call without holding inner's
// exclusive access, per the atomicbitops-backed diagnostic contract above.
func (m *Manager) CurrentTask() int {
	return int(m.currentTask.Load())
}

// InstructionCount returns the total number of Runtime.Tick calls observed
// across every task, a coarse proxy for retired-instruction count used to
// drive deterministic timer preemption (see runtime.go).
func (m *Manager) InstructionCount() uint64 {
	return m.instructionCount.Load()
}

// ExitCode returns the exit code app id returned, valid once it has exited.
func (m *Manager) ExitCode(id int) int32 { return m.exitCode[id] }
