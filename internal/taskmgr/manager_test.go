package taskmgr

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rvcore-os/kernel/internal/apptable"
	"github.com/rvcore-os/kernel/internal/kconfig"
	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/loader"
	"github.com/rvcore-os/kernel/internal/sbi"
)

func newTestManager(t *testing.T, n int, fns []AppFunc) (*Manager, *sbi.Hosted, *bool) {
	t.Helper()
	images := make([][]byte, n)
	for i := range images {
		images[i] = []byte("x")
	}
	table, err := apptable.New(images, kconfig.MaxApps)
	if err != nil {
		t.Fatalf("apptable.New: %v", err)
	}
	ld, err := loader.Load(table, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	shutdownFailure := new(bool)
	var once sync.Once
	provider := sbi.NewHosted(&bytes.Buffer{}, func(failure bool) {
		once.Do(func() { *shutdownFailure = failure })
	})
	log := klog.New(&bytes.Buffer{})
	return New(ld, fns, provider, log), provider, shutdownFailure
}

func TestRunSingleTaskExitsCleanly(t *testing.T) {
	var ran bool
	fn := func(rt *Runtime) int32 {
		ran = true
		return 0
	}
	mgr, _, _ := newTestManager(t, 1, []AppFunc{fn})
	mgr.Run()
	if !ran {
		t.Fatalf("single task never ran")
	}
	if mgr.ExitCode(0) != 0 {
		t.Fatalf("exit code = %d, want 0", mgr.ExitCode(0))
	}
}

func TestRoundRobinInterleaving(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	makeFn := func(name string, yields int) AppFunc {
		return func(rt *Runtime) int32 {
			for i := 0; i < yields; i++ {
				record(name)
				rt.Yield()
			}
			record(name)
			return 0
		}
	}

	mgr, _, _ := newTestManager(t, 2, []AppFunc{makeFn("a", 2), makeFn("b", 1)})
	mgr.Run()

	want := []string{"a", "b", "a", "b", "a"}
	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if mgr.ExitCode(0) != 0 || mgr.ExitCode(1) != 0 {
		t.Fatalf("expected both tasks to exit 0")
	}
}

func TestAllApplicationsCompletedShutsDown(t *testing.T) {
	fn := func(rt *Runtime) int32 { return 42 }
	mgr, _, failure := newTestManager(t, 1, []AppFunc{fn})
	mgr.Run()
	if *failure {
		t.Fatalf("clean completion should shut down with failure=false")
	}
	if mgr.ExitCode(0) != 42 {
		t.Fatalf("exit code = %d, want 42", mgr.ExitCode(0))
	}
}

func TestYieldAsOnlyReadyTaskResumesCaller(t *testing.T) {
	var resumed bool
	fn := func(rt *Runtime) int32 {
		rt.Yield() // no other Ready task exists; must come straight back
		resumed = true
		return 0
	}
	mgr, _, failure := newTestManager(t, 1, []AppFunc{fn})
	mgr.Run()
	if !resumed {
		t.Fatalf("a lone task's yield never resumed it")
	}
	if *failure {
		t.Fatalf("a lone task yielding should not fail the machine")
	}
	if mgr.ExitCode(0) != 0 {
		t.Fatalf("exit code = %d, want 0", mgr.ExitCode(0))
	}
}

func TestTickPreemptsAtQuantumBoundary(t *testing.T) {
	fn := func(rt *Runtime) int32 {
		for i := 0; i < 3*checkpointTicks; i++ {
			rt.Tick()
		}
		return 0
	}
	mgr, _, failure := newTestManager(t, 1, []AppFunc{fn})
	mgr.Run()
	if *failure {
		t.Fatalf("tick-driven preemption of a lone task should not fail the machine")
	}
	if got := mgr.InstructionCount(); got != 3*checkpointTicks {
		t.Fatalf("instruction count = %d, want %d", got, 3*checkpointTicks)
	}
}

func TestUPCellPanicsOnReentrantAccess(t *testing.T) {
	c := newUPCell(0)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on re-entrant exclusive access")
		}
	}()
	c.access(func(v *int) {
		c.access(func(v2 *int) {}) // re-entrant: must panic
	})
}
