package trap

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rvcore-os/kernel/internal/apptable"
	"github.com/rvcore-os/kernel/internal/kconfig"
	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/ksyscall"
	"github.com/rvcore-os/kernel/internal/loader"
	"github.com/rvcore-os/kernel/internal/sbi"
	"github.com/rvcore-os/kernel/internal/taskmgr"
	"github.com/rvcore-os/kernel/internal/trapctx"
)

func harness(t *testing.T, drive func(rt *taskmgr.Runtime, log *klog.Logger)) (console, klogOut *bytes.Buffer, shutdownFailure *bool) {
	t.Helper()
	console = &bytes.Buffer{}
	klogOut = &bytes.Buffer{}
	table, err := apptable.New([][]byte{[]byte("x")}, kconfig.MaxApps)
	if err != nil {
		t.Fatalf("apptable.New: %v", err)
	}
	ld, err := loader.Load(table, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	shutdownFailure = new(bool)
	var once sync.Once
	provider := sbi.NewHosted(console, func(failure bool) {
		once.Do(func() { *shutdownFailure = failure })
	})
	log := klog.New(klogOut)
	fn := func(rt *taskmgr.Runtime) int32 {
		drive(rt, log)
		return 0
	}
	mgr := taskmgr.New(ld, []taskmgr.AppFunc{fn}, provider, log)
	mgr.Run()
	return console, klogOut, shutdownFailure
}

func TestDispatchSyscallRoutesThroughTrapContext(t *testing.T) {
	console, _, failure := harness(t, func(rt *taskmgr.Runtime, log *klog.Logger) {
		cx := rt.TrapContext()
		cx.X[trapctx.RegSyscID] = ksyscall.SysWrite
		cx.X[trapctx.RegA0] = ksyscall.STDOUT
		cx.X[trapctx.RegA2] = 2
		sepc := cx.Sepc
		n := Dispatch(rt, log, CauseSyscall, Frame{}, cx, ksyscall.Args{Buf: []byte("ok")})
		if n != 2 {
			t.Errorf("Dispatch(CauseSyscall) = %d, want 2", n)
		}
		if cx.X[trapctx.RegA0] != 2 {
			t.Errorf("x10 slot = %d, want the syscall result 2", cx.X[trapctx.RegA0])
		}
		if cx.Sepc != sepc+4 {
			t.Errorf("sepc = %#x, want %#x (advanced past the ecall)", cx.Sepc, sepc+4)
		}
	})
	if *failure {
		t.Fatalf("a valid syscall dispatch should not shut the machine down")
	}
	if console.String() != "ok" {
		t.Fatalf("console = %q, want %q", console.String(), "ok")
	}
}

func TestDispatchWritesNegativeResultIntoX10(t *testing.T) {
	_, _, failure := harness(t, func(rt *taskmgr.Runtime, log *klog.Logger) {
		cx := rt.TrapContext()
		cx.X[trapctx.RegSyscID] = ksyscall.SysNanosleep
		n := Dispatch(rt, log, CauseSyscall, Frame{}, cx, ksyscall.Args{}) // null req
		if n != -22 {
			t.Errorf("Dispatch(nanosleep, null req) = %d, want -22", n)
		}
		if got := int64(cx.X[trapctx.RegA0]); got != -22 {
			t.Errorf("x10 slot = %d, want -22", got)
		}
	})
	if *failure {
		t.Fatalf("sys_nanosleep(null) should not shut the machine down")
	}
}

func TestDispatchIllegalInstructionKillsTask(t *testing.T) {
	_, klogOut, failure := harness(t, func(rt *taskmgr.Runtime, log *klog.Logger) {
		Dispatch(rt, log, CauseIllegalInstruction, Frame{}, rt.TrapContext(), ksyscall.Args{})
	})
	if *failure {
		t.Fatalf("killing one offending app should not itself fail machine shutdown")
	}
	if !strings.Contains(klogOut.String(), "IllegalInstruction in application, kernel killed it.") {
		t.Fatalf("kernel log missing kill message: %q", klogOut.String())
	}
}

func TestDispatchStoreFaultKillsTaskAndLogsBadAddr(t *testing.T) {
	_, klogOut, failure := harness(t, func(rt *taskmgr.Runtime, log *klog.Logger) {
		Dispatch(rt, log, CauseStoreFault, Frame{StVal: 0}, rt.TrapContext(), ksyscall.Args{})
	})
	if *failure {
		t.Fatalf("killing one offending app should not itself fail machine shutdown")
	}
	got := klogOut.String()
	if !strings.Contains(got, "StorePageFault") || !strings.Contains(got, "bad addr = 0x0") {
		t.Fatalf("kernel log missing store-fault diagnostics: %q", got)
	}
}

func TestDispatchUnsupportedCausePanics(t *testing.T) {
	_, _, failure := harness(t, func(rt *taskmgr.Runtime, log *klog.Logger) {
		Dispatch(rt, log, Cause(99), Frame{}, rt.TrapContext(), ksyscall.Args{})
	})
	if !*failure {
		t.Fatalf("an unrecognized trap cause should panic and shut the machine down")
	}
}

func TestCauseString(t *testing.T) {
	cases := map[Cause]string{
		CauseSyscall:            "UserEnvCall",
		CauseIllegalInstruction: "IllegalInstruction",
		CauseStoreFault:         "StorePageFault",
		CauseTimer:              "Timer",
		Cause(99):               "Unknown",
	}
	for cause, want := range cases {
		if got := cause.String(); got != want {
			t.Errorf("Cause(%d).String() = %q, want %q", cause, got, want)
		}
	}
}
