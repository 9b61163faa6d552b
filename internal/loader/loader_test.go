package loader

import (
	"bytes"
	"testing"

	"github.com/rvcore-os/kernel/internal/apptable"
	"github.com/rvcore-os/kernel/internal/kconfig"
)

func TestLoadAssignsDistinctSlots(t *testing.T) {
	table, err := apptable.New([][]byte{[]byte("app0"), []byte("app1")}, kconfig.MaxApps)
	if err != nil {
		t.Fatalf("apptable.New: %v", err)
	}
	ld, err := Load(table, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ld.NumApp() != 2 {
		t.Fatalf("NumApp = %d, want 2", ld.NumApp())
	}
	a0, a1 := ld.App(0), ld.App(1)
	if a0.BaseAddress != kconfig.AppBaseAddress {
		t.Fatalf("app 0 base = %#x, want %#x", a0.BaseAddress, kconfig.AppBaseAddress)
	}
	if a1.BaseAddress != kconfig.AppBaseAddress+kconfig.AppSizeLimit {
		t.Fatalf("app 1 base = %#x, want %#x", a1.BaseAddress, kconfig.AppBaseAddress+kconfig.AppSizeLimit)
	}
	if a0.Kernel == a1.Kernel || a0.User == a1.User {
		t.Fatalf("apps must not share stacks")
	}
}

func TestLoadRejectsOversizedImage(t *testing.T) {
	big := make([]byte, kconfig.AppSizeLimit+1)
	table, err := apptable.New([][]byte{big}, kconfig.MaxApps)
	if err != nil {
		t.Fatalf("apptable.New: %v", err)
	}
	if _, err := Load(table, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an error for an image exceeding AppSizeLimit")
	}
}

func TestInitTaskContextNeverRun(t *testing.T) {
	table, err := apptable.New([][]byte{[]byte("app0")}, kconfig.MaxApps)
	if err != nil {
		t.Fatalf("apptable.New: %v", err)
	}
	ld, err := Load(table, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cx := ld.InitTaskContext(0)
	if !cx.NeverRun() {
		t.Fatalf("freshly loaded task's context should report NeverRun")
	}
}
