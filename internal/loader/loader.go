// Package loader places each app into its simulated memory slot and builds
// the initial TrapContext/TaskContext pair the task manager needs to start
// it, mirroring `task/mod.rs`'s lazy_static app-table construction and the
// loader the original's `loader::init_app_cx`/`load_apps` provide (those
// exact files were not retained in the distillation, so this follows
// `task/mod.rs`'s call sites and `batch.rs`'s `load_app`/`push_context`,
// which together pin down the same contract). Unlike the chapter-2 batch
// kernel, every app here gets its own fixed slot,
// AppBaseAddress + i*AppSizeLimit,
// so all apps coexist for round-robin scheduling instead of overwriting
// one shared location.
package loader

import (
	"fmt"
	"io"

	"github.com/rvcore-os/kernel/internal/apptable"
	"github.com/rvcore-os/kernel/internal/kconfig"
	"github.com/rvcore-os/kernel/internal/kstack"
	"github.com/rvcore-os/kernel/internal/taskctx"
	"github.com/rvcore-os/kernel/internal/trapctx"
	"github.com/schollz/progressbar/v3"
)

// App is one loaded app: its fixed base address, its image bytes (the
// table's slice, not a copy), and the kernel/user stacks allocated for it.
type App struct {
	ID          int
	BaseAddress uint64
	Image       []byte
	Kernel      *kstack.KernelStack
	User        *kstack.UserStack

	// cxSP is the kernel-stack address of the app's TrapContext, recorded
	// when InitTaskContext pushes it.
	cxSP uint64
}

// Loader owns every app's memory slot and stacks for the lifetime of the
// kernel; taskmgr asks it for each app's initial TaskContext at boot.
type Loader struct {
	apps []*App
}

// Load assigns every app in table its fixed slot, keeping a reference to
// its image slice (the bytes are not copied) and allocating one kernel/user
// stack pair per app, and reports progress the way
// `info!("Loading app_{}", ...)` does in the original, here over a real
// progress bar instead of one log line per app, since num_app can be large
// enough in tests that a line-per-app log is noise.
func Load(table *apptable.Table, progressOut io.Writer) (*Loader, error) {
	if table.NumApp == 0 {
		return &Loader{}, nil
	}
	bar := progressbar.NewOptions(table.NumApp,
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionSetDescription("loading apps"),
		progressbar.OptionClearOnFinish(),
	)

	l := &Loader{apps: make([]*App, table.NumApp)}
	for i, img := range table.Images {
		base := kconfig.AppBaseAddress + uint64(i)*kconfig.AppSizeLimit
		if len(img) > kconfig.AppSizeLimit {
			return nil, fmt.Errorf("loader: app_%d image of %d bytes exceeds AppSizeLimit=%d", i, len(img), kconfig.AppSizeLimit)
		}
		// fence.i in the original invalidates any previously-cached
		// instructions from a prior occupant of this slot; there is no
		// icache to invalidate here, each slot is Go-allocated fresh.
		l.apps[i] = &App{
			ID:          i,
			BaseAddress: base,
			Image:       img,
			Kernel:      kstack.NewKernelStack(),
			User:        kstack.NewUserStack(),
		}
		bar.Add(1)
	}
	return l, nil
}

// NumApp returns how many apps were loaded.
func (l *Loader) NumApp() int { return len(l.apps) }

// App returns the loaded app at id.
func (l *Loader) App(id int) *App { return l.apps[id] }

// InitTaskContext builds the TaskContext app id should start with: a
// TrapContext describing entry at the app's base address and its user
// stack top, pushed onto its kernel stack, wrapped in a TaskContext whose
// RA/SP point at the trap-return trampoline over that pushed context. This
// is the Go equivalent of `TaskContext::goto_restore(init_app_cx(i))`.
func (l *Loader) InitTaskContext(id int) taskctx.TaskContext {
	app := l.apps[id]
	cx := trapctx.AppInitContext(app.BaseAddress, app.User.SP())
	app.cxSP = app.Kernel.PushContext(cx)
	return taskctx.GotoTrapReturn(app.cxSP)
}

// TrapContext returns the live trap frame on app id's kernel stack, the
// one InitTaskContext pushed there. The trap dispatcher reads syscall
// registers out of it and writes results back into it; valid only after
// InitTaskContext has run for this app.
func (l *Loader) TrapContext(id int) *trapctx.TrapContext {
	app := l.apps[id]
	return app.Kernel.ReadContext(app.cxSP)
}
