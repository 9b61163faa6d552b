// Command kernel boots the RISC-V teaching kernel core: it builds the
// app table, loads every sample app, logs the boot-time memory-layout
// trace `rust_main` prints before handing off to the scheduler, and runs
// every app to completion exactly as `rust_main` -> `task::run_first_task`
// does, just without ever leaving a hosted Go process.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/vt"
	"github.com/rvcore-os/kernel/internal/apptable"
	"github.com/rvcore-os/kernel/internal/kapp"
	"github.com/rvcore-os/kernel/internal/kconfig"
	"github.com/rvcore-os/kernel/internal/klog"
	"github.com/rvcore-os/kernel/internal/loader"
	"github.com/rvcore-os/kernel/internal/sbi"
	"github.com/rvcore-os/kernel/internal/taskmgr"
	"golang.org/x/term"
)

func main() {
	tui := flag.Bool("tui", false, "replay the console byte stream through a vt terminal emulator")
	raw := flag.Bool("raw", false, "put the host terminal in raw mode for the duration of the run")
	flag.Parse()

	if *raw && term.IsTerminal(int(os.Stdin.Fd())) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			fmt.Fprintln(os.Stderr, "kernel: failed to set raw terminal mode:", err)
			os.Exit(1)
		}
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	var consoleOut io.Writer = os.Stdout
	var emu *vt.SafeEmulator
	if *tui {
		emu = vt.NewSafeEmulator(80, 40)
		consoleOut = emu
	}

	log := klog.New(os.Stderr)
	log.Trace("rcore started!")
	log.Trace("text [%#x, %#x)", kconfig.AppBaseAddress, kconfig.AppBaseAddress+0x1000)
	log.Trace("boot_stack top=bottom=%#x, lower_bound=%#x", kconfig.MemoryEnd, kconfig.MemoryEnd-kconfig.KernelStackSize)

	apps := kapp.All(log)
	images := make([][]byte, len(apps))
	for i, a := range apps {
		images[i] = []byte(a.Name) // each app's slot holds its name; the entry point itself is a Go function
	}

	table, err := apptable.New(images, kconfig.MaxApps)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	ld, err := loader.Load(table, os.Stderr)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}

	fns := make([]taskmgr.AppFunc, len(apps))
	for i, a := range apps {
		fns[i] = a.Fn
	}

	provider := sbi.NewHosted(consoleOut, func(failure bool) {
		if *tui {
			renderEmulator(emu, os.Stdout)
		}
		if failure {
			os.Exit(1)
		}
		os.Exit(0)
	})

	mgr := taskmgr.New(ld, fns, provider, log)
	mgr.LogAppInfo()
	provider.SetNextTimer() // arm the first tick before handing control to task 0
	mgr.Run()
}

func renderEmulator(emu *vt.SafeEmulator, out io.Writer) {
	w, h := emu.Width(), emu.Height()
	for y := 0; y < h; y++ {
		var line []rune
		for x := 0; x < w; x++ {
			cell := emu.CellAt(x, y)
			if cell == nil || cell.Content == "" {
				line = append(line, ' ')
				continue
			}
			line = append(line, []rune(cell.Content)...)
		}
		fmt.Fprintln(out, string(line))
	}
}
