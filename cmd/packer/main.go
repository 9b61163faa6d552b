// Command packer is a dev-only stand-in for the build-time step that, in
// the original system, concatenates every app ELF behind the `_num_app`
// linker symbol (see `kernel/build.rs`/the link_app.S generator, not
// retained in the distillation). It exists only to build test fixture
// images from a YAML manifest; the kernel core never imports this
// package or runs it as part of booting.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rvcore-os/kernel/internal/apptable"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the app manifest (YAML)")
	outDir := flag.String("out", ".", "directory to write packed app images into")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "packer: -manifest is required")
		os.Exit(2)
	}

	m, err := apptable.LoadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "packer:", err)
		os.Exit(1)
	}

	images, err := m.Pack()
	if err != nil {
		fmt.Fprintln(os.Stderr, "packer:", err)
		os.Exit(1)
	}

	for i, app := range m.Apps {
		dst := fmt.Sprintf("%s/%02d_%s.bin", *outDir, i, app.Name)
		if err := os.WriteFile(dst, images[i], 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "packer:", err)
			os.Exit(1)
		}
		fmt.Printf("packed %s -> %s (%d bytes)\n", app.Name, dst, len(images[i]))
	}
}
