// Package apptable reproduces the `_num_app` linker-symbol contract the
// original kernel reads at boot (`kernel/src/task/mod.rs`'s `global::APP_MANAGER`
// lazy_static, and the chapter-2 `batch.rs` equivalent): a packed table of
// app count followed by each app's start offset and the final app's end
// offset, baked into the kernel image by the build-time packer. Since this
// port has no linker step, the table is built directly from a slice of app
// images handed to New.
package apptable

import "fmt"

// Table is the parsed app layout: App i occupies Images[i]. There is no
// single packed image blob as in the original, where app_start[i] and
// app_start[i+1] delimit app i; each app keeps its own slice.
type Table struct {
	// NumApp is the number of apps packed into the image.
	NumApp int
	// Images holds each app's raw binary bytes, in load order.
	Images [][]byte
}

// New validates apps against kconfig.MaxApps and returns the parsed Table.
// Exceeding MaxApps is a fatal configuration error in the original (the
// app_start array is a fixed MAX_APP_NUM+1 array); here it is reported as
// an error so callers can decide how to fail.
func New(apps [][]byte, maxApps int) (*Table, error) {
	if len(apps) > maxApps {
		return nil, fmt.Errorf("apptable: %d apps exceeds MaxApps=%d", len(apps), maxApps)
	}
	return &Table{NumApp: len(apps), Images: apps}, nil
}

// Bounds returns the (start, end) byte offsets of app id within its own
// image slice; trivial here since each app's bytes are already split out,
// but kept as a method so callers read "app_start[i], app_start[i+1]"-style
// code the way the original does.
func (t *Table) Bounds(id int) (start, end int) {
	return 0, len(t.Images[id])
}
