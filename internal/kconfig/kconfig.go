// Package kconfig holds the fixed memory map and timing constants for the
// kernel core. None of these are runtime-configurable: the original system
// fixes them at link/build time, and this port keeps them as constants for
// the same reason: there is no dynamic memory layout to reconfigure.
package kconfig

const (
	// MTimeFrequencyHz is the machine-time counter rate: 10 MHz, i.e. one
	// tick is 100ns.
	MTimeFrequencyHz = 10_000_000

	// TicksPerSecond is the scheduling quantum rate: one timer interrupt
	// every 10ms of wall time.
	TicksPerSecond = 100

	// MicroPerSec converts the mtime-derived microsecond counter used by
	// gettimeofday.
	MicroPerSec = 1_000_000

	// TicksPerQuantum is how many mtime ticks elapse between timer
	// interrupts: 10_000_000 / TICKS_PER_SEC.
	TicksPerQuantum = MTimeFrequencyHz / TicksPerSecond

	// MaxApps bounds the fixed-capacity task array. Exceeding it at init
	// is a fatal configuration error; there is no heap to fall back to.
	MaxApps = 16

	// UserStackSize and KernelStackSize are the per-app stack sizes: two
	// pages each.
	UserStackSize   = 4096 * 2
	KernelStackSize = 4096 * 2

	// AppBaseAddress is the base of the first app slot; app i's slot
	// starts at AppBaseAddress + i*AppSizeLimit (see internal/loader), so
	// every app keeps its own slot.
	AppBaseAddress = 0x8040_0000

	// AppSizeLimit is the stride between consecutive app slots in the
	// kernel image.
	AppSizeLimit = 0x2_0000

	// MemoryEnd is the top of physical RAM visible to the kernel.
	MemoryEnd = 0x8800_0000
)
