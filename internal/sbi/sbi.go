// Package sbi is the kernel's adapter over the SBI (Supervisor Binary
// Interface) firmware calls the original kernel issues directly as ecalls
// from M-mode: console I/O, shutdown, and the mtime-backed timer. Real SBI
// firmware lives below this kernel; Provider is the seam a hosted
// environment implements instead, the same role rv64.Machine.HandleSBI
// plays for its guest, just inverted: there the kernel is the guest
// calling out to a host-emulated SBI; here the kernel core is the caller
// and Provider is the thing that answers.
package sbi

import (
	"io"
	"time"

	"github.com/rvcore-os/kernel/internal/kconfig"
)

// Provider is everything the kernel core needs from firmware. ConsoleByte
// mirrors the legacy SBI_CONSOLE_PUTCHAR extension (ext=0x01); Shutdown
// mirrors SBI_SHUTDOWN (ext=0x08, here modeled as SRST per tinyrange-cc's
// SBIExtSRST); SetNextTimer mirrors the TIME extension's set_timer call;
// ReadTime mirrors reading the mtime CSR directly, which S-mode may do
// without an ecall.
type Provider interface {
	// ConsoleByte writes one byte to the console, as legacy console_putchar.
	ConsoleByte(b byte)
	// Shutdown halts the machine. failure reports whether this is an error
	// exit (SystemFailure) or a clean one (NoReason); it never returns.
	Shutdown(failure bool)
	// SetNextTimer arms the next timer interrupt TicksPerQuantum mtime
	// ticks from now.
	SetNextTimer()
	// ReadTime returns the current mtime counter value.
	ReadTime() uint64
}

// Hosted is a Provider backed by a host OS process: real wall-clock time
// scaled to the original's 10MHz mtime frequency, and a plain io.Writer
// console. It is the "firmware" cmd/kernel links against; tests construct
// their own Hosted over a bytes.Buffer and a recording exit func.
type Hosted struct {
	Console io.Writer
	Exit    func(failure bool) // called by Shutdown; tests substitute a recorder

	start    time.Time
	nextTick uint64
}

// NewHosted builds a Hosted provider writing console bytes to console and
// calling exit on shutdown. exit must not return for production use (it
// should call os.Exit); tests instead pass a recorder.
func NewHosted(console io.Writer, exit func(failure bool)) *Hosted {
	return &Hosted{Console: console, Exit: exit, start: time.Now()}
}

func (h *Hosted) ConsoleByte(b byte) {
	if h.Console != nil {
		h.Console.Write([]byte{b})
	}
}

func (h *Hosted) Shutdown(failure bool) {
	if h.Exit != nil {
		h.Exit(failure)
	}
}

// ReadTime returns elapsed wall-clock time since the provider was created,
// expressed in mtime ticks (one tick = 100ns, matching MTimeFrequencyHz).
func (h *Hosted) ReadTime() uint64 {
	elapsed := time.Since(h.start)
	return uint64(elapsed.Nanoseconds() / 100)
}

// SetNextTimer arms the next timer interrupt one quantum of mtime ticks
// from now. Hosted does not itself deliver the interrupt; TimerPending
// compares ReadTime against the armed value, the way the CLINT compares
// mtime against mtimecmp. The kernel core does not poll it: preemption is
// driven by taskmgr's Runtime.Tick checkpoints.
func (h *Hosted) SetNextTimer() {
	h.nextTick = h.ReadTime() + kconfig.TicksPerQuantum
}

// NextTick is the mtime value the most recent SetNextTimer armed for.
func (h *Hosted) NextTick() uint64 {
	return h.nextTick
}

// TimerPending reports whether the armed timer has elapsed.
func (h *Hosted) TimerPending() bool {
	return h.ReadTime() >= h.nextTick
}

// SleepNS busy-waits for ns nanoseconds of mtime, exactly as the original
// kernel's sbi::sleep_ns does: it converts to ticks (rounding up, one tick
// = 100ns) and spins on ReadTime, handling counter wraparound by first
// waiting for the counter to wrap past its start value.
func SleepNS(p Provider, ns uint64) {
	ticks := (ns + 99) / 100
	sleepTicks(p, ticks)
}

func sleepTicks(p Provider, ticks uint64) {
	start := p.ReadTime()
	target := start + ticks // wraps the same way the original's Wrapping add does

	if target < start {
		// Counter will wrap before reaching target: wait out the wrap first.
		for p.ReadTime() >= start {
		}
	}
	for p.ReadTime() < target {
	}
}

// GetTimeUS returns the current time in microseconds since the provider
// started, as the original's sbi::get_time_us does: mtime / (freq / 1e6).
func GetTimeUS(p Provider) uint64 {
	return p.ReadTime() / (kconfig.MTimeFrequencyHz / kconfig.MicroPerSec)
}
