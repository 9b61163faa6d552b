package trapctx

import "testing"

func TestAppInitContext(t *testing.T) {
	cx := AppInitContext(0x8040_0000, 0x8100_0000)

	if cx.Sepc != 0x8040_0000 {
		t.Fatalf("sepc = %#x, want %#x", cx.Sepc, 0x8040_0000)
	}
	if cx.X[RegSP] != 0x8100_0000 {
		t.Fatalf("sp = %#x, want %#x", cx.X[RegSP], 0x8100_0000)
	}
	if cx.Sstatus&SstatusSPP != 0 {
		t.Fatalf("SPP bit set, want previous-mode User (SPP=0)")
	}
}

func TestSetSP(t *testing.T) {
	var cx TrapContext
	cx.SetSP(0x1234)
	if cx.X[2] != 0x1234 {
		t.Fatalf("x[2] = %#x, want 0x1234", cx.X[2])
	}
}

func TestLayout(t *testing.T) {
	if Size != 34*8 {
		t.Fatalf("TrapContext size = %d, want %d", Size, 34*8)
	}
}
