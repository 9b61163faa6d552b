package taskctx

import "testing"

func TestLayout(t *testing.T) {
	if Size != 14*8 {
		t.Fatalf("TaskContext size = %d, want %d", Size, 14*8)
	}
}

func TestGotoTrapReturn(t *testing.T) {
	cx := GotoTrapReturn(0x8100_0000)
	if !cx.NeverRun() {
		t.Fatalf("freshly built context should report NeverRun")
	}
	if cx.SP != 0x8100_0000 {
		t.Fatalf("sp = %#x, want %#x", cx.SP, 0x8100_0000)
	}
}

func TestSwitch(t *testing.T) {
	prev := TaskContext{RA: 1, SP: 2}
	next := TaskContext{RA: 3, SP: 4}
	Switch(&prev, &next)
	if prev.RA != 3 || prev.SP != 4 {
		t.Fatalf("prev after switch = %+v, want RA=3 SP=4", prev)
	}
	if next.RA != 1 || next.SP != 2 {
		t.Fatalf("next after switch = %+v, want RA=1 SP=2", next)
	}
}
