package apptable

import "testing"

func TestNewRejectsTooManyApps(t *testing.T) {
	apps := make([][]byte, 3)
	if _, err := New(apps, 2); err == nil {
		t.Fatalf("expected an error when app count exceeds maxApps")
	}
}

func TestNewAccepts(t *testing.T) {
	apps := [][]byte{[]byte("a"), []byte("bb")}
	table, err := New(apps, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.NumApp != 2 {
		t.Fatalf("NumApp = %d, want 2", table.NumApp)
	}
	start, end := table.Bounds(1)
	if start != 0 || end != 2 {
		t.Fatalf("Bounds(1) = (%d, %d), want (0, 2)", start, end)
	}
}
