package kapp

import "strings"

// WriteB mirrors `06_write_b.rs`/`write_b.rs`: print a WIDTH-wide row of
// 'B's HEIGHT times, yielding after each row.
func WriteB(e *env) int32 {
	const (
		width  = 10
		height = 2
	)
	row := strings.Repeat("B", width)
	for i := 0; i < height; i++ {
		e.println("%s", row)
		e.info(" [%d/%d]", i+1, height)
		e.yield_()
	}
	e.info("Test write_b OK!")
	return 0
}
