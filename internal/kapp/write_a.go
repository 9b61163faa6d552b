package kapp

import "strings"

// WriteA mirrors `05_write_a.rs`/`write_a.rs`: print a WIDTH-wide row of
// 'A's HEIGHT times, yielding after each row.
func WriteA(e *env) int32 {
	const (
		width  = 10
		height = 5
	)
	row := strings.Repeat("A", width)
	for i := 0; i < height; i++ {
		e.println("%s", row)
		e.info(" [%d/%d]", i+1, height)
		e.yield_()
	}
	e.info("Test write_a OK!")
	return 0
}
