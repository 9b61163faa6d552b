package kapp

import "strings"

// WriteC mirrors `write_c.rs`: print a WIDTH-wide row of 'C's HEIGHT
// times, yielding after each row. The original's write_c.rs logs "Test
// write_b OK!" at the end too, a copy-paste artifact of duplicating
// write_b.rs, reproduced here rather than silently corrected.
func WriteC(e *env) int32 {
	const (
		width  = 10
		height = 3
	)
	row := strings.Repeat("C", width)
	for i := 0; i < height; i++ {
		e.println("%s", row)
		e.info(" [%d/%d]", i+1, height)
		e.yield_()
	}
	e.info("Test write_b OK!")
	return 0
}
