package kapp

// HelloWorld mirrors `00_hello_world.rs`: print a greeting, sleep a
// second, print again.
func HelloWorld(e *env) int32 {
	e.info("Hello, world!")
	e.info("Sleep 1s")
	e.sleepSeconds(1)
	e.info("Sleep finished!")
	e.info("Sleep 1s Again")
	e.sleepSeconds(1)
	e.info("Sleep again finished!")
	return 0
}
