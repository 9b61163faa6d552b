package kapp

// Power mirrors `02_power.rs`: compute P^i mod MOD over a rolling window
// of SIZE values, logging progress every 10000 iterations. Its tight inner
// loop has no explicit sys_yield, so it relies on this port's deterministic
// timer-checkpoint preemption (Runtime.Tick, driven every loop iteration
// here) to ever give up the CPU, exactly as the original relies on a real
// timer interrupt firing mid-loop.
func Power(e *env) int32 {
	const (
		size = 10
		p    = 3
		step = 100000
		mod  = 10007
	)
	pow := make([]uint32, size)
	index := 0
	pow[index] = 1
	for i := 1; i <= step; i++ {
		last := pow[index]
		index = (index + 1) % size
		pow[index] = last * p % mod
		if i%10000 == 0 {
			e.info("(%d^%d)%%%d=%d", p, i, mod, pow[index])
		}
		e.rt.Tick()
	}
	e.info("Test power OK!")
	return 0
}
