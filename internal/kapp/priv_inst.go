package kapp

// PrivInst mirrors `priv_inst.rs`/`04_priv_csr.rs`: attempt to write a
// supervisor CSR from user mode. There is no CSR to actually write in a
// hosted Go process, so the illegal instruction is simulated directly by
// routing through the trap dispatcher's exception arm, which the original
// reaches via a real illegal-instruction trap on the sstatus::set_spp
// call.
func PrivInst(e *env) int32 {
	e.warn("Try to access privileged CSR in U mode, kernel should kill this application!")
	e.illegalInstruction()
	return 0 // unreachable: illegalInstruction never returns
}
