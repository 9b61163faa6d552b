package taskmgr

import "sync/atomic"

// upCell is the Go analogue of the original's UPSafeCell<T>: a
// single-writer interior-mutability cell. The original relies on running on
// a uniprocessor with no preemption between exclusive_access() and the
// RefMut being dropped, and panics (via RefCell) if that discipline is
// ever violated by re-entrant borrowing. Here the same discipline is
// enforced with an atomic guard instead of RefCell's borrow counter, since
// Go has no equivalent of drop-at-end-of-scope to release it implicitly.
type upCell[T any] struct {
	borrowed atomic.Bool
	value    T
}

func newUPCell[T any](v T) *upCell[T] {
	return &upCell[T]{value: v}
}

// access calls fn with exclusive access to the cell's value, exactly like
// exclusive_access().borrow_mut() followed by use and implicit drop. It
// panics if called re-entrantly (a borrow already outstanding), the same
// failure RefCell::borrow_mut would raise.
func (c *upCell[T]) access(fn func(v *T)) {
	if !c.borrowed.CompareAndSwap(false, true) {
		panic("taskmgr: re-entrant exclusive_access on UPSafeCell")
	}
	defer c.borrowed.Store(false)
	fn(&c.value)
}
