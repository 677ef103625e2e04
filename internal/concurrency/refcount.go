// File: internal/concurrency/refcount.go
// License: Apache-2.0
//
// Atomic reference count. The transition to zero has exactly one logical
// winner even when two releasers race, which is what makes the final
// destructive close of a shared descriptor idempotent.

package concurrency

import "sync/atomic"

// RefCount is an atomic reference counter starting at one. Embed by value;
// use through a pointer.
type RefCount struct {
	n int32
}

// NewRefCount returns a counter holding the creator's single reference.
func NewRefCount() RefCount {
	return RefCount{n: 1}
}

// Acquire adds a reference. Acquiring a fully released counter is a bug.
func (rc *RefCount) Acquire() {
	if atomic.AddInt32(&rc.n, 1) <= 1 {
		panic("concurrency: acquire of released refcount")
	}
}

// Release drops a reference and reports true to the single caller that
// dropped the last one.
func (rc *RefCount) Release() bool {
	n := atomic.AddInt32(&rc.n, -1)
	if n < 0 {
		panic("concurrency: refcount underflow")
	}
	return n == 0
}

// Count returns the current reference count. Diagnostic only; the value is
// stale the moment it is read.
func (rc *RefCount) Count() int32 {
	return atomic.LoadInt32(&rc.n)
}
