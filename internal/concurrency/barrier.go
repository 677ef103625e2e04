// File: internal/concurrency/barrier.go
// License: Apache-2.0
//
// Reusable two-phase barrier. The enter gate releases the full cohort
// together; the exit gate blocks re-entry until every participant of the
// previous generation has left, so a fast thread cannot start a new phase
// while a slow one is still departing.

package concurrency

import "sync/atomic"

// Barrier blocks participants until threadCount of them have arrived, then
// releases them together. Safe for reuse across generations.
type Barrier struct {
	threadCount uint32
	entered     uint32
	exited      uint32
	enterGate   chan struct{}
	exitGate    chan struct{}
}

// NewBarrier creates a barrier for a cohort of threadCount participants.
func NewBarrier(threadCount uint32) *Barrier {
	if threadCount == 0 {
		panic("concurrency: barrier thread count must be positive")
	}
	return &Barrier{
		threadCount: threadCount,
		enterGate:   make(chan struct{}, threadCount),
		exitGate:    make(chan struct{}, threadCount),
	}
}

// ThreadCount returns the configured cohort size.
func (b *Barrier) ThreadCount() uint32 {
	return atomic.LoadUint32(&b.threadCount)
}

// SetThreadCount reconfigures the cohort size. Valid only while no
// participant is waiting at the barrier.
func (b *Barrier) SetThreadCount(threadCount uint32) {
	if threadCount == 0 {
		panic("concurrency: barrier thread count must be positive")
	}
	if atomic.LoadUint32(&b.entered) != 0 {
		panic("concurrency: barrier reconfigured while in use")
	}
	atomic.StoreUint32(&b.threadCount, threadCount)
}

// Wait blocks until the full cohort has arrived, then returns in all
// participants. The entered counter never exceeds the cohort size: it is
// reset by the last participant to leave, before the exit gate opens.
func (b *Barrier) Wait() {
	tc := atomic.LoadUint32(&b.threadCount)

	// Enter phase. The last arriver opens the gate for everyone else.
	if atomic.AddUint32(&b.entered, 1) == tc {
		atomic.StoreUint32(&b.exited, 0)
		for i := uint32(1); i < tc; i++ {
			b.enterGate <- struct{}{}
		}
	} else {
		<-b.enterGate
	}

	// Exit phase. The last one out resets the entry count and releases the
	// rest, which makes the barrier safe to re-enter immediately.
	if atomic.AddUint32(&b.exited, 1) == tc {
		atomic.StoreUint32(&b.entered, 0)
		for i := uint32(1); i < tc; i++ {
			b.exitGate <- struct{}{}
		}
	} else {
		<-b.exitGate
	}
}
