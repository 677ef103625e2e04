// File: internal/concurrency/condvar.go
// License: Apache-2.0
//
// Condition variable with timed waits. sync.Cond has no timeout, so waiters
// are parked on per-waiter channels instead; Signal wakes in FIFO order.

package concurrency

import (
	"sync"
	"time"
)

// ConditionVariable blocks callers until signaled. The associated lock is
// supplied by the caller at wait time and is always re-acquired before a
// wait returns, timed out or not.
//
// Destroy order is the caller's responsibility: drop the last reference
// only after every waiter has been woken.
type ConditionVariable struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

// NewConditionVariable creates an idle condition variable.
func NewConditionVariable() *ConditionVariable {
	return &ConditionVariable{}
}

// Wait releases l, blocks until signaled, then re-acquires l.
// l must be held on entry.
func (cv *ConditionVariable) Wait(l sync.Locker) {
	ch := cv.enqueue()
	l.Unlock()
	<-ch
	l.Lock()
}

// WaitTimeout is Wait with an upper bound. It reports whether the waiter
// was signaled; false means the timeout elapsed first. l is re-acquired
// before returning in both cases.
func (cv *ConditionVariable) WaitTimeout(l sync.Locker, d time.Duration) bool {
	ch := cv.enqueue()
	l.Unlock()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ch:
		l.Lock()
		return true
	case <-t.C:
		removed := cv.dequeue(ch)
		l.Lock()
		if removed {
			return false
		}
		// A signal consumed this waiter between the timer firing and the
		// dequeue; honor it.
		<-ch
		return true
	}
}

// Signal wakes the longest-waiting waiter, if any.
func (cv *ConditionVariable) Signal() {
	cv.mu.Lock()
	if len(cv.waiters) > 0 {
		close(cv.waiters[0])
		cv.waiters = cv.waiters[1:]
	}
	cv.mu.Unlock()
}

// Broadcast wakes every current waiter.
func (cv *ConditionVariable) Broadcast() {
	cv.mu.Lock()
	for _, ch := range cv.waiters {
		close(ch)
	}
	cv.waiters = nil
	cv.mu.Unlock()
}

func (cv *ConditionVariable) enqueue() chan struct{} {
	ch := make(chan struct{})
	cv.mu.Lock()
	cv.waiters = append(cv.waiters, ch)
	cv.mu.Unlock()
	return ch
}

// dequeue removes ch from the wait list. It reports false if a signal
// already claimed the channel.
func (cv *ConditionVariable) dequeue(ch chan struct{}) bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	for i, w := range cv.waiters {
		if w == ch {
			cv.waiters = append(cv.waiters[:i], cv.waiters[i+1:]...)
			return true
		}
	}
	return false
}
