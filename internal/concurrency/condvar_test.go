// File: internal/concurrency/condvar_test.go
// License: Apache-2.0

package concurrency

import (
	"sync"
	"testing"
	"time"
)

func TestConditionVariable_SignalWakesOne(t *testing.T) {
	cv := NewConditionVariable()
	var mu sync.Mutex
	ready := false

	done := make(chan struct{})
	go func() {
		mu.Lock()
		for !ready {
			cv.Wait(&mu)
		}
		mu.Unlock()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.Signal()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken by Signal")
	}
}

func TestConditionVariable_BroadcastWakesAll(t *testing.T) {
	cv := NewConditionVariable()
	var mu sync.Mutex
	ready := false

	const n = 5
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			for !ready {
				cv.Wait(&mu)
			}
			mu.Unlock()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cv.Broadcast()

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("not all waiters woken by Broadcast")
	}
}

func TestConditionVariable_WaitTimeout(t *testing.T) {
	cv := NewConditionVariable()
	var mu sync.Mutex

	mu.Lock()
	start := time.Now()
	signaled := cv.WaitTimeout(&mu, 30*time.Millisecond)
	elapsed := time.Since(start)
	// The lock must be held again on return.
	mu.Unlock()

	if signaled {
		t.Fatal("WaitTimeout reported a signal that never happened")
	}
	if elapsed < 30*time.Millisecond {
		t.Fatalf("WaitTimeout returned after %v, before the deadline", elapsed)
	}
}

func TestConditionVariable_WaitTimeoutSignaled(t *testing.T) {
	cv := NewConditionVariable()
	var mu sync.Mutex

	go func() {
		time.Sleep(20 * time.Millisecond)
		cv.Signal()
	}()

	mu.Lock()
	signaled := cv.WaitTimeout(&mu, 5*time.Second)
	mu.Unlock()
	if !signaled {
		t.Fatal("WaitTimeout timed out despite a pending signal")
	}
}

func TestConditionVariable_SignalWithoutWaiters(t *testing.T) {
	cv := NewConditionVariable()
	cv.Signal()    // must not panic or remember the signal
	cv.Broadcast() // likewise

	var mu sync.Mutex
	mu.Lock()
	if cv.WaitTimeout(&mu, 10*time.Millisecond) {
		t.Fatal("stale signal observed by a later waiter")
	}
	mu.Unlock()
}
