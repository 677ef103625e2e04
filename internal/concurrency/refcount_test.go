// File: internal/concurrency/refcount_test.go
// License: Apache-2.0

package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRefCount_SingleWinner(t *testing.T) {
	const holders = 64
	rc := NewRefCount()
	for i := 1; i < holders; i++ {
		rc.Acquire()
	}

	var zeroes int32
	var wg sync.WaitGroup
	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rc.Release() {
				atomic.AddInt32(&zeroes, 1)
			}
		}()
	}
	wg.Wait()

	if zeroes != 1 {
		t.Fatalf("%d releasers observed the zero transition, want exactly 1", zeroes)
	}
	if rc.Count() != 0 {
		t.Fatalf("count = %d after full release", rc.Count())
	}
}

func TestRefCount_UnderflowPanics(t *testing.T) {
	rc := NewRefCount()
	if !rc.Release() {
		t.Fatal("sole reference release did not report zero")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("release past zero did not panic")
		}
	}()
	rc.Release()
}
