// File: reactor/multiplexer_test.go
// License: Apache-2.0

package reactor

import (
	"testing"
	"time"
)

// captureBackend records the timeout handed to wait.
type captureBackend struct {
	lastTimeoutMs int
}

func (b *captureBackend) register(fd int, read, write bool) error { return nil }
func (b *captureBackend) modify(fd int, read, write bool) error   { return nil }
func (b *captureBackend) deregister(fd int) error                 { return nil }

func (b *captureBackend) wait(out []readiness, timeoutMs int) ([]readiness, error) {
	b.lastTimeoutMs = timeoutMs
	return out, nil
}

func (b *captureBackend) wake() error  { return nil }
func (b *captureBackend) close() error { return nil }

func TestPollTimeoutConversion(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()
	_ = m.backend.close()
	cb := &captureBackend{}
	m.backend = cb

	cases := []struct {
		in   time.Duration
		want int
	}{
		{-1, -1},
		{0, 0},
		{200 * time.Microsecond, 1}, // rounds up, never to non-blocking
		{time.Millisecond, 1},
		{1500 * time.Microsecond, 1},
		{10 * time.Millisecond, 10},
	}
	for _, tc := range cases {
		if _, err := m.Poll(tc.in); err != nil {
			t.Fatalf("Poll(%v): %v", tc.in, err)
		}
		if cb.lastTimeoutMs != tc.want {
			t.Errorf("Poll(%v) passed %d ms to the backend, want %d", tc.in, cb.lastTimeoutMs, tc.want)
		}
	}
}
