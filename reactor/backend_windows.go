// File: reactor/backend_windows.go
// License: Apache-2.0
//
// Windows I/O completion port backend. Socket handles are associated with
// the port using the descriptor as completion key; completions surface as
// combined read/write readiness. Explicit wakeups post a reserved key.

//go:build windows

package reactor

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// wakeKey is the completion key reserved for cross-thread wakeups.
const wakeKey = ^uintptr(0)

type iocpBackend struct {
	port      windows.Handle
	maxEvents int
}

func newPollBackend(maxEvents int) (pollBackend, error) {
	port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("create completion port: %w", err)
	}
	return &iocpBackend{port: port, maxEvents: maxEvents}, nil
}

func (b *iocpBackend) register(fd int, read, write bool) error {
	_, err := windows.CreateIoCompletionPort(windows.Handle(fd), b.port, uintptr(fd), 0)
	if err != nil {
		return fmt.Errorf("associate handle: %w", err)
	}
	return nil
}

// modify is a no-op: completion ports carry no interest mask, the
// association itself covers all I/O on the handle.
func (b *iocpBackend) modify(fd int, read, write bool) error { return nil }

// deregister is a no-op: an association cannot be removed; completions for
// dropped descriptors are discarded by the dispatcher.
func (b *iocpBackend) deregister(fd int) error { return nil }

func (b *iocpBackend) wait(out []readiness, timeoutMs int) ([]readiness, error) {
	timeout := uint32(windows.INFINITE)
	if timeoutMs >= 0 {
		timeout = uint32(timeoutMs)
	}
	var transferred uint32
	var key uintptr
	var overlapped *windows.Overlapped
	err := windows.GetQueuedCompletionStatus(b.port, &transferred, &key, &overlapped, timeout)
	if err != nil {
		if err == syscall.Errno(windows.WAIT_TIMEOUT) {
			return out, nil
		}
		return out, fmt.Errorf("get queued completion status: %w", err)
	}
	if key == wakeKey {
		return out, nil
	}
	return append(out, readiness{fd: int(key), kind: eventRead | eventWrite}), nil
}

func (b *iocpBackend) wake() error {
	return windows.PostQueuedCompletionStatus(b.port, 0, wakeKey, nil)
}

func (b *iocpBackend) close() error {
	return windows.CloseHandle(b.port)
}
