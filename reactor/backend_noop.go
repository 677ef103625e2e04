// File: reactor/backend_noop.go
// License: Apache-2.0
//
// Single-threaded stand-in for platforms without an async readiness
// facility. Everything collapses to synchronous, immediate, same-thread
// execution: wait returns at once with nothing ready, registration is
// bookkeeping only.

//go:build !linux && !windows

package reactor

type noopBackend struct{}

func newPollBackend(maxEvents int) (pollBackend, error) {
	return noopBackend{}, nil
}

func (noopBackend) register(fd int, read, write bool) error { return nil }

func (noopBackend) modify(fd int, read, write bool) error { return nil }

func (noopBackend) deregister(fd int) error { return nil }

func (noopBackend) wait(out []readiness, timeoutMs int) ([]readiness, error) {
	return out, nil
}

func (noopBackend) wake() error { return nil }

func (noopBackend) close() error { return nil }
