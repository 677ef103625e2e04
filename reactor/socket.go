// File: reactor/socket.go
// License: Apache-2.0
//
// BaseSocket: descriptor ownership, lifecycle state, reference counting.

package reactor

import (
	"sync/atomic"

	"github.com/momentics/sockmux/api"
	"github.com/momentics/sockmux/internal/concurrency"
)

// BaseSocket carries the state shared by every socket variant: the owned
// OS descriptor, the monotonic lifecycle state, the reference count, and a
// non-owning back-reference to the multiplexer used to request
// deregistration on close.
//
// BaseSocket is not itself dispatchable; ListenSocket and StreamSocket
// embed it and supply the event callbacks.
type BaseSocket struct {
	fd    int
	mux   *SocketMultiplexer
	state int32
	refs  concurrency.RefCount
}

func (s *BaseSocket) attach(m *SocketMultiplexer, fd int) {
	s.fd = fd
	s.mux = m
	s.state = int32(api.StateOpen)
	s.refs = concurrency.NewRefCount()
}

// Descriptor returns the owned OS descriptor.
func (s *BaseSocket) Descriptor() int { return s.fd }

// State reports the current lifecycle state.
func (s *BaseSocket) State() api.SocketState {
	return api.SocketState(atomic.LoadInt32(&s.state))
}

// Multiplexer returns the multiplexer this socket belongs to.
func (s *BaseSocket) Multiplexer() *SocketMultiplexer { return s.mux }

// Acquire adds a reference, extending the socket's lifetime past its
// deregistration.
func (s *BaseSocket) Acquire() { s.refs.Acquire() }

// Release drops a reference. The last release transitions the socket to
// Closed and closes the OS descriptor, exactly once no matter how many
// releasers race.
func (s *BaseSocket) Release() bool {
	if !s.refs.Release() {
		return false
	}
	atomic.StoreInt32(&s.state, int32(api.StateClosed))
	_ = closeFD(s.fd)
	return true
}

// beginClose wins the Open -> Closing transition for exactly one caller.
func (s *BaseSocket) beginClose() bool {
	return atomic.CompareAndSwapInt32(&s.state,
		int32(api.StateOpen), int32(api.StateClosing))
}

// Close detaches the socket from its multiplexer. Idempotent: the first
// call requests deregistration, later calls are no-ops. Safe to call
// concurrently with an event callback in flight for this socket; the
// descriptor is released only after the current dispatch pass lets go of
// its reference.
func (s *BaseSocket) Close() {
	if !s.beginClose() {
		return
	}
	s.mux.removeFD(s.fd)
}
