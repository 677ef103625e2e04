// File: api/socket.go
// License: Apache-2.0
//
// Socket lifecycle contract consumed by the multiplexer.

package api

import "github.com/momentics/sockmux/sockaddr"

// SocketState is the lifecycle state of a reactor socket. Transitions are
// monotonic: Open -> Closing -> Closed, never backwards.
type SocketState int32

const (
	// StateOpen: registered and eligible for event dispatch.
	StateOpen SocketState = iota

	// StateClosing: Close was called or a fatal I/O error was observed.
	// No further events are dispatched; the object may outlive the state
	// while references remain.
	StateClosing

	// StateClosed: terminal. The descriptor has been released.
	StateClosed
)

// String returns the state name for diagnostics.
func (s SocketState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Socket is the contract between the multiplexer and every registered
// socket. OnReadEvent and OnWriteEvent are invoked only by the owning
// multiplexer, only while the socket is open, and never concurrently for
// the same socket instance.
type Socket interface {
	// Descriptor returns the OS file descriptor or handle owned by this
	// socket. Stable for the lifetime of the socket.
	Descriptor() int

	// State reports the current lifecycle state.
	State() SocketState

	// OnReadEvent is invoked when the descriptor is read-ready.
	OnReadEvent()

	// OnWriteEvent is invoked when the descriptor is write-ready.
	OnWriteEvent()

	// Acquire adds a reference, extending the socket's lifetime.
	Acquire()

	// Release drops a reference. The descriptor is released exactly once,
	// when the count reaches zero; Release reports true to the single
	// caller that observed that transition.
	Release() bool

	// Close detaches the socket from its multiplexer. Idempotent, and safe
	// to call concurrently with an event callback in flight for the same
	// socket. The OS descriptor is released when the last reference drops.
	Close()
}

// CreateStreamSocketCallback materializes an accepted descriptor as a
// stream socket. It is invoked synchronously during Poll dispatch, once per
// accepted connection, with the peer's address. Returning an error closes
// the accepted descriptor immediately without registration.
type CreateStreamSocketCallback func(fd int, peer *sockaddr.Address) (Socket, error)
