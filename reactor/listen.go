// File: reactor/listen.go
// License: Apache-2.0
//
// ListenSocket: passive endpoint accepting inbound connections.

package reactor

import (
	"sync/atomic"

	"github.com/momentics/sockmux/api"
	"github.com/momentics/sockmux/control"
	"github.com/momentics/sockmux/sockaddr"
)

// ListenSocket is a BaseSocket bound to a listening endpoint. On read
// readiness it accepts every immediately available connection and hands
// each one to the factory callback bound at construction; sockets the
// factory returns are registered into the same multiplexer.
type ListenSocket struct {
	BaseSocket
	local    *sockaddr.Address
	factory  api.CreateStreamSocketCallback
	accepted uint64
}

func newListenSocket(m *SocketMultiplexer, fd int, local *sockaddr.Address, cb api.CreateStreamSocketCallback) *ListenSocket {
	ls := &ListenSocket{local: local, factory: cb}
	ls.attach(m, fd)
	return ls
}

// LocalAddress returns the bound address, with the OS-assigned port for
// ephemeral binds.
func (s *ListenSocket) LocalAddress() *sockaddr.Address { return s.local }

// ConnectionsAccepted returns the cumulative count of factory-accepted
// connections since creation. Monotonic, never reset while the socket is
// alive.
func (s *ListenSocket) ConnectionsAccepted() uint64 {
	return atomic.LoadUint64(&s.accepted)
}

// OnReadEvent accepts pending connections until the OS reports would-block.
// A transient accept failure ends the loop for this pass; a fatal one
// closes the listen socket.
func (s *ListenSocket) OnReadEvent() {
	for {
		nfd, peer, err := acceptFD(s.fd)
		if err != nil {
			if isTransientAccept(err) {
				return
			}
			s.Close()
			return
		}
		cs, err := s.factory(nfd, peer)
		if err != nil || cs == nil {
			_ = closeFD(nfd)
			continue
		}
		if err := s.mux.RegisterSocket(cs); err != nil {
			cs.Close()
			cs.Release()
			continue
		}
		atomic.AddUint64(&s.accepted, 1)
		control.ConnectionsAccepted.Inc()
		if ss, ok := cs.(*StreamSocket); ok {
			// a concurrent poll worker may already be dispatching the
			// fresh registration
			s.mux.withDispatchLock(ss.fd, func() { ss.handler.OnConnected(ss) })
		}
	}
}

// OnWriteEvent is a no-op: a listening socket never writes.
func (s *ListenSocket) OnWriteEvent() {}
