// File: reactor/stream.go
// License: Apache-2.0
//
// StreamSocket: established connection with buffered partial I/O.

package reactor

import (
	"sync"

	"github.com/momentics/sockmux/api"
	"github.com/momentics/sockmux/sockaddr"
)

// StreamHandler receives the life events of a StreamSocket. OnConnected
// and OnRead are serialized per socket: they hold the socket's dispatch
// lock, whether fired from Poll or from the accept/connect path.
// OnDisconnected runs on whichever thread observed the failure; when that
// thread is a writer rather than the dispatch loop, it can overlap an
// OnRead in flight elsewhere.
type StreamHandler interface {
	// OnConnected fires once: after registration for accepted sockets,
	// after handshake completion for outbound connects.
	OnConnected(s *StreamSocket)

	// OnRead fires when new data has been buffered; drain it with Read.
	OnRead(s *StreamSocket)

	// OnDisconnected fires at most once, when the peer closed the
	// connection or a fatal I/O error was observed. err is nil for an
	// orderly peer close. An explicit local Close does not fire it.
	OnDisconnected(s *StreamSocket, err error)
}

// StreamSocket is a BaseSocket for an established connection. Reads and
// writes that cannot complete in one syscall are buffered; pending output
// arms write interest and drains on write readiness.
type StreamSocket struct {
	BaseSocket
	handler StreamHandler
	remote  *sockaddr.Address

	mu         sync.Mutex
	recvBuf    []byte
	sendBuf    []byte
	chunk      []byte
	connecting bool
}

// NewStreamSocket wraps an established (or connecting) descriptor. The
// socket is not registered; pass it to RegisterSocket, or return it from a
// CreateStreamSocketCallback and let the listen socket register it.
func NewStreamSocket(m *SocketMultiplexer, fd int, h StreamHandler) *StreamSocket {
	if h == nil {
		panic("sockmux: nil stream handler")
	}
	ss := &StreamSocket{handler: h, chunk: make([]byte, m.cfg.ReadChunkSize)}
	ss.attach(m, fd)
	return ss
}

// RemoteAddress returns the peer address when known, nil otherwise.
func (s *StreamSocket) RemoteAddress() *sockaddr.Address { return s.remote }

// Read drains up to len(p) bytes from the receive buffer. It never blocks;
// zero means no buffered data.
func (s *StreamSocket) Read(p []byte) int {
	s.mu.Lock()
	n := copy(p, s.recvBuf)
	s.recvBuf = s.recvBuf[n:]
	if len(s.recvBuf) == 0 {
		s.recvBuf = nil
	}
	s.mu.Unlock()
	return n
}

// Buffered returns the number of received bytes not yet drained by Read.
func (s *StreamSocket) Buffered() int {
	s.mu.Lock()
	n := len(s.recvBuf)
	s.mu.Unlock()
	return n
}

// Write queues p for transmission and attempts an immediate flush. Data
// that does not fit the socket buffer stays queued and drains on write
// readiness. The full length is accepted unless the socket is no longer
// open or a fatal error occurs.
func (s *StreamSocket) Write(p []byte) (int, error) {
	if s.State() != api.StateOpen {
		return 0, api.ErrSocketClosed
	}
	s.mu.Lock()
	if s.connecting {
		// handshake still in flight, queue only
		s.sendBuf = append(s.sendBuf, p...)
		s.mu.Unlock()
		return len(p), nil
	}
	wasIdle := len(s.sendBuf) == 0
	s.sendBuf = append(s.sendBuf, p...)
	var err error
	if wasIdle {
		err = s.flushLocked()
	}
	pending := len(s.sendBuf) > 0
	s.mu.Unlock()

	if err != nil {
		s.disconnect(err)
		return 0, err
	}
	if pending {
		s.mux.armWrite(s.fd, true)
	}
	return len(p), nil
}

// OnReadEvent drains the descriptor until would-block, then reports the
// buffered data to the handler in one OnRead call.
func (s *StreamSocket) OnReadEvent() {
	got := false
	for {
		n, err := readFD(s.fd, s.chunk)
		if n > 0 {
			s.mu.Lock()
			s.recvBuf = append(s.recvBuf, s.chunk[:n]...)
			s.mu.Unlock()
			got = true
		}
		if err != nil {
			if isTransient(err) {
				break
			}
			s.disconnect(err)
			return
		}
		if n == 0 {
			// orderly peer close; surface buffered data first
			if got {
				s.handler.OnRead(s)
			}
			s.disconnect(nil)
			return
		}
	}
	if got {
		s.handler.OnRead(s)
	}
}

// OnWriteEvent concludes an in-flight connect, then drains the send
// buffer; write interest is disarmed once the buffer empties.
func (s *StreamSocket) OnWriteEvent() {
	s.mu.Lock()
	if s.connecting {
		s.connecting = false
		s.mu.Unlock()
		if err := sockErrFD(s.fd); err != nil {
			s.disconnect(err)
			return
		}
		s.handler.OnConnected(s)
		s.mu.Lock()
	}
	err := s.flushLocked()
	pending := len(s.sendBuf) > 0
	s.mu.Unlock()

	if err != nil {
		s.disconnect(err)
		return
	}
	if !pending {
		s.mux.armWrite(s.fd, false)
	}
}

// flushLocked writes as much queued output as the socket accepts.
// Transient errors stop the flush without failing; s.mu must be held.
func (s *StreamSocket) flushLocked() error {
	for len(s.sendBuf) > 0 {
		n, err := writeFD(s.fd, s.sendBuf)
		if n > 0 {
			s.sendBuf = s.sendBuf[n:]
		}
		if err != nil {
			if isTransient(err) {
				return nil
			}
			return err
		}
		if n <= 0 {
			return nil
		}
	}
	s.sendBuf = nil
	return nil
}

// disconnect performs the fatal-error path: one winner transitions to
// Closing, deregisters, and reports OnDisconnected exactly once.
func (s *StreamSocket) disconnect(err error) {
	if !s.beginClose() {
		return
	}
	s.mux.RemoveSocket(s)
	s.handler.OnDisconnected(s, err)
}
