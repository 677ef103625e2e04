// File: reactor/multiplexer.go
// License: Apache-2.0
//
// SocketMultiplexer: registry, poll loop, event dispatch.
//
// Registry mutations that arrive while a poll pass is in flight are queued
// and applied after the dispatch pass, so the in-flight event list never
// references a descriptor being destroyed and callbacks for one socket
// stay strictly sequential.

package reactor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/momentics/sockmux/api"
	"github.com/momentics/sockmux/control"
	"github.com/momentics/sockmux/sockaddr"
)

// entry is one registry slot. mu serializes event dispatch for the socket;
// removed guarantees a single deregistration winner; wantWrite tracks the
// desired write interest applied with deferred backend operations.
type entry struct {
	sock      api.Socket
	mu        sync.Mutex
	removed   int32
	wantWrite int32
}

type opKind uint8

const (
	opRegister opKind = iota
	opModify
	opRemove
)

type pendingOp struct {
	kind opKind
	fd   int
}

// SocketMultiplexer owns a set of registered sockets, polls the OS for
// readiness on their descriptors, and fans events out to the sockets'
// callbacks. Multiple threads may call Poll concurrently; callbacks for
// any single socket are never run concurrently.
type SocketMultiplexer struct {
	cfg     control.Config
	backend pollBackend

	registry *xsync.MapOf[int, *entry]

	closed  int32
	pollers int32

	pendingMu sync.Mutex
	pending   *queue.Queue
}

// Option customizes multiplexer construction.
type Option func(*SocketMultiplexer)

// WithConfig replaces the whole tuning configuration.
func WithConfig(cfg control.Config) Option {
	return func(m *SocketMultiplexer) { m.cfg = cfg }
}

// WithMaxEvents bounds the readiness events consumed per poll pass.
func WithMaxEvents(n int) Option {
	return func(m *SocketMultiplexer) { m.cfg.MaxEvents = n }
}

// WithBacklog sets the listen(2) backlog for CreateListenSocket.
func WithBacklog(n int) Option {
	return func(m *SocketMultiplexer) { m.cfg.Backlog = n }
}

// WithReadChunkSize sets the stream sockets' per-read buffer size.
func WithReadChunkSize(n int) Option {
	return func(m *SocketMultiplexer) { m.cfg.ReadChunkSize = n }
}

// New creates a multiplexer backed by the platform poll facility.
func New(opts ...Option) (*SocketMultiplexer, error) {
	m := &SocketMultiplexer{
		cfg:      control.DefaultConfig(),
		registry: xsync.NewMapOf[int, *entry](),
		pending:  queue.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cfg = m.cfg.Sanitize()
	backend, err := newPollBackend(m.cfg.MaxEvents)
	if err != nil {
		return nil, err
	}
	m.backend = backend
	return m, nil
}

// RegisterSocket adds a socket to the active set and assumes ownership of
// the caller's reference: the registry releases it when the socket is
// removed. A descriptor already tracked fails with *api.AlreadyRegisteredError
// and the original registration is untouched.
//
// The backend interest-set update is deferred past any poll pass in
// flight. A descriptor the backend then refuses to poll is withdrawn and
// the failure is reported through the socket's error path (OnDisconnected
// for stream sockets), never left as a registration that can't fire.
func (m *SocketMultiplexer) RegisterSocket(s api.Socket) error {
	if atomic.LoadInt32(&m.closed) != 0 {
		return api.ErrMultiplexerClosed
	}
	if s.State() != api.StateOpen {
		return api.ErrSocketClosed
	}
	fd := s.Descriptor()
	if _, loaded := m.registry.LoadOrStore(fd, &entry{sock: s}); loaded {
		return &api.AlreadyRegisteredError{Fd: fd}
	}
	control.SocketsRegistered.Inc()
	m.submit(pendingOp{kind: opRegister, fd: fd})
	return nil
}

// RemoveSocket deregisters a socket. Safe to call from inside an event
// callback executing for that same socket: the removal takes effect after
// the current dispatch pass. Removing an untracked socket is a no-op.
func (m *SocketMultiplexer) RemoveSocket(s api.Socket) {
	m.removeFD(s.Descriptor())
}

func (m *SocketMultiplexer) removeFD(fd int) {
	e, ok := m.registry.Load(fd)
	if !ok {
		return
	}
	if !atomic.CompareAndSwapInt32(&e.removed, 0, 1) {
		return
	}
	m.submit(pendingOp{kind: opRemove, fd: fd})
}

// armWrite switches write interest for a registered descriptor.
func (m *SocketMultiplexer) armWrite(fd int, on bool) {
	e, ok := m.registry.Load(fd)
	if !ok {
		return
	}
	var want int32
	if on {
		want = 1
	}
	if atomic.SwapInt32(&e.wantWrite, want) == want {
		return
	}
	m.submit(pendingOp{kind: opModify, fd: fd})
}

// Poll waits up to timeout for readiness on any registered descriptor and
// dispatches the resulting events. A zero timeout polls without blocking;
// a negative timeout blocks until at least one event (or an explicit
// wakeup). It returns the number of callbacks invoked.
func (m *SocketMultiplexer) Poll(timeout time.Duration) (int, error) {
	if atomic.LoadInt32(&m.closed) != 0 {
		return 0, api.ErrMultiplexerClosed
	}
	timeoutMs := -1
	if timeout >= 0 {
		timeoutMs = int(timeout.Milliseconds())
		if timeoutMs == 0 && timeout > 0 {
			// sub-millisecond timeouts round up, not down to non-blocking
			timeoutMs = 1
		}
	}

	atomic.AddInt32(&m.pollers, 1)
	if atomic.LoadInt32(&m.closed) != 0 {
		// Close may have slipped in between the first check and the
		// pollers increment; backing out here keeps wait off a released
		// backend.
		if atomic.AddInt32(&m.pollers, -1) == 0 {
			m.applyPending()
		}
		return 0, api.ErrMultiplexerClosed
	}
	ready := make([]readiness, 0, m.cfg.MaxEvents)
	ready, err := m.backend.wait(ready, timeoutMs)
	dispatched := 0
	if err == nil {
		for _, ev := range ready {
			dispatched += m.dispatch(ev)
		}
	}
	if atomic.AddInt32(&m.pollers, -1) == 0 {
		m.applyPending()
	}
	return dispatched, err
}

// dispatch routes one readiness event to its socket. Error conditions are
// folded into the read path, where the socket's own I/O loop observes and
// classifies the failure.
func (m *SocketMultiplexer) dispatch(ev readiness) int {
	e, ok := m.registry.Load(ev.fd)
	if !ok {
		return 0
	}
	if !e.mu.TryLock() {
		// another worker is dispatching this socket; level-triggered
		// readiness resurfaces on the next pass
		return 0
	}
	defer e.mu.Unlock()
	if cur, ok := m.registry.Load(ev.fd); !ok || cur != e {
		return 0
	}
	s := e.sock
	if s.State() != api.StateOpen {
		return 0
	}
	s.Acquire()
	n := 0
	if ev.kind&(eventRead|eventError) != 0 {
		s.OnReadEvent()
		n++
	}
	if ev.kind&eventWrite != 0 && s.State() == api.StateOpen {
		s.OnWriteEvent()
		n++
	}
	s.Release()
	if n > 0 {
		control.EventsDispatched.Add(n)
	}
	return n
}

// submit queues a registry operation, applying it immediately when no poll
// pass is in flight, and waking a blocked poll otherwise.
func (m *SocketMultiplexer) submit(op pendingOp) {
	m.pendingMu.Lock()
	m.pending.Add(op)
	m.pendingMu.Unlock()

	if atomic.LoadInt32(&m.pollers) > 0 {
		control.PollWakeups.Inc()
		_ = m.backend.wake()
		return
	}
	m.applyPending()
}

func (m *SocketMultiplexer) applyPending() {
	for {
		m.pendingMu.Lock()
		if m.pending.Length() == 0 {
			m.pendingMu.Unlock()
			return
		}
		op := m.pending.Remove().(pendingOp)
		m.pendingMu.Unlock()
		m.applyOp(op)
	}
}

func (m *SocketMultiplexer) applyOp(op pendingOp) {
	switch op.kind {
	case opRegister:
		e, ok := m.registry.Load(op.fd)
		if !ok || atomic.LoadInt32(&e.removed) != 0 {
			return
		}
		if err := m.backend.register(op.fd, true, atomic.LoadInt32(&e.wantWrite) != 0); err != nil {
			m.evict(op.fd, e, fmt.Errorf("register descriptor %d: %w", op.fd, err))
		}
	case opModify:
		e, ok := m.registry.Load(op.fd)
		if !ok || atomic.LoadInt32(&e.removed) != 0 {
			return
		}
		if err := m.backend.modify(op.fd, true, atomic.LoadInt32(&e.wantWrite) != 0); err != nil {
			m.evict(op.fd, e, fmt.Errorf("update interest on descriptor %d: %w", op.fd, err))
		}
	case opRemove:
		e, ok := m.registry.LoadAndDelete(op.fd)
		if !ok {
			return
		}
		if err := m.backend.deregister(op.fd); err != nil {
			// removal proceeds regardless; the failure is still counted
			control.BackendErrors.Inc()
		}
		// wait out any dispatch still holding this socket before the
		// registry reference is dropped
		e.mu.Lock()
		e.mu.Unlock()
		control.SocketsRemoved.Inc()
		e.sock.Release()
	}
}

// evict handles a descriptor the backend refused to poll: the registration
// would otherwise sit in the registry forever without receiving a single
// event. The entry is withdrawn and the failure is delivered through the
// socket's own error path, so the owner observes it even though the
// deferred apply made a synchronous return impossible.
func (m *SocketMultiplexer) evict(fd int, e *entry, err error) {
	control.BackendErrors.Inc()
	if !atomic.CompareAndSwapInt32(&e.removed, 0, 1) {
		return
	}
	m.registry.Delete(fd)
	e.mu.Lock()
	e.mu.Unlock()
	control.SocketsRemoved.Inc()
	if ss, ok := e.sock.(*StreamSocket); ok {
		ss.disconnect(err)
	} else {
		e.sock.Close()
	}
	e.sock.Release()
}

// ActiveSockets returns the number of registered sockets.
func (m *SocketMultiplexer) ActiveSockets() int {
	return m.registry.Size()
}

// TrackedSocket reports whether the descriptor is in the active set.
func (m *SocketMultiplexer) TrackedSocket(fd int) bool {
	e, ok := m.registry.Load(fd)
	return ok && atomic.LoadInt32(&e.removed) == 0
}

// CreateListenSocket binds addr, starts listening, and registers the
// resulting ListenSocket. cb materializes each accepted connection.
func (m *SocketMultiplexer) CreateListenSocket(addr *sockaddr.Address, cb api.CreateStreamSocketCallback) (*ListenSocket, error) {
	if cb == nil {
		return nil, api.ErrInvalidArgument
	}
	fd, err := listenFD(addr, m.cfg.Backlog)
	if err != nil {
		return nil, err
	}
	local, err := localAddrFD(fd)
	if err != nil {
		_ = closeFD(fd)
		return nil, err
	}
	ls := newListenSocket(m, fd, local, cb)
	if err := m.RegisterSocket(ls); err != nil {
		ls.Release()
		return nil, err
	}
	return ls, nil
}

// ConnectStreamSocket starts a non-blocking connect to addr and registers
// the resulting StreamSocket. h.OnConnected fires once the handshake
// completes, possibly before this call returns.
func (m *SocketMultiplexer) ConnectStreamSocket(addr *sockaddr.Address, h StreamHandler) (*StreamSocket, error) {
	if h == nil {
		return nil, api.ErrInvalidArgument
	}
	fd, connected, err := connectFD(addr)
	if err != nil {
		return nil, err
	}
	ss := NewStreamSocket(m, fd, h)
	ss.remote = addr
	ss.connecting = !connected
	if err := m.RegisterSocket(ss); err != nil {
		ss.Release()
		return nil, err
	}
	if connected {
		m.withDispatchLock(fd, func() {
			// the deferred backend add may already have failed and
			// evicted the socket
			if ss.State() == api.StateOpen {
				h.OnConnected(ss)
			}
		})
	} else {
		m.armWrite(fd, true)
	}
	return ss, nil
}

// withDispatchLock runs fn holding the descriptor's dispatch mutex, so a
// callback fired outside Poll cannot overlap one dispatched by a
// concurrent poll worker for the same socket.
func (m *SocketMultiplexer) withDispatchLock(fd int, fn func()) {
	if e, ok := m.registry.Load(fd); ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		fn()
		return
	}
	fn()
}

// Close shuts the multiplexer down: it wakes and waits out in-flight poll
// passes, closes every registered socket, applies the queued removals, and
// releases the backend. Poll and RegisterSocket fail afterwards.
func (m *SocketMultiplexer) Close() error {
	if !atomic.CompareAndSwapInt32(&m.closed, 0, 1) {
		return api.ErrMultiplexerClosed
	}
	for atomic.LoadInt32(&m.pollers) != 0 {
		_ = m.backend.wake()
		time.Sleep(time.Microsecond)
	}
	m.registry.Range(func(fd int, e *entry) bool {
		e.sock.Close()
		return true
	})
	m.applyPending()
	return m.backend.close()
}
