// File: reactor/backend_linux.go
// License: Apache-2.0
//
// Linux epoll(7) poll backend. Level-triggered; an eventfd registered in
// the interest set provides cross-thread wakeup of a blocked wait.

//go:build linux

package reactor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type epollBackend struct {
	epfd      int
	wakefd    int
	maxEvents int
}

func newPollBackend(maxEvents int) (pollBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	ev := &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wakeup: %w", err)
	}
	return &epollBackend{epfd: epfd, wakefd: wakefd, maxEvents: maxEvents}, nil
}

func epollFlags(read, write bool) uint32 {
	var flags uint32
	if read {
		flags |= unix.EPOLLIN
	}
	if write {
		flags |= unix.EPOLLOUT
	}
	return flags
}

func (b *epollBackend) register(fd int, read, write bool) error {
	ev := &unix.EpollEvent{Events: epollFlags(read, write), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

func (b *epollBackend) modify(fd int, read, write bool) error {
	ev := &unix.EpollEvent{Events: epollFlags(read, write), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, ev); err != nil {
		return fmt.Errorf("epoll ctl mod: %w", err)
	}
	return nil
}

func (b *epollBackend) deregister(fd int) error {
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

func (b *epollBackend) wait(out []readiness, timeoutMs int) ([]readiness, error) {
	events := make([]unix.EpollEvent, b.maxEvents)
	if timeoutMs < 0 {
		timeoutMs = -1
	}
	n, err := unix.EpollWait(b.epfd, events, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return out, nil
		}
		return out, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		ev := events[i]
		fd := int(ev.Fd)
		if fd == b.wakefd {
			b.drainWakeup()
			continue
		}
		var kind eventKind
		if ev.Events&unix.EPOLLIN != 0 {
			kind |= eventRead
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			kind |= eventWrite
		}
		if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
			kind |= eventError
		}
		out = append(out, readiness{fd: fd, kind: kind})
	}
	return out, nil
}

func (b *epollBackend) drainWakeup() {
	var buf [8]byte
	for {
		if _, err := unix.Read(b.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (b *epollBackend) wake() error {
	var buf [8]byte
	buf[0] = 1
	_, err := unix.Write(b.wakefd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (b *epollBackend) close() error {
	unix.Close(b.wakefd)
	return unix.Close(b.epfd)
}
