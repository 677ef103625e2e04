// File: reactor/sock_linux.go
// License: Apache-2.0
//
// Raw socket syscall helpers. Every descriptor produced here is
// non-blocking and close-on-exec.

//go:build linux

package reactor

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/sockmux/sockaddr"
)

func listenFD(addr *sockaddr.Address, backlog int) (int, error) {
	fd, sa, err := socketFor(addr)
	if err != nil {
		return -1, err
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind %s: %w", addr, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen %s: %w", addr, err)
	}
	return fd, nil
}

// connectFD starts a non-blocking connect. connected reports whether the
// handshake completed synchronously; otherwise completion is signaled by
// write readiness.
func connectFD(addr *sockaddr.Address) (fd int, connected bool, err error) {
	fd, sa, err := socketFor(addr)
	if err != nil {
		return -1, false, err
	}
	err = unix.Connect(fd, sa)
	switch err {
	case nil:
		return fd, true, nil
	case unix.EINPROGRESS:
		return fd, false, nil
	default:
		unix.Close(fd)
		return -1, false, fmt.Errorf("connect %s: %w", addr, err)
	}
}

func acceptFD(lfd int) (int, *sockaddr.Address, error) {
	nfd, sa, err := unix.Accept4(lfd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, nil, err
	}
	return nfd, fromSockaddr(sa), nil
}

func readFD(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func writeFD(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}

// localAddrFD resolves the bound local address, including the port the OS
// picked for an ephemeral bind.
func localAddrFD(fd int) (*sockaddr.Address, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil, fmt.Errorf("getsockname: %w", err)
	}
	return fromSockaddr(sa), nil
}

// sockErrFD fetches the pending socket error, used to conclude an async
// connect.
func sockErrFD(fd int) error {
	v, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if v != 0 {
		return unix.Errno(v)
	}
	return nil
}

func socketFor(addr *sockaddr.Address) (int, unix.Sockaddr, error) {
	sa, err := toSockaddr(addr)
	if err != nil {
		return -1, nil, err
	}
	family := unix.AF_INET
	switch addr.Family() {
	case sockaddr.IPv6:
		family = unix.AF_INET6
	case sockaddr.Unix:
		family = unix.AF_UNIX
	}
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, nil, fmt.Errorf("socket: %w", err)
	}
	return fd, sa, nil
}

func toSockaddr(addr *sockaddr.Address) (unix.Sockaddr, error) {
	switch addr.Family() {
	case sockaddr.IPv4:
		sa := &unix.SockaddrInet4{Port: int(addr.Port())}
		copy(sa.Addr[:], addr.IP())
		return sa, nil
	case sockaddr.IPv6:
		sa := &unix.SockaddrInet6{Port: int(addr.Port())}
		copy(sa.Addr[:], addr.IP())
		return sa, nil
	case sockaddr.Unix:
		return &unix.SockaddrUnix{Name: addr.Path()}, nil
	default:
		return nil, fmt.Errorf("sockmux: cannot bind %v address", addr.Family())
	}
}

func fromSockaddr(sa unix.Sockaddr) *sockaddr.Address {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return sockaddr.NewIPv4(v.Addr, uint16(v.Port))
	case *unix.SockaddrInet6:
		return sockaddr.NewIPv6(v.Addr, uint16(v.Port))
	case *unix.SockaddrUnix:
		return sockaddr.NewUnix(v.Name)
	default:
		return &sockaddr.Address{}
	}
}

// isTransient reports would-block and interruption conditions that end the
// current I/O loop without condemning the socket.
func isTransient(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR
}

// isTransientAccept additionally absorbs connections aborted between the
// readiness report and the accept call.
func isTransientAccept(err error) bool {
	return isTransient(err) || err == unix.ECONNABORTED
}
