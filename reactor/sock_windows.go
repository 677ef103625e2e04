// File: reactor/sock_windows.go
// License: Apache-2.0
//
// Windows socket helpers. Handle teardown is real; the synchronous
// descriptor path (listen/connect/accept/read/write) is not provided on
// Windows, where I/O is completion-based — applications register their own
// overlapped-I/O sockets with the multiplexer instead.

//go:build windows

package reactor

import (
	"golang.org/x/sys/windows"

	"github.com/momentics/sockmux/api"
	"github.com/momentics/sockmux/sockaddr"
)

func listenFD(addr *sockaddr.Address, backlog int) (int, error) {
	return -1, api.ErrNotSupported
}

func connectFD(addr *sockaddr.Address) (int, bool, error) {
	return -1, false, api.ErrNotSupported
}

func acceptFD(lfd int) (int, *sockaddr.Address, error) {
	return -1, nil, api.ErrNotSupported
}

func readFD(fd int, p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

func writeFD(fd int, p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

func closeFD(fd int) error {
	return windows.Closesocket(windows.Handle(fd))
}

func localAddrFD(fd int) (*sockaddr.Address, error) {
	sa, err := windows.Getsockname(windows.Handle(fd))
	if err != nil {
		return nil, err
	}
	switch v := sa.(type) {
	case *windows.SockaddrInet4:
		return sockaddr.NewIPv4(v.Addr, uint16(v.Port)), nil
	case *windows.SockaddrInet6:
		return sockaddr.NewIPv6(v.Addr, uint16(v.Port)), nil
	default:
		return nil, api.ErrNotSupported
	}
}

func sockErrFD(fd int) error { return nil }

func isTransient(err error) bool {
	return err == windows.WSAEWOULDBLOCK || err == windows.WSAEINTR
}

func isTransientAccept(err error) bool {
	return isTransient(err) || err == windows.WSAECONNABORTED
}
