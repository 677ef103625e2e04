// File: reactor/sock_stub.go
// License: Apache-2.0
//
// Raw socket helpers for platforms without the POSIX descriptor path. The
// multiplexer itself still runs (see backend_windows.go and
// backend_noop.go); creating sockets through it requires the Linux
// implementation.

//go:build !linux && !windows

package reactor

import (
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

func closeFD(fd int) error { return nil }

func localAddrFD(fd int) (*sockaddr.Address, error) {
	return nil, api.ErrNotSupported
}

func sockErrFD(fd int) error { return nil }

func isTransient(err error) bool { return false }

func isTransientAccept(err error) bool { return false }
