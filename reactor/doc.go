// Package reactor implements the socket multiplexer: it owns a set of
// registered sockets, polls the operating system for readiness, and
// dispatches read/write events to each socket's callbacks. Platform poll
// backends are selected at build time: epoll on Linux, an I/O completion
// port on Windows, and a no-op synchronous stand-in elsewhere.
package reactor
