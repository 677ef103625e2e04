// Package api defines the contracts shared between the socket multiplexer
// and the socket implementations: the Socket interface dispatched by the
// reactor, the stream-socket factory callback, and the error taxonomy used
// across the library.
package api
