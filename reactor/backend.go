// File: reactor/backend.go
// License: Apache-2.0
//
// Platform-neutral poll backend contract.

package reactor

// eventKind is a bitmask of readiness conditions reported for one
// descriptor.
type eventKind uint8

const (
	eventRead eventKind = 1 << iota
	eventWrite
	eventError
)

// readiness pairs a descriptor with its ready conditions for one poll pass.
type readiness struct {
	fd   int
	kind eventKind
}

// pollBackend abstracts the OS readiness mechanism behind one interface.
// The multiplexer's public contract is identical across implementations.
type pollBackend interface {
	// register adds a descriptor to the watch set with the given interest.
	register(fd int, read, write bool) error

	// modify replaces the interest set of a watched descriptor.
	modify(fd int, read, write bool) error

	// deregister removes a descriptor from the watch set.
	deregister(fd int) error

	// wait blocks up to timeoutMs (0 returns immediately, negative blocks
	// until at least one event) and appends ready descriptors to out,
	// returning the extended slice. Interruption by a signal or an
	// explicit wake yields an empty result, not an error.
	wait(out []readiness, timeoutMs int) ([]readiness, error)

	// wake unblocks a concurrent wait call.
	wake() error

	// close releases the backend's OS resources.
	close() error
}
