// File: api/errors.go
// License: Apache-2.0
//
// Common error types and sentinels used across the library.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors. Structured error types below unwrap to these so callers
// can match with errors.Is without holding the concrete type.
var (
	ErrAlreadyRegistered = errors.New("sockmux: descriptor already registered")
	ErrSocketClosed      = errors.New("sockmux: socket is closed")
	ErrMultiplexerClosed = errors.New("sockmux: multiplexer is closed")
	ErrNotSupported      = errors.New("sockmux: not supported on this platform")
	ErrInvalidArgument   = errors.New("sockmux: invalid argument")
)

// AlreadyRegisteredError reports a duplicate RegisterSocket call for a
// descriptor already present in the multiplexer's active set. The original
// registration is left untouched.
type AlreadyRegisteredError struct {
	Fd int
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("sockmux: descriptor %d already registered", e.Fd)
}

func (e *AlreadyRegisteredError) Unwrap() error { return ErrAlreadyRegistered }
