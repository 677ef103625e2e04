// File: sockaddr/sockaddr.go
// License: Apache-2.0
//
// Network endpoint value type. Pure data, no I/O: syscall-level sockaddr
// conversion lives next to the code that performs the syscalls.

// Package sockaddr provides the Address value type wrapping a network
// endpoint: an IPv4/IPv6 address and port, or a Unix domain socket path.
// The family tag fixed at construction determines which interpretation of
// the address bytes is valid; an Address is never reinterpreted across
// families.
package sockaddr

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Family identifies the address interpretation.
type Family uint8

const (
	Unspecified Family = iota
	IPv4
	IPv6
	Unix
)

// String returns the family name for diagnostics.
func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	case Unix:
		return "unix"
	default:
		return "unspecified"
	}
}

// ErrAddressParse is the sentinel wrapped by every AddressParseError.
var ErrAddressParse = errors.New("sockaddr: malformed address")

// AddressParseError reports endpoint text that could not be parsed or
// resolved.
type AddressParseError struct {
	Text  string
	Cause error
}

func (e *AddressParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sockaddr: parse %q: %v", e.Text, e.Cause)
	}
	return fmt.Sprintf("sockaddr: parse %q", e.Text)
}

func (e *AddressParseError) Unwrap() error { return ErrAddressParse }

// Address is an immutable network endpoint. The zero value is an
// unspecified address.
type Address struct {
	family Family
	ip     [16]byte // IPv4 occupies the first 4 bytes
	port   uint16
	path   string // Unix domain socket path
}

// Parse constructs an Address from "host:port" text; IPv6 literals use the
// bracketed form "[addr]:port". A hostname triggers a blocking name
// resolution; callers needing non-blocking resolution must resolve out of
// band and pass a literal. Malformed or unresolvable input fails with an
// *AddressParseError.
func Parse(text string) (*Address, error) {
	host, portStr, err := net.SplitHostPort(text)
	if err != nil {
		return nil, &AddressParseError{Text: text, Cause: err}
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, &AddressParseError{Text: text, Cause: err}
	}
	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil {
			return nil, &AddressParseError{Text: text, Cause: err}
		}
		if len(ips) == 0 {
			return nil, &AddressParseError{Text: text}
		}
		ip = ips[0]
	}
	return fromIP(ip, uint16(port)), nil
}

// NewIPv4 constructs an IPv4 address from raw address bytes in network
// order.
func NewIPv4(addr [4]byte, port uint16) *Address {
	a := &Address{family: IPv4, port: port}
	copy(a.ip[:4], addr[:])
	return a
}

// NewIPv6 constructs an IPv6 address from raw address bytes in network
// order.
func NewIPv6(addr [16]byte, port uint16) *Address {
	a := &Address{family: IPv6, port: port}
	copy(a.ip[:], addr[:])
	return a
}

// NewUnix constructs a Unix domain socket address.
func NewUnix(path string) *Address {
	return &Address{family: Unix, path: path}
}

func fromIP(ip net.IP, port uint16) *Address {
	if v4 := ip.To4(); v4 != nil {
		var b [4]byte
		copy(b[:], v4)
		return NewIPv4(b, port)
	}
	var b [16]byte
	copy(b[:], ip.To16())
	return NewIPv6(b, port)
}

// Family returns the address family tag.
func (a *Address) Family() Family { return a.family }

// Port returns the port in host order. Zero for Unix and unspecified
// addresses.
func (a *Address) Port() uint16 { return a.port }

// IP returns the IP address, or nil for non-IP families.
func (a *Address) IP() net.IP {
	switch a.family {
	case IPv4:
		return net.IP(a.ip[:4])
	case IPv6:
		return net.IP(a.ip[:])
	default:
		return nil
	}
}

// Path returns the Unix socket path, empty for other families.
func (a *Address) Path() string { return a.path }

// Equal reports whether two addresses have the same family, address bytes
// and port.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.family == other.family && a.ip == other.ip &&
		a.port == other.port && a.path == other.path
}

// String renders the address back to its textual form. IPv4 round-trips:
// Parse("127.0.0.1:9000").String() == "127.0.0.1:9000". IPv6 uses the
// bracketed form.
func (a *Address) String() string {
	switch a.family {
	case IPv4, IPv6:
		return net.JoinHostPort(a.IP().String(), strconv.Itoa(int(a.port)))
	case Unix:
		return a.path
	default:
		return "<unspecified>"
	}
}
