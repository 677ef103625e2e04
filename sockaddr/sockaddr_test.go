// File: sockaddr/sockaddr_test.go
// License: Apache-2.0

package sockaddr

import (
	"errors"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"127.0.0.1:9000",
		"0.0.0.0:80",
		"[::1]:9000",
		"[fe80::1]:443",
	}
	for _, text := range cases {
		a, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if got := a.String(); got != text {
			t.Errorf("Parse(%q).String() = %q", text, got)
		}
	}
}

func TestParseFamilies(t *testing.T) {
	a, err := Parse("127.0.0.1:9000")
	if err != nil {
		t.Fatal(err)
	}
	if a.Family() != IPv4 {
		t.Errorf("family = %v, want ipv4", a.Family())
	}
	if a.Port() != 9000 {
		t.Errorf("port = %d, want 9000", a.Port())
	}

	a, err = Parse("[::1]:22")
	if err != nil {
		t.Fatal(err)
	}
	if a.Family() != IPv6 {
		t.Errorf("family = %v, want ipv6", a.Family())
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		"no-port",
		"127.0.0.1",
		"127.0.0.1:notaport",
		"127.0.0.1:99999",
		"[::1]",
	}
	for _, text := range cases {
		_, err := Parse(text)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", text)
			continue
		}
		if !errors.Is(err, ErrAddressParse) {
			t.Errorf("Parse(%q) error %v does not match ErrAddressParse", text, err)
		}
		var perr *AddressParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error %v is not *AddressParseError", text, err)
		}
	}
}

func TestEqual(t *testing.T) {
	a, _ := Parse("10.0.0.1:8080")
	b, _ := Parse("10.0.0.1:8080")
	c, _ := Parse("10.0.0.1:8081")
	if !a.Equal(b) {
		t.Error("identical addresses not equal")
	}
	if a.Equal(c) {
		t.Error("different ports compare equal")
	}
	if a.Equal(NewUnix("/tmp/sock")) {
		t.Error("different families compare equal")
	}
}

func TestRawConstructors(t *testing.T) {
	v4 := NewIPv4([4]byte{192, 168, 1, 1}, 443)
	if v4.String() != "192.168.1.1:443" {
		t.Errorf("NewIPv4 renders %q", v4.String())
	}
	u := NewUnix("/run/app.sock")
	if u.Family() != Unix || u.Path() != "/run/app.sock" {
		t.Errorf("NewUnix = %v %q", u.Family(), u.Path())
	}
	if u.Port() != 0 || u.IP() != nil {
		t.Error("unix address reports IP state")
	}
}
