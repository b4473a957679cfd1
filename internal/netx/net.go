// Package netx holds network address helpers.
package netx

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNotLoopback is returned for addresses reachable from other hosts.
var ErrNotLoopback = errors.New("address is not a loopback address")

// RequireLoopback checks that addr, in host:port form, binds only to the
// local machine. An empty host would listen on every interface and is
// rejected.
func RequireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parse %q: %w", addr, err)
	}

	if strings.EqualFold(host, "localhost") {
		return nil
	}

	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%q: %w", addr, ErrNotLoopback)
	}
	return nil
}
