package scanner

import (
	"net"
	"strconv"
)

// Target is a single address:port pair to attempt.
type Target struct {
	Address net.IP
	Port    uint16
}

// String renders the target as a dialable host:port, bracketing IPv6 hosts.
func (t Target) String() string {
	return net.JoinHostPort(t.Address.String(), strconv.Itoa(int(t.Port)))
}
