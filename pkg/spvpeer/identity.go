package spvpeer

import (
	"fmt"
	"net"

	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// Identity is a peer's address, as carried on the wire: a 128-bit
// address (IPv4 encoded as IPv4-mapped IPv6), a port, an advertised
// services bitmask, and a last-seen timestamp (spec.md §3).
type Identity struct {
	IP        net.IP // always 16 bytes
	Port      uint16
	Services  wire.ServiceFlag
	Timestamp uint32

	host string // memoized canonical textual form
}

// NewIdentity builds an Identity from an address parsed elsewhere.
func NewIdentity(ip net.IP, port uint16, services wire.ServiceFlag, timestamp uint32) Identity {
	return Identity{IP: normalizeIP(ip), Port: port, Services: services, Timestamp: timestamp}
}

func normalizeIP(ip net.IP) net.IP {
	if v4 := ip.To4(); v4 != nil {
		return v4.To16()
	}
	return ip.To16()
}

// IsIPv4 reports whether the address is an IPv4-mapped IPv6 address.
func (id Identity) IsIPv4() bool {
	return id.IP.To4() != nil
}

// Host derives the canonical textual host:port form on first use and
// memoizes it (spec.md §3: "derived once on demand").
func (id *Identity) Host() string {
	if id.host != "" {
		return id.host
	}
	if id.IsIPv4() {
		id.host = fmt.Sprintf("%s:%d", id.IP.String(), id.Port)
	} else {
		id.host = fmt.Sprintf("[%s]:%d", id.IP.String(), id.Port)
	}
	return id.host
}

func (id Identity) netAddress() wire.NetAddress {
	return wire.NetAddress{
		Timestamp: id.Timestamp,
		Services:  id.Services,
		IP:        normalizeIP(id.IP),
		Port:      id.Port,
	}
}
