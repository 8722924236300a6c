package wire

import (
	"bytes"
	"net"
)

// NetAddress is the 26-byte (no timestamp) or 30-byte (timestamp)
// address record used inside version and addr messages. Address is
// always 16 bytes, IPv4 encoded as an IPv4-mapped IPv6 address, per
// spec.md §6.
type NetAddress struct {
	Timestamp uint32 // only meaningful where the wire form carries one
	Services  ServiceFlag
	IP        net.IP // always len 16
	Port      uint16
}

// IsIPv4 reports whether IP is an IPv4-mapped IPv6 address.
func (a NetAddress) IsIPv4() bool {
	return len(a.IP) == 16 && a.IP.To4() != nil
}

// decodeNetAddressNoStamp reads the 26-byte version-message form
// (services, address, port — no timestamp).
func decodeNetAddressNoStamp(c *Cursor) (NetAddress, error) {
	var a NetAddress
	services, err := c.Uint64LE()
	if err != nil {
		return a, err
	}
	ip, err := c.Bytes(16)
	if err != nil {
		return a, err
	}
	port, err := c.Uint16BE()
	if err != nil {
		return a, err
	}
	a.Services = ServiceFlag(services)
	a.IP = net.IP(append([]byte(nil), ip...))
	a.Port = port
	return a, nil
}

func encodeNetAddressNoStamp(buf *bytes.Buffer, a NetAddress) {
	PutUint64LE(buf, uint64(a.Services))
	ip := normalizeIP16(a.IP)
	buf.Write(ip)
	PutUint16BE(buf, a.Port)
}

// decodeNetAddressTimestamped reads the 30-byte addr-message form
// (timestamp, services, address, port).
func decodeNetAddressTimestamped(c *Cursor) (NetAddress, error) {
	ts, err := c.Uint32LE()
	if err != nil {
		return NetAddress{}, err
	}
	a, err := decodeNetAddressNoStamp(c)
	if err != nil {
		return a, err
	}
	a.Timestamp = ts
	return a, nil
}

func encodeNetAddressTimestamped(buf *bytes.Buffer, a NetAddress) {
	PutUint32LE(buf, a.Timestamp)
	encodeNetAddressNoStamp(buf, a)
}

func normalizeIP16(ip net.IP) []byte {
	if len(ip) == 16 {
		return ip
	}
	out := make([]byte, 16)
	if v4 := ip.To4(); v4 != nil {
		copy(out[10:], []byte{0xff, 0xff})
		copy(out[12:], v4)
		return out
	}
	return out
}

// LocalHostAddress is the fixed local-address record the handshake
// sends as "addr_from" (spec.md §4.3): the IPv4-mapped loopback
// address, services 0 (SPV never serves blocks).
var LocalHostAddress = net.IPv4(127, 0, 0, 1).To16()
