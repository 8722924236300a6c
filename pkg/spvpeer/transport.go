package spvpeer

import (
	"fmt"
	"net"
	"time"
)

// connectTimeout is the deadline for establishing the TCP connection
// (spec.md §4.2, §5).
const connectTimeout = 3 * time.Second

// socketTimeout is the read/write deadline applied to every operation
// once connected, so the receive loop can re-evaluate its deadlines
// at least once a second (spec.md §4.2, §5).
const socketTimeout = 1 * time.Second

// messageTimeout bounds how long a single message is allowed to take
// to arrive once its header has been read (spec.md §5).
const messageTimeout = 10 * time.Second

// dial opens a stream socket to id, trying IPv6 first and falling
// back to IPv4 when the address is IPv4-mapped (spec.md §4.2).
func dial(id Identity) (net.Conn, error) {
	addr6 := net.JoinHostPort(id.IP.String(), fmt.Sprintf("%d", id.Port))
	conn, err6 := net.DialTimeout("tcp6", addr6, connectTimeout)
	if err6 == nil {
		return tuneConn(conn)
	}
	if v4 := id.IP.To4(); v4 != nil {
		addr4 := net.JoinHostPort(v4.String(), fmt.Sprintf("%d", id.Port))
		conn, err4 := net.DialTimeout("tcp4", addr4, connectTimeout)
		if err4 == nil {
			return tuneConn(conn)
		}
		return nil, fmt.Errorf("spvpeer: dial %s: %w (ipv6 attempt: %v)", addr4, err4, err6)
	}
	return nil, fmt.Errorf("spvpeer: dial %s: %w", addr6, err6)
}

// tuneConn enables keep-alive with a 30-second period. It sets no
// deadline; each read and write sets its own. Platform no-sigpipe
// handling is left to Go's net package, which already suppresses
// SIGPIPE for dialed sockets.
func tuneConn(conn net.Conn) (net.Conn, error) {
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.SetKeepAlive(true); err != nil {
			tc.Close()
			return nil, err
		}
		if err := tc.SetKeepAlivePeriod(30 * time.Second); err != nil {
			tc.Close()
			return nil, err
		}
	}
	return conn, nil
}
