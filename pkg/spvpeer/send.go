package spvpeer

import (
	"strconv"
	"time"

	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// write frames and sends one message, serialized against every other
// sender on this connection so concurrent sends never interleave
// within the framing boundary (spec.md §5).
func (p *Peer) write(command string, payload []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.connMu.Lock()
	conn := p.conn
	p.connMu.Unlock()
	if conn == nil {
		return transportError(errNotConnected)
	}

	conn.SetWriteDeadline(time.Now().Add(socketTimeout))
	return wire.WriteMessage(conn, p.cfg.Params.Net, command, payload)
}

// canonicalPort parses a network's default port string for use in the
// local address record the version message advertises (spec.md §4.3:
// "fixed local-host IPv4-mapped address, canonical port"). An
// unparseable value can only come from a caller-supplied wire.Params
// with a malformed DefaultPort, so it falls back to 0 rather than
// failing the handshake over it.
func canonicalPort(s string) uint16 {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0
	}
	return uint16(p)
}

var errNotConnected = &notConnectedError{}

type notConnectedError struct{}

func (*notConnectedError) Error() string { return "spvpeer: not connected" }

// sendVersion builds and sends the handshake version message
// (spec.md §4.3).
func (p *Peer) sendVersion() error {
	nonce := randomNonce()
	p.connMu.Lock()
	p.sess.nonce = nonce
	p.sess.startTime = time.Now()
	p.connMu.Unlock()

	remote := p.identity.netAddress()
	local := wire.NetAddress{
		Services: 0,
		IP:       wire.LocalHostAddress,
		Port:     canonicalPort(p.cfg.Params.DefaultPort),
	}

	msg := wire.MsgVersion{
		ProtocolVersion: wire.ProtocolVersion,
		Services:        0,
		Timestamp:       time.Now().Unix(),
		AddrRecv:        remote,
		AddrFrom:        local,
		Nonce:           nonce,
		UserAgent:       p.cfg.UserAgent,
		LastBlock:       0,
		Relay:           false,
	}
	return p.write(wire.CmdVersion, msg.Encode())
}
