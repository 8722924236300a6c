package spvpeer

import (
	"errors"
	"fmt"
)

// DisconnectReason classifies why a session's receive loop exited, for
// the disconnected(error_code) callback (spec.md §6, §7).
type DisconnectReason int

const (
	// DisconnectNone is used internally before a reason is known; it
	// never reaches Events.Disconnected.
	DisconnectNone DisconnectReason = iota
	// DisconnectRequested means the owner called Disconnect.
	DisconnectRequested
	// DisconnectProtocolError covers framing and semantic violations:
	// bad magic resync failure, checksum mismatch, oversize counts,
	// tx-before-filter, invalid header proof-of-work, unmatched pong
	// nonce, and the like (spec.md §7).
	DisconnectProtocolError
	// DisconnectTransportError covers connect failure and read/write
	// errors on the underlying socket.
	DisconnectTransportError
	// DisconnectTimeout covers every deadline breach that tears the
	// connection down: connect timeout, per-message timeout, and the
	// sync-phase disconnect_time. The mempool-wait deadline (spec.md
	// §4.8) is not one of these: its expiry sends a ping rather than
	// disconnecting (mirrors BRPeer.c's mempoolTime handling).
	DisconnectTimeout
)

func (r DisconnectReason) String() string {
	switch r {
	case DisconnectRequested:
		return "disconnect requested"
	case DisconnectProtocolError:
		return "protocol error"
	case DisconnectTransportError:
		return "transport error"
	case DisconnectTimeout:
		return "timed out"
	default:
		return "unknown"
	}
}

// PeerError wraps a DisconnectReason with the underlying cause, if any.
type PeerError struct {
	Reason DisconnectReason
	Err    error
}

func (e *PeerError) Error() string {
	if e.Err == nil {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Err.Error()
}

func (e *PeerError) Unwrap() error { return e.Err }

func protocolErrorf(format string, args ...any) error {
	return &PeerError{Reason: DisconnectProtocolError, Err: fmt.Errorf(format, args...)}
}

func timeoutError(err error) error {
	return &PeerError{Reason: DisconnectTimeout, Err: err}
}

func transportError(err error) error {
	return &PeerError{Reason: DisconnectTransportError, Err: err}
}

// ErrMerkleBlockInFlight is the specific protocol error for "any
// non-tx message received while current_block != none" (spec.md §3
// invariant, §4.10).
var ErrMerkleBlockInFlight = errors.New("spvpeer: non-tx message while a merkle block is in flight")

// ErrUnmatchedPongNonce signals a pong whose nonce doesn't match the
// session's expected nonce, or that arrived with no outstanding
// callback (spec.md §4.8).
var ErrUnmatchedPongNonce = errors.New("spvpeer: pong nonce mismatch or no outstanding ping")
