package wire

import "bytes"

// MsgPing and MsgPong both carry a single 8-byte nonce that the
// receiver of a ping must echo back in a pong (spec.md §4.7).

// EncodePing serializes a ping/pong payload.
func EncodePing(nonce uint64) []byte {
	buf := new(bytes.Buffer)
	PutUint64LE(buf, nonce)
	return buf.Bytes()
}

// DecodePing parses a ping/pong payload.
func DecodePing(payload []byte) (uint64, error) {
	c := NewCursor(payload)
	return c.Uint64LE()
}
