package wire

import (
	"bytes"
	"fmt"
)

// MaxAddrPerMessage matches the reference node's refusal to process an
// addr message claiming more than 1000 entries.
const MaxAddrPerMessage = 1000

// DecodeAddr parses an addr message: a VarInt count followed by that
// many timestamped NetAddress records (spec.md §4.4).
func DecodeAddr(payload []byte) ([]NetAddress, error) {
	c := NewCursor(payload)
	count, err := c.VarInt()
	if err != nil {
		return nil, err
	}
	if count > MaxAddrPerMessage {
		return nil, fmt.Errorf("wire: addr count %d exceeds max %d", count, MaxAddrPerMessage)
	}
	out := make([]NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		a, err := decodeNetAddressTimestamped(c)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// EncodeAddr serializes an addr message payload.
func EncodeAddr(addrs []NetAddress) []byte {
	buf := new(bytes.Buffer)
	WriteVarInt(buf, uint64(len(addrs)))
	for _, a := range addrs {
		encodeNetAddressTimestamped(buf, a)
	}
	return buf.Bytes()
}
