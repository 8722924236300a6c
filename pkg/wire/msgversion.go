package wire

import (
	"bytes"
	"fmt"
)

// MinVersionPayload is the smallest payload the decoder accepts for a
// version message (spec.md §4.3).
const MinVersionPayload = 85

// MaxUserAgentLen caps the useragent varstring defensively; the
// reference node doesn't enforce one explicitly but no real client
// sends anything close to this.
const MaxUserAgentLen = 1024

// MsgVersion is the local→remote or remote→local handshake message.
type MsgVersion struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	Relay           bool
}

// Encode serializes v per spec.md §4.3.
func (v MsgVersion) Encode() []byte {
	buf := new(bytes.Buffer)
	PutUint32LE(buf, v.ProtocolVersion)
	PutUint64LE(buf, uint64(v.Services))
	PutUint64LE(buf, uint64(v.Timestamp))
	encodeNetAddressNoStamp(buf, v.AddrRecv)
	encodeNetAddressNoStamp(buf, v.AddrFrom)
	PutUint64LE(buf, v.Nonce)
	WriteVarInt(buf, uint64(len(v.UserAgent)))
	buf.WriteString(v.UserAgent)
	PutUint32LE(buf, uint32(v.LastBlock))
	if v.Relay {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// DecodeVersion parses a version payload per spec.md §4.3.
func DecodeVersion(payload []byte) (MsgVersion, error) {
	var v MsgVersion
	if len(payload) < MinVersionPayload {
		return v, fmt.Errorf("wire: malformed version message, length is %d, should be >= %d", len(payload), MinVersionPayload)
	}

	c := NewCursor(payload)
	var err error
	if v.ProtocolVersion, err = c.Uint32LE(); err != nil {
		return v, err
	}
	services, err := c.Uint64LE()
	if err != nil {
		return v, err
	}
	v.Services = ServiceFlag(services)
	ts, err := c.Uint64LE()
	if err != nil {
		return v, err
	}
	v.Timestamp = int64(ts)
	if v.AddrRecv, err = decodeNetAddressNoStamp(c); err != nil {
		return v, err
	}
	if v.AddrFrom, err = decodeNetAddressNoStamp(c); err != nil {
		return v, err
	}
	if v.Nonce, err = c.Uint64LE(); err != nil {
		return v, err
	}
	if v.UserAgent, err = c.VarString(MaxUserAgentLen); err != nil {
		return v, err
	}
	lastBlock, err := c.Uint32LE()
	if err != nil {
		return v, err
	}
	v.LastBlock = int32(lastBlock)

	// Relay flag is optional; absence means "assume relay wanted" on
	// the reference node, but SPV peers never rely on this field.
	if c.Remaining() > 0 {
		relay, err := c.Uint8()
		if err != nil {
			return v, err
		}
		v.Relay = relay != 0
	}

	return v, nil
}
