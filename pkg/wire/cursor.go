package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

// ErrShortRead is returned by every Cursor primitive when the payload
// runs out before the field it was asked to decode.
var ErrShortRead = fmt.Errorf("wire: payload too short")

// Cursor is a bounds-checked reader over a single message payload.
// Every acceptor in pkg/spvpeer is expressed in terms of it so that
// length validation happens in one place.
type Cursor struct {
	r   *bytes.Reader
	buf []byte // backing slice, for position-relative reads (Peek, Remaining)
}

// NewCursor wraps payload for sequential decoding. It does not copy.
func NewCursor(payload []byte) *Cursor {
	return &Cursor{r: bytes.NewReader(payload), buf: payload}
}

// Pos returns the number of bytes already consumed.
func (c *Cursor) Pos() int { return len(c.buf) - c.r.Len() }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return c.r.Len() }

func (c *Cursor) need(n int) error {
	if c.r.Len() < n {
		return ErrShortRead
	}
	return nil
}

// Bytes reads exactly n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(c.r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Uint8 reads a single byte.
func (c *Cursor) Uint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b, err := c.r.ReadByte()
	return b, err
}

// Uint16LE reads a little-endian uint16 (used for port fields reflected
// in host byte order after the transport normalizes them — ports
// themselves are big-endian on the wire, see Uint16BE).
func (c *Cursor) Uint16LE() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint16BE reads a big-endian uint16 (ports, per spec.md §6).
func (c *Cursor) Uint16BE() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32LE reads a little-endian uint32.
func (c *Cursor) Uint32LE() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64LE reads a little-endian uint64.
func (c *Cursor) Uint64LE() (uint64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Hash reads a 32-byte hash, wire order (already internal byte order
// for chainhash.Hash, no reversal here).
func (c *Cursor) Hash() (chainhash.Hash, error) {
	b, err := c.Bytes(chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	copy(h[:], b)
	return h, nil
}

// VarInt reads a VarInt using btcd's wire codec directly, since the
// Ravencoin VarInt encoding never diverged from upstream Bitcoin.
func (c *Cursor) VarInt() (uint64, error) {
	return btcwire.ReadVarInt(c.r, btcwire.ProtocolVersion)
}

// VarString reads a VarInt-length-prefixed UTF-8 string (the useragent
// field of version, and asset names).
func (c *Cursor) VarString(maxLen uint64) (string, error) {
	n, err := c.VarInt()
	if err != nil {
		return "", err
	}
	if n > maxLen {
		return "", fmt.Errorf("wire: varstring length %d exceeds max %d", n, maxLen)
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarInt appends the VarInt encoding of n to buf.
func WriteVarInt(buf *bytes.Buffer, n uint64) {
	_ = btcwire.WriteVarInt(buf, btcwire.ProtocolVersion, n)
}

// VarIntSerializeSize reports how many bytes n would take as a VarInt.
func VarIntSerializeSize(n uint64) int {
	return btcwire.VarIntSerializeSize(n)
}

// PutUint32LE appends a little-endian uint32.
func PutUint32LE(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// PutUint64LE appends a little-endian uint64.
func PutUint64LE(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// PutUint16BE appends a big-endian uint16 (ports).
func PutUint16BE(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

// PutHash appends a 32-byte hash verbatim.
func PutHash(buf *bytes.Buffer, h chainhash.Hash) {
	buf.Write(h[:])
}
