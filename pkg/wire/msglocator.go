package wire

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxLocatorHashes bounds the locator count this codec will decode.
// The reference node builds locators of at most a few dozen hashes
// (doubling-then-every-block walk); anything past this is malformed.
const MaxLocatorHashes = 2000

// MsgLocator is the shared shape of getheaders and getblocks: a
// protocol version, a VarInt-counted block-locator hash list (sent
// densest-to-sparsest), and a stop hash (all-zero meaning "no stop").
type MsgLocator struct {
	ProtocolVersion uint32
	Locator         []chainhash.Hash
	HashStop        chainhash.Hash
}

// Encode serializes the shared getheaders/getblocks payload shape.
func (m MsgLocator) Encode() []byte {
	buf := new(bytes.Buffer)
	PutUint32LE(buf, m.ProtocolVersion)
	WriteVarInt(buf, uint64(len(m.Locator)))
	for _, h := range m.Locator {
		PutHash(buf, h)
	}
	PutHash(buf, m.HashStop)
	return buf.Bytes()
}

// DecodeLocator parses the shared getheaders/getblocks payload shape.
func DecodeLocator(payload []byte) (MsgLocator, error) {
	var m MsgLocator
	c := NewCursor(payload)
	var err error
	if m.ProtocolVersion, err = c.Uint32LE(); err != nil {
		return m, err
	}
	count, err := c.VarInt()
	if err != nil {
		return m, err
	}
	if count > MaxLocatorHashes {
		return m, fmt.Errorf("wire: locator count %d exceeds max %d", count, MaxLocatorHashes)
	}
	m.Locator = make([]chainhash.Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		h, err := c.Hash()
		if err != nil {
			return m, err
		}
		m.Locator = append(m.Locator, h)
	}
	if m.HashStop, err = c.Hash(); err != nil {
		return m, err
	}
	return m, nil
}
