package wire

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxInvPerMessage bounds the item count inv/getdata/notfound will
// decode, mirroring the reference node's refusal to process absurd
// counts (spec.md §4.4, tarpit-detection note for inv specifically).
const MaxInvPerMessage = 50000

// InvVect is one entry of an inv, getdata, or notfound message: a
// 4-byte type tag followed by a 32-byte hash.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// InvList is the shared VarInt-counted shape of inv, getdata, and
// notfound payloads.
type InvList []InvVect

// EncodeInvList serializes a VarInt count followed by each item.
func EncodeInvList(items InvList) []byte {
	buf := new(bytes.Buffer)
	WriteVarInt(buf, uint64(len(items)))
	for _, it := range items {
		PutUint32LE(buf, uint32(it.Type))
		PutHash(buf, it.Hash)
	}
	return buf.Bytes()
}

// DecodeInvList parses a VarInt-counted list of (type, hash) pairs.
func DecodeInvList(payload []byte) (InvList, error) {
	c := NewCursor(payload)
	count, err := c.VarInt()
	if err != nil {
		return nil, err
	}
	if count > MaxInvPerMessage {
		return nil, fmt.Errorf("wire: inv list count %d exceeds max %d", count, MaxInvPerMessage)
	}
	items := make(InvList, 0, count)
	for i := uint64(0); i < count; i++ {
		typ, err := c.Uint32LE()
		if err != nil {
			return nil, err
		}
		hash, err := c.Hash()
		if err != nil {
			return nil, err
		}
		items = append(items, InvVect{Type: InvType(typ), Hash: hash})
	}
	return items, nil
}
