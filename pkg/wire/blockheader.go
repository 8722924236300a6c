package wire

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ClassicalHeaderSize is the size of the pre-KAWPOW block header: the
// part every header — classical or extended — shares and the part
// that feeds X16R/X16Rv2/sha256d hashing (spec.md §4.6).
const ClassicalHeaderSize = 80

// KAWPOWExtensionSize is the number of bytes a KAWPOW header appends
// past the classical 80: an 8-byte nonce and a 32-byte mix hash. The
// header's "height" field lives inside the classical 80 bytes, at the
// offset the pre-KAWPOW format used for its 4-byte nonce.
const KAWPOWExtensionSize = 40

// KAWPOWExtension carries the fields a post-activation header appends
// to the classical prefix.
type KAWPOWExtension struct {
	Nonce   uint64
	MixHash chainhash.Hash
}

// BlockHeader is a single block header as carried in a headers message.
// Pre-activation headers leave KAWPOW nil and use Nonce as an ordinary
// 32-bit nonce; post-activation headers set KAWPOW and repurpose Nonce
// as the block height (spec.md §4.6, offsets +76/+80/+88).
type BlockHeader struct {
	Version    uint32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32 // classical nonce, or post-activation height
	KAWPOW     *KAWPOWExtension
}

// IsKAWPOW reports whether h carries the post-activation extension.
func (h BlockHeader) IsKAWPOW() bool { return h.KAWPOW != nil }

// Height returns Nonce under its post-activation meaning. Callers must
// check IsKAWPOW first; a classical header has no height field.
func (h BlockHeader) Height() uint32 { return h.Nonce }

// WireSize reports how many bytes this header occupies on the wire,
// excluding the trailing VarInt-0 transaction count every headers-message
// entry carries.
func (h BlockHeader) WireSize() int {
	if h.IsKAWPOW() {
		return ClassicalHeaderSize + KAWPOWExtensionSize
	}
	return ClassicalHeaderSize
}

// ClassicalPrefixBytes serializes the 80-byte classical portion, the
// input to every one of the chain's PoW hash functions regardless of
// which algorithm is active.
func (h BlockHeader) ClassicalPrefixBytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, ClassicalHeaderSize))
	PutUint32LE(buf, h.Version)
	PutHash(buf, h.PrevBlock)
	PutHash(buf, h.MerkleRoot)
	PutUint32LE(buf, h.Timestamp)
	PutUint32LE(buf, h.Bits)
	PutUint32LE(buf, h.Nonce)
	return buf.Bytes()
}

// DecodeClassicalHeader reads the 80-byte classical portion shared by
// every header, leaving KAWPOW nil. Since the timestamp that decides
// whether a KAWPOW extension follows lives inside these 80 bytes, a
// stream decoder reads this much first, inspects Timestamp, and then
// conditionally calls DecodeKAWPOWExtension.
func DecodeClassicalHeader(c *Cursor) (BlockHeader, error) {
	var h BlockHeader
	var err error
	if h.Version, err = c.Uint32LE(); err != nil {
		return h, err
	}
	if h.PrevBlock, err = c.Hash(); err != nil {
		return h, err
	}
	if h.MerkleRoot, err = c.Hash(); err != nil {
		return h, err
	}
	if h.Timestamp, err = c.Uint32LE(); err != nil {
		return h, err
	}
	if h.Bits, err = c.Uint32LE(); err != nil {
		return h, err
	}
	if h.Nonce, err = c.Uint32LE(); err != nil {
		return h, err
	}
	return h, nil
}

// DecodeKAWPOWExtension reads the 40-byte post-activation extension
// (8-byte nonce, 32-byte mix hash).
func DecodeKAWPOWExtension(c *Cursor) (*KAWPOWExtension, error) {
	ext := &KAWPOWExtension{}
	var err error
	if ext.Nonce, err = c.Uint64LE(); err != nil {
		return nil, err
	}
	if ext.MixHash, err = c.Hash(); err != nil {
		return nil, err
	}
	return ext, nil
}

// DecodeBlockHeader reads one header from c. kawpow selects whether the
// 40-byte extension follows the classical 80 bytes; callers that don't
// yet know which (the header's own timestamp decides it) should call
// DecodeClassicalHeader and DecodeKAWPOWExtension directly instead.
func DecodeBlockHeader(c *Cursor, kawpow bool) (BlockHeader, error) {
	h, err := DecodeClassicalHeader(c)
	if err != nil {
		return h, err
	}
	if !kawpow {
		return h, nil
	}
	ext, err := DecodeKAWPOWExtension(c)
	if err != nil {
		return h, err
	}
	h.KAWPOW = ext
	return h, nil
}

// EncodeBlockHeader serializes h, including its KAWPOW extension if
// present, but not the trailing tx-count VarInt (callers append that
// themselves since the headers message format owns it, not the header).
func EncodeBlockHeader(h BlockHeader) []byte {
	buf := bytes.NewBuffer(h.ClassicalPrefixBytes())
	if h.IsKAWPOW() {
		PutUint64LE(buf, h.KAWPOW.Nonce)
		PutHash(buf, h.KAWPOW.MixHash)
	}
	return buf.Bytes()
}

// headerTxCount reads the trailing VarInt every headers-message entry
// carries after its header bytes; a non-zero value is a protocol
// violation since a headers message never carries transactions.
func headerTxCount(c *Cursor) error {
	n, err := c.VarInt()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("wire: header entry claims %d transactions, headers message carries none", n)
	}
	return nil
}

// DecodeHeaderTxCount reads and validates the trailing VarInt-0
// transaction count that follows each header in a headers message.
// Exported so a caller that must decide kawpow per-header (the sync
// driver, since that decision depends on the header's own timestamp)
// can drive DecodeClassicalHeader/DecodeKAWPOWExtension/this directly.
func DecodeHeaderTxCount(c *Cursor) error {
	return headerTxCount(c)
}

// DecodeHeaderEntry reads one (header, trailing-tx-count) pair as it
// appears inside a headers message.
func DecodeHeaderEntry(c *Cursor, kawpow bool) (BlockHeader, error) {
	h, err := DecodeBlockHeader(c, kawpow)
	if err != nil {
		return h, err
	}
	if err := headerTxCount(c); err != nil {
		return h, err
	}
	return h, nil
}

// EncodeHeaderEntry serializes a header followed by the trailing
// VarInt-0 transaction count.
func EncodeHeaderEntry(buf *bytes.Buffer, h BlockHeader) {
	buf.Write(EncodeBlockHeader(h))
	WriteVarInt(buf, 0)
}

// DecodeHeadersCount reads just the VarInt entry count that opens a
// headers message, leaving c positioned at the first header.
func DecodeHeadersCount(c *Cursor) (uint64, error) {
	return c.VarInt()
}

// EncodeHeadersPrefix writes the VarInt entry count that opens a
// headers message.
func EncodeHeadersPrefix(buf *bytes.Buffer, count uint64) {
	WriteVarInt(buf, count)
}
