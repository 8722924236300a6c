package bitcoin

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/ravencoin-community/ravenspv/pkg/spvpeer"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// txAdapter wraps a decoded btcd MsgTx to satisfy spvpeer.Tx. Ravencoin's
// transaction format is a byte-compatible extension of Bitcoin's (it
// adds asset-issuance/transfer script opcodes, not new tx-level
// fields), so reusing btcd's transaction codec is a faithful decoder
// for the core's purposes — full asset-aware script interpretation
// stays out of scope (spec.md §1), just as it does for the core itself.
type txAdapter struct {
	msg *btcwire.MsgTx
	raw []byte
}

func (t *txAdapter) Hash() chainhash.Hash { return t.msg.TxHash() }
func (t *txAdapter) SerializeSize() int   { return len(t.raw) }
func (t *txAdapter) Bytes() []byte        { return t.raw }

// TxCodec decodes and serializes tx-message payloads via btcd's
// transaction wire codec (spvpeer.TxDecoder).
type TxCodec struct{}

func (TxCodec) DecodeTx(payload []byte) (spvpeer.Tx, error) {
	msg := &btcwire.MsgTx{}
	if err := msg.Deserialize(bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("bitcoin: decode tx: %w", err)
	}
	return &txAdapter{msg: msg, raw: payload}, nil
}

// merkleBlockAdapter wraps a decoded btcd MsgMerkleBlock to satisfy
// spvpeer.MerkleBlock.
type merkleBlockAdapter struct {
	header  wire.BlockHeader
	matched []chainhash.Hash
}

func (m *merkleBlockAdapter) Header() wire.BlockHeader          { return m.header }
func (m *merkleBlockAdapter) MatchedTxHashes() []chainhash.Hash { return m.matched }

// MerkleBlockCodec decodes merkleblock-message payloads via btcd's
// partial-merkle-tree codec (spvpeer.MerkleBlockDecoder). It assumes
// the classical 80-byte header form; Ravencoin's merkleblock message
// has not been observed to carry the KAWPOW header extension the
// headers message does. It trusts btcd's structural
// parse of the partial merkle tree; it does not independently
// recompute the tree to confirm it resolves to the header's merkle
// root — a real deployment should add that check at this boundary.
type MerkleBlockCodec struct{}

func (MerkleBlockCodec) DecodeMerkleBlock(payload []byte) (spvpeer.MerkleBlock, error) {
	msg := &btcwire.MsgMerkleBlock{}
	if err := msg.BtcDecode(bytes.NewReader(payload), btcwire.ProtocolVersion, btcwire.BaseEncoding); err != nil {
		return nil, fmt.Errorf("bitcoin: decode merkleblock: %w", err)
	}

	h := wire.BlockHeader{
		Version:    uint32(msg.Header.Version),
		PrevBlock:  msg.Header.PrevBlock,
		MerkleRoot: msg.Header.MerkleRoot,
		Timestamp:  uint32(msg.Header.Timestamp.Unix()),
		Bits:       msg.Header.Bits,
		Nonce:      msg.Header.Nonce,
	}

	matched := make([]chainhash.Hash, len(msg.Hashes))
	for i, hp := range msg.Hashes {
		matched[i] = *hp
	}

	return &merkleBlockAdapter{header: h, matched: matched}, nil
}
