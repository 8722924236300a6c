package spvpeer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// Tx is the minimal surface the core needs from a decoded transaction.
// Full transaction parsing is explicitly out of scope (spec.md §1); a
// real implementation plugs in btcd/btcutil's tx type, or similar, by
// satisfying this interface.
type Tx interface {
	Hash() chainhash.Hash
	SerializeSize() int
	Bytes() []byte
}

// MerkleBlock is the minimal surface the core needs from a decoded
// merkle block: its header and the transaction hashes the partial
// merkle tree proves are members. Building and verifying the partial
// merkle tree itself is out of scope (spec.md §1) — the decoder that
// produces this value owns that proof.
type MerkleBlock interface {
	Header() wire.BlockHeader
	MatchedTxHashes() []chainhash.Hash
}

// TxDecoder parses a raw tx-message payload into a Tx. The core never
// inspects transaction contents beyond its hash.
type TxDecoder interface {
	DecodeTx(payload []byte) (Tx, error)
}

// MerkleBlockDecoder parses a raw merkleblock-message payload,
// including validating its internal partial-merkle-tree proof against
// the header's merkle root. A malformed or non-matching proof must be
// returned as an error so the acceptor can tear the connection down.
type MerkleBlockDecoder interface {
	DecodeMerkleBlock(payload []byte) (MerkleBlock, error)
}

// HeaderPoW verifies a block header is self-consistent under whichever
// proof-of-work algorithm its timestamp selects, and derives its block
// hash. Three algorithms are active across the chain's history
// (spec.md §4.6): X16R, X16Rv2, and — after KAWPOWActivationTime — an
// ethash-style light verifier. Selecting among them from the header's
// timestamp and params is the sync driver's job (headerssync.go); this
// interface is handed the already-selected algorithm's work via the
// three methods below so a caller never needs a type switch.
type HeaderPoW interface {
	// X16R hashes the classical 80-byte prefix under the original
	// chain algorithm.
	X16R(classicalPrefix []byte) (chainhash.Hash, error)
	// X16Rv2 hashes the classical 80-byte prefix under the revised
	// algorithm active between the X16Rv2 and KAWPOW activations.
	X16Rv2(classicalPrefix []byte) (chainhash.Hash, error)
	// KAWPOWLightVerify checks a post-activation header's proof
	// against its mix hash and nonce, returning the resulting block
	// hash on success. headerHash is sha256d of the classical
	// 80-byte prefix, per spec.md §4.6.
	KAWPOWLightVerify(headerHash chainhash.Hash, mixHash chainhash.Hash, nonce uint64, height uint32) (chainhash.Hash, error)
}
