package spvpeer

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Events is the capability record the owner supplies at peer creation
// (spec.md §6, §9: "dynamic dispatch via function pointers" becomes "a
// capability record supplied once at session creation; missing
// operations are treated as no-ops"). Every field is optional; a nil
// field is simply never called.
type Events struct {
	// Connected fires once the handshake completes (status becomes
	// Connected).
	Connected func(p *Peer)

	// Disconnected fires exactly once per connection attempt with the
	// reason it stopped: from the receive loop as it exits, or from
	// Connect when the attempt fails before the loop starts.
	Disconnected func(p *Peer, err error)

	// RelayedPeers delivers addr entries that survived filtering.
	RelayedPeers func(p *Peer, addrs []Identity)

	// RelayedTx delivers a transaction parsed from a tx message.
	RelayedTx func(p *Peer, tx Tx)

	// HasTx fires for an inv tx hash already present in known_tx_hashes.
	HasTx func(p *Peer, hash chainhash.Hash)

	// RejectedTx fires when a BIP61 reject names a tx hash.
	RejectedTx func(p *Peer, hash chainhash.Hash, code uint8)

	// RelayedBlock delivers a fully assembled (or header-only, during
	// sync) block once all its matched transactions have arrived.
	RelayedBlock func(p *Peer, header MerkleBlock)

	// NotFound delivers the tx and block hash lists from a notfound
	// message.
	NotFound func(p *Peer, txHashes, blockHashes []chainhash.Hash)

	// SetFeePerKB fires when the peer's minimum relay fee changes.
	SetFeePerKB func(p *Peer, satPerKB int64)

	// RequestedTx is called to satisfy an incoming getdata for a tx
	// hash; returning (nil, false) causes that hash to be added to the
	// notfound reply.
	RequestedTx func(p *Peer, hash chainhash.Hash) (Tx, bool)

	// NetworkIsReachable lets the owner veto a connect attempt (e.g. no
	// network interface up). Nil means "always reachable".
	NetworkIsReachable func() bool

	// ThreadCleanup is invoked as the receive loop exits, after
	// Disconnected, to release any owner-side per-session resources.
	ThreadCleanup func(p *Peer)
}

func (e Events) connected(p *Peer) {
	if e.Connected != nil {
		e.Connected(p)
	}
}

func (e Events) disconnected(p *Peer, err error) {
	if e.Disconnected != nil {
		e.Disconnected(p, err)
	}
}

func (e Events) relayedPeers(p *Peer, addrs []Identity) {
	if e.RelayedPeers != nil {
		e.RelayedPeers(p, addrs)
	}
}

func (e Events) relayedTx(p *Peer, tx Tx) {
	if e.RelayedTx != nil {
		e.RelayedTx(p, tx)
	}
}

func (e Events) hasTx(p *Peer, hash chainhash.Hash) {
	if e.HasTx != nil {
		e.HasTx(p, hash)
	}
}

func (e Events) rejectedTx(p *Peer, hash chainhash.Hash, code uint8) {
	if e.RejectedTx != nil {
		e.RejectedTx(p, hash, code)
	}
}

func (e Events) relayedBlock(p *Peer, b MerkleBlock) {
	if e.RelayedBlock != nil {
		e.RelayedBlock(p, b)
	}
}

func (e Events) notFound(p *Peer, txHashes, blockHashes []chainhash.Hash) {
	if e.NotFound != nil {
		e.NotFound(p, txHashes, blockHashes)
	}
}

func (e Events) setFeePerKB(p *Peer, satPerKB int64) {
	if e.SetFeePerKB != nil {
		e.SetFeePerKB(p, satPerKB)
	}
}

func (e Events) requestedTx(p *Peer, hash chainhash.Hash) (Tx, bool) {
	if e.RequestedTx != nil {
		return e.RequestedTx(p, hash)
	}
	return nil, false
}

func (e Events) networkIsReachable() bool {
	if e.NetworkIsReachable != nil {
		return e.NetworkIsReachable()
	}
	return true
}

func (e Events) threadCleanup(p *Peer) {
	if e.ThreadCleanup != nil {
		e.ThreadCleanup(p)
	}
}
