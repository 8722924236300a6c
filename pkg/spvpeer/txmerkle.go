package spvpeer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// maxRelayTxSize bounds what this peer will relay in reply to getdata,
// matching the network's standard transaction size cap (spec.md §4.7:
// "under the max-size cap").
const maxRelayTxSize = 100000

// acceptTx handles tx (spec.md §4.7).
func (p *Peer) acceptTx(payload []byte) error {
	if !p.sess.sentFilter && !p.sess.sentGetdata {
		return protocolErrorf("tx: received before filterload or getdata")
	}

	tx, err := p.cfg.TxDecoder.DecodeTx(payload)
	if err != nil {
		return protocolErrorf("tx: %w", err)
	}
	p.cfg.Events.relayedTx(p, tx)

	if p.sess.current == nil {
		return nil
	}
	hash := tx.Hash()
	expected := p.sess.current.expected
	for i := len(expected) - 1; i >= 0; i-- {
		if expected[i] == hash {
			expected = append(expected[:i], expected[i+1:]...)
			break
		}
	}
	p.sess.current.expected = expected
	if len(expected) == 0 {
		p.cfg.Events.relayedBlock(p, p.sess.current.block)
		p.sess.current = nil
	}
	return nil
}

// acceptMerkleBlock handles merkleblock (spec.md §4.7).
func (p *Peer) acceptMerkleBlock(payload []byte) error {
	mb, err := p.cfg.MerkleDecoder.DecodeMerkleBlock(payload)
	if err != nil {
		return protocolErrorf("merkleblock: %w", err)
	}

	matched := mb.MatchedTxHashes()
	expected := make([]chainhash.Hash, 0, len(matched))
	for _, h := range matched {
		if p.sess.knownTx.has(h) {
			continue
		}
		expected = append(expected, h)
	}
	// Accumulate in reverse order so removal by arriving tx messages,
	// which this implementation does by linear scan-and-splice, is
	// cheapest from the tail for the common in-order-arrival case
	// (spec.md §4.7).
	reversed := make([]chainhash.Hash, len(expected))
	for i, h := range expected {
		reversed[len(expected)-1-i] = h
	}

	if len(reversed) == 0 {
		p.cfg.Events.relayedBlock(p, mb)
		return nil
	}

	p.sess.current = &inFlightBlock{block: mb, expected: reversed}
	return nil
}

// acceptGetData handles getdata (spec.md §4.7).
func (p *Peer) acceptGetData(payload []byte) error {
	items, err := wire.DecodeInvList(payload)
	if err != nil {
		return protocolErrorf("getdata: %w", err)
	}

	var notFoundItems wire.InvList
	for _, it := range items {
		if it.Type != wire.InvTypeTx {
			// This peer serves no blocks at all (spec.md §1 Non-goals).
			notFoundItems = append(notFoundItems, it)
			continue
		}
		tx, ok := p.cfg.Events.requestedTx(p, it.Hash)
		if !ok || tx == nil || tx.SerializeSize() > maxRelayTxSize {
			notFoundItems = append(notFoundItems, it)
			continue
		}
		if err := p.write(wire.CmdTx, tx.Bytes()); err != nil {
			return transportError(err)
		}
	}

	if len(notFoundItems) > 0 {
		if err := p.write(wire.CmdNotFound, wire.EncodeInvList(notFoundItems)); err != nil {
			return transportError(err)
		}
	}
	return nil
}
