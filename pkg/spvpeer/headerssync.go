package spvpeer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// maxHeadersPerBatch is the largest headers message this peer accepts
// (spec.md §4.6: "batches of up to 2000").
const maxHeadersPerBatch = 2000

// headersLookback is the "7 days" window spec.md §4.6 uses twice: to
// decide whether the batch is still far from the wallet's creation
// time, and to find where a getblocks switch-over should begin.
const headersLookback = 7 * 24 * time.Hour

// headerOnlyBlock adapts a bare header (no merkle proof — headers
// messages never carry one) to the MerkleBlock interface so it can
// travel through the same relayed_block upward path a merkleblock
// does, matching the reference node's reuse of its merkle-block
// struct to represent plain headers during sync.
type headerOnlyBlock struct {
	header wire.BlockHeader
}

func (h headerOnlyBlock) Header() wire.BlockHeader          { return h.header }
func (h headerOnlyBlock) MatchedTxHashes() []chainhash.Hash { return nil }

// acceptHeaders is the hard case: headers sync across a possible
// mid-batch proof-of-work algorithm transition (spec.md §4.6).
func (p *Peer) acceptHeaders(payload []byte) error {
	c := wire.NewCursor(payload)
	count, err := wire.DecodeHeadersCount(c)
	if err != nil {
		return protocolErrorf("headers: %w", err)
	}
	if count > maxHeadersPerBatch {
		return protocolErrorf("headers: batch of %d exceeds max %d", count, maxHeadersPerBatch)
	}
	if count == 0 {
		return nil
	}

	kawpowActivation := p.cfg.Params.KAWPOWActivationTime
	x16rv2Activation := p.cfg.Params.X16Rv2ActivationTime

	headers := make([]wire.BlockHeader, 0, count)
	blockHashes := make([]chainhash.Hash, 0, count)

	for i := uint64(0); i < count; i++ {
		h, err := wire.DecodeClassicalHeader(c)
		if err != nil {
			return protocolErrorf("headers[%d]: %w", i, err)
		}
		ts := time.Unix(int64(h.Timestamp), 0)
		isKAWPOW := !ts.Before(kawpowActivation)
		if isKAWPOW {
			ext, err := wire.DecodeKAWPOWExtension(c)
			if err != nil {
				return protocolErrorf("headers[%d]: kawpow extension: %w", i, err)
			}
			h.KAWPOW = ext
		}
		if err := wire.DecodeHeaderTxCount(c); err != nil {
			return protocolErrorf("headers[%d]: %w", i, err)
		}

		blockHash, err := p.headerBlockHash(h, ts, isKAWPOW, x16rv2Activation)
		if err != nil {
			return protocolErrorf("headers[%d]: invalid proof of work: %w", i, err)
		}

		headers = append(headers, h)
		blockHashes = append(blockHashes, blockHash)
	}

	for _, h := range headers {
		p.cfg.Events.relayedBlock(p, headerOnlyBlock{header: h})
	}

	return p.scheduleHeadersFollowUp(headers, blockHashes)
}

// headerBlockHash selects X16R, X16Rv2, or the ethash light verifier
// per the header's own timestamp (spec.md §4.6 step 3).
func (p *Peer) headerBlockHash(h wire.BlockHeader, ts time.Time, isKAWPOW bool, x16rv2Activation time.Time) (chainhash.Hash, error) {
	prefix := h.ClassicalPrefixBytes()
	if isKAWPOW {
		headerHash := chainhash.DoubleHashH(prefix)
		return p.cfg.PoW.KAWPOWLightVerify(headerHash, h.KAWPOW.MixHash, h.KAWPOW.Nonce, h.Height())
	}
	if !ts.Before(x16rv2Activation) {
		return p.cfg.PoW.X16Rv2(prefix)
	}
	return p.cfg.PoW.X16R(prefix)
}

// scheduleHeadersFollowUp implements spec.md §4.6 step 4: decide
// whether to request more headers, switch to getblocks, or stop.
func (p *Peer) scheduleHeadersFollowUp(headers []wire.BlockHeader, blockHashes []chainhash.Hash) error {
	count := len(headers)
	timestampLast := time.Unix(int64(headers[count-1].Timestamp), 0)

	earliestKeyTime := time.Unix(p.earliestKeyTime.Load(), 0)
	needsFollowUp := count >= maxHeadersPerBatch ||
		!timestampLast.Add(headersLookback).Add(wire.MaxBlockDrift).Before(earliestKeyTime)
	if !needsFollowUp {
		return nil
	}

	lookbackThreshold := earliestKeyTime.Add(-headersLookback)
	if !timestampLast.Before(lookbackThreshold) {
		idx := 0
		for idx < count {
			ts := time.Unix(int64(headers[idx].Timestamp), 0)
			if !ts.Before(lookbackThreshold) {
				break
			}
			idx++
		}
		if idx >= count {
			idx = count - 1
		}
		locator := []chainhash.Hash{blockHashes[idx], blockHashes[0]}
		if err := p.SendGetblocks(locator, chainhash.Hash{}); err != nil {
			return transportError(err)
		}
		return nil
	}

	locator := []chainhash.Hash{blockHashes[count-1], blockHashes[0]}
	if err := p.SendGetheaders(locator, chainhash.Hash{}); err != nil {
		return transportError(err)
	}
	return nil
}
