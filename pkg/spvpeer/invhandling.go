package spvpeer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// maxTxPerInv is the sanity cap on tx items in a single inv (spec.md §4.5).
const maxTxPerInv = 10000

// blockInvBatchSize is the count that signals "there are more blocks
// past this batch, keep syncing" (spec.md §4.5: "If the inv contained
// 500 block hashes, immediately issue another getblocks").
const blockInvBatchSize = 500

// tarpitMinBlocks and tarpitMaxBlocks bound the "non-standard,
// tear down" range from spec.md §4.5 ("between 3 and 499").
const (
	tarpitMinBlocks = 3
	tarpitMaxBlocks = 499
)

// acceptInv handles inv (spec.md §4.5).
func (p *Peer) acceptInv(payload []byte) error {
	items, err := wire.DecodeInvList(payload)
	if err != nil {
		return protocolErrorf("inv: %w", err)
	}

	var txHashes, blockHashes []chainhash.Hash
	for _, it := range items {
		switch it.Type {
		case wire.InvTypeTx:
			txHashes = append(txHashes, it.Hash)
		case wire.InvTypeBlock, wire.InvTypeFilteredBlock:
			blockHashes = append(blockHashes, it.Hash)
		}
	}

	if len(txHashes) > 0 && !p.sess.sentFilter && !p.sess.sentMempool && !p.sess.sentGetblocks {
		return protocolErrorf("inv: tx item received before filter load or mempool/getblocks request")
	}
	if len(txHashes) > maxTxPerInv {
		return protocolErrorf("inv: %d tx items exceeds sanity max %d", len(txHashes), maxTxPerInv)
	}

	blockCount := len(blockHashes)
	if blockCount == 1 {
		if p.sess.haveSingleBlockInv && blockHashes[0] == p.sess.lastSingleBlockInv {
			blockCount = 0
			blockHashes = nil
		} else {
			p.sess.haveSingleBlockInv = true
			p.sess.lastSingleBlockInv = blockHashes[0]
		}
	}

	tip := p.currentBlockHeight.Load()
	pending := int32(p.sess.knownBlock.len())
	if tip+pending+int32(blockCount) < p.sess.lastblock && blockCount >= tarpitMinBlocks && blockCount <= tarpitMaxBlocks {
		return protocolErrorf("inv: tarpit detected, %d block hashes with tip %d behind advertised %d", blockCount, tip, p.sess.lastblock)
	}

	var getdataItems wire.InvList
	for _, h := range txHashes {
		if p.sess.knownTx.has(h) {
			p.cfg.Events.hasTx(p, h)
			continue
		}
		p.sess.knownTx.add(h)
		getdataItems = append(getdataItems, wire.InvVect{Type: wire.InvTypeTx, Hash: h})
	}
	for _, h := range blockHashes {
		p.sess.addKnownBlockHash(h)
		getdataItems = append(getdataItems, wire.InvVect{Type: wire.InvTypeBlock, Hash: h})
	}

	if len(getdataItems) > 0 {
		if err := p.write(wire.CmdGetData, wire.EncodeInvList(getdataItems)); err != nil {
			return transportError(err)
		}
		p.sess.sentGetdata = true
	}

	if blockCount == blockInvBatchSize {
		locator := wire.MsgLocator{
			ProtocolVersion: wire.ProtocolVersion,
			Locator:         []chainhash.Hash{blockHashes[len(blockHashes)-1], blockHashes[0]},
		}
		if err := p.write(wire.CmdGetBlocks, locator.Encode()); err != nil {
			return transportError(err)
		}
		p.sess.sentGetblocks = true
	}

	if p.sess.mempool != nil {
		cb := p.sess.mempool.callback
		p.sess.mempool = nil
		p.sess.mempoolDeadline = time.Time{}
		if err := p.pingForMempoolCompletion(cb); err != nil {
			return transportError(err)
		}
	}

	return nil
}
