package spvpeer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// SendFilterload sends a raw bloom filter (spec.md §6). Filter
// construction itself is out of scope; the owner supplies the
// already-serialized payload.
func (p *Peer) SendFilterload(filter []byte) error {
	if err := p.write(wire.CmdFilterLoad, filter); err != nil {
		return err
	}
	p.mutate(func(s *session) { s.sentFilter = true })
	return nil
}

// SendMempool requests the peer's mempool contents and arms the
// 10-second mempool-wait deadline (spec.md §4.8).
func (p *Peer) SendMempool(cb func(err error)) error {
	if err := p.write(wire.CmdMempool, nil); err != nil {
		return err
	}
	p.mutate(func(s *session) {
		s.sentMempool = true
		s.mempoolDeadline = time.Now().Add(10 * time.Second)
		s.mempool = &mempoolWaiter{callback: cb}
	})
	return nil
}

// SendGetheaders requests headers starting after the given locator
// (spec.md §4.6).
func (p *Peer) SendGetheaders(locator []chainhash.Hash, hashStop chainhash.Hash) error {
	msg := wire.MsgLocator{ProtocolVersion: wire.ProtocolVersion, Locator: locator, HashStop: hashStop}
	return p.write(wire.CmdGetHeaders, msg.Encode())
}

// SendGetblocks requests block inventory starting after the given
// locator (spec.md §4.5, §4.6).
func (p *Peer) SendGetblocks(locator []chainhash.Hash, hashStop chainhash.Hash) error {
	msg := wire.MsgLocator{ProtocolVersion: wire.ProtocolVersion, Locator: locator, HashStop: hashStop}
	if err := p.write(wire.CmdGetBlocks, msg.Encode()); err != nil {
		return err
	}
	p.mutate(func(s *session) { s.sentGetblocks = true })
	return nil
}

// SendInv announces transaction hashes to the peer.
func (p *Peer) SendInv(txHashes []chainhash.Hash) error {
	items := make(wire.InvList, 0, len(txHashes))
	for _, h := range txHashes {
		items = append(items, wire.InvVect{Type: wire.InvTypeTx, Hash: h})
	}
	return p.write(wire.CmdInv, wire.EncodeInvList(items))
}

// SendGetdata requests transactions and/or blocks by hash.
func (p *Peer) SendGetdata(txHashes, blockHashes []chainhash.Hash) error {
	items := make(wire.InvList, 0, len(txHashes)+len(blockHashes))
	for _, h := range txHashes {
		items = append(items, wire.InvVect{Type: wire.InvTypeTx, Hash: h})
	}
	for _, h := range blockHashes {
		items = append(items, wire.InvVect{Type: wire.InvTypeBlock, Hash: h})
	}
	if err := p.write(wire.CmdGetData, wire.EncodeInvList(items)); err != nil {
		return err
	}
	p.mutate(func(s *session) { s.sentGetdata = true })
	return nil
}

// SendGetAsset requests metadata for a single asset name, firing cb
// exactly once with the decoded result (nil on a not-found reply) —
// spec.md §4.9's one-shot callback contract.
func (p *Peer) SendGetAsset(name string, cb func(asset *AssetInfo)) error {
	if err := p.write(wire.CmdGetAssetData, wire.EncodeGetAssetData([]string{name})); err != nil {
		return err
	}
	p.mutate(func(s *session) {
		s.assetWaiters[name] = append(s.assetWaiters[name], &assetWaiter{callback: cb})
	})
	return nil
}

// SendGetaddr requests the peer's address book (spec.md §4.4).
func (p *Peer) SendGetaddr() error {
	if err := p.write(wire.CmdGetAddr, nil); err != nil {
		return err
	}
	p.mutate(func(s *session) { s.sentGetaddr = true })
	return nil
}

// SendPing sends a ping carrying the session nonce and arranges for cb
// to be invoked with the round-trip time once the matching pong
// arrives, or with an error if the connection is torn down first
// (spec.md §4.8, §8 invariant 8: FIFO callback order).
func (p *Peer) SendPing(cb func(rtt time.Duration, err error)) error {
	p.mutate(func(s *session) {
		s.pongQueue = append(s.pongQueue, pongWaiter{callback: cb, sentAt: time.Now()})
		s.startTime = time.Now()
	})
	p.connMu.Lock()
	nonce := p.sess.nonce
	p.connMu.Unlock()
	return p.write(wire.CmdPing, wire.EncodePing(nonce))
}

// pingForMempoolCompletion is invoked from inside the receive loop (so
// it mutates sess directly rather than through mutate, which would
// deadlock since the loop itself would be blocked waiting on itself).
func (p *Peer) pingForMempoolCompletion(cb func(err error)) error {
	p.sess.pongQueue = append(p.sess.pongQueue, pongWaiter{
		callback: func(_ time.Duration, err error) {
			if cb != nil {
				cb(err)
			}
		},
		sentAt: time.Now(),
	})
	p.sess.startTime = time.Now()
	return p.write(wire.CmdPing, wire.EncodePing(p.sess.nonce))
}

// RerequestBlocks re-requests known block hashes from fromBlock
// onward after a filter update (spec.md §6 send_needs_filter_update
// path).
func (p *Peer) RerequestBlocks(fromBlock chainhash.Hash) error {
	var toRequest []chainhash.Hash
	p.mutate(func(s *session) {
		found := fromBlock == (chainhash.Hash{})
		for _, h := range s.knownBlock.order {
			if found {
				toRequest = append(toRequest, h)
			} else if h == fromBlock {
				found = true
				toRequest = append(toRequest, h)
			}
		}
	})
	if len(toRequest) == 0 {
		return nil
	}
	return p.SendGetdata(nil, toRequest)
}
