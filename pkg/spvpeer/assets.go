package spvpeer

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// acceptGetAssetData handles an incoming getassetdata. This peer is a
// leaf client with no asset index of its own (spec.md §1 Non-goals:
// "the core provides a leaf-node view only"), so every requested name
// is answered with the not-found sentinel rather than left unanswered.
func (p *Peer) acceptGetAssetData(payload []byte) error {
	names, err := wire.DecodeGetAssetData(payload)
	if err != nil {
		return protocolErrorf("getassetdata: %w", err)
	}
	for _, name := range names {
		reply := wire.AssetData{Name: wire.AssetNotFoundSentinel}
		_ = name
		if err := p.write(wire.CmdAssetData, wire.EncodeAssetData(reply)); err != nil {
			return transportError(err)
		}
	}
	return nil
}

// acceptAssetData handles the reply to a prior getassetdata, firing
// the one-shot callback registered by SendGetAsset (spec.md §4.9).
func (p *Peer) acceptAssetData(payload []byte) error {
	a, err := wire.DecodeAssetData(payload)
	if err != nil {
		return protocolErrorf("assetdata: %w", err)
	}

	waiters := p.sess.assetWaiters[a.Name]
	if len(waiters) == 0 {
		log.Debugf("%s: assetdata for %q with no outstanding request", p.identity.Host(), a.Name)
		return nil
	}
	w := waiters[0]
	remaining := waiters[1:]
	if len(remaining) == 0 {
		delete(p.sess.assetWaiters, a.Name)
	} else {
		p.sess.assetWaiters[a.Name] = remaining
	}

	if a.NotFound() {
		if w.callback != nil {
			w.callback(nil)
		}
		return nil
	}

	info := &AssetInfo{
		Name:        a.Name,
		Amount:      a.Amount,
		Units:       a.Unit,
		Reissuable:  a.Reissuable,
		HasIPFS:     a.HasIPFS,
		BlockHeight: a.BlockHeight,
	}
	if a.HasIPFS {
		info.IPFSHash = base58.Encode(a.IPFSHash)
	}
	if w.callback != nil {
		w.callback(info)
	}
	return nil
}
