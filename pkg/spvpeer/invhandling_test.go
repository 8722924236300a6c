package spvpeer

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

func TestAcceptInvRejectsTxBeforeFilterOrSync(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})

	inv := wire.InvList{{Type: wire.InvTypeTx, Hash: chainhash.Hash{1}}}
	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err == nil {
		t.Error("inv carrying a tx item before filterload/mempool/getblocks: got nil error, want one")
	}
}

func TestAcceptInvDedupsKnownTx(t *testing.T) {
	var hasTxCalls int
	p, _ := testPeer(t, Config{
		Params: wire.TestNetParams,
		Events: Events{HasTx: func(*Peer, chainhash.Hash) { hasTxCalls++ }},
	})
	p.sess.sentFilter = true
	hash := chainhash.Hash{7}
	p.sess.knownTx.add(hash)

	inv := wire.InvList{{Type: wire.InvTypeTx, Hash: hash}}
	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("acceptInv: %v", err)
	}
	if hasTxCalls != 1 {
		t.Errorf("HasTx called %d times, want 1", hasTxCalls)
	}
}

func TestAcceptInvNewTxMarksGetdataSent(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})
	p.sess.sentFilter = true

	inv := wire.InvList{{Type: wire.InvTypeTx, Hash: chainhash.Hash{3}}}
	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("acceptInv: %v", err)
	}
	if !p.sess.sentGetdata {
		t.Error("sentGetdata not set after a getdata-triggering inv")
	}
	if !p.sess.knownTx.has(chainhash.Hash{3}) {
		t.Error("new tx hash not added to knownTx")
	}
}

func TestAcceptInvTarpitDetection(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})
	p.sess.sentFilter = true
	p.sess.lastblock = 1000000
	p.currentBlockHeight.Store(0)

	var items wire.InvList
	for i := 0; i < tarpitMinBlocks; i++ {
		h := chainhash.Hash{byte(i + 1)}
		items = append(items, wire.InvVect{Type: wire.InvTypeBlock, Hash: h})
	}
	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(items)); err == nil {
		t.Error("inv with a suspiciously small block batch far behind the advertised tip: got nil error, want a tarpit rejection")
	}
}

func TestAcceptInvSingleBlockHashDedup(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})
	p.sess.sentFilter = true

	hash := chainhash.Hash{5}
	inv := wire.InvList{{Type: wire.InvTypeBlock, Hash: hash}}

	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("first inv: %v", err)
	}
	firstKnown := p.sess.knownBlock.len()

	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("repeated single-block inv: %v", err)
	}
	if p.sess.knownBlock.len() != firstKnown {
		t.Errorf("knownBlock grew on a repeated single-hash inv: %d -> %d", firstKnown, p.sess.knownBlock.len())
	}
}

func TestAcceptInvMempoolCompletionTriggersPing(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})
	p.sess.sentFilter = true
	var mempoolErr error
	called := false
	p.sess.mempool = &mempoolWaiter{callback: func(err error) { called = true; mempoolErr = err }}

	inv := wire.InvList{{Type: wire.InvTypeTx, Hash: chainhash.Hash{9}}}
	if err := p.dispatch(wire.CmdInv, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("acceptInv: %v", err)
	}
	if p.sess.mempool != nil {
		t.Error("mempool waiter not cleared after queuing the completion ping")
	}
	if len(p.sess.pongQueue) != 1 {
		t.Fatalf("pongQueue len = %d, want 1 after mempool-completion ping", len(p.sess.pongQueue))
	}

	if err := p.dispatch(wire.CmdPong, wire.EncodePing(p.sess.nonce)); err != nil {
		t.Fatalf("acceptPong: %v", err)
	}
	if !called || mempoolErr != nil {
		t.Errorf("mempool callback: called=%v err=%v, want called=true err=nil", called, mempoolErr)
	}
}
