package spvpeer

import (
	"testing"
	"time"

	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// A mempool wait that never sees its matching inv must still resolve:
// once mempoolDeadline elapses, the receive loop sends a ping (not a
// disconnect) and the original callback rides along on the pong
// (spec.md §4.8 mechanism (b); BRPeer.c:1352-1357's mempoolTime
// handling).
func TestMempoolDeadlineElapsedSendsPingInsteadOfDisconnecting(t *testing.T) {
	p, remote := testPeerNoDrain(t, Config{Params: wire.TestNetParams})

	done := make(chan error, 1)
	p.sess.mempool = &mempoolWaiter{callback: func(err error) { done <- err }}
	p.sess.mempoolDeadline = time.Now().Add(-time.Second)

	go p.receiveLoop()
	defer p.Disconnect()

	hdr, err := wire.ReadHeader(remote, wire.TestNetParams.Net)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Command != wire.CmdPing {
		t.Fatalf("command = %q, want ping", hdr.Command)
	}
	payload, err := wire.ReadPayload(remote, hdr)
	if err != nil {
		t.Fatalf("ReadPayload: %v", err)
	}
	nonce, err := wire.DecodePing(payload)
	if err != nil {
		t.Fatalf("DecodePing: %v", err)
	}

	if err := wire.WriteMessage(remote, wire.TestNetParams.Net, wire.CmdPong, wire.EncodePing(nonce)); err != nil {
		t.Fatalf("write pong: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("mempool callback err = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mempool callback was never invoked after the matching pong")
	}
}

// Once the timeout path has fired its ping, mempoolDeadline must be
// cleared so it cannot fire a second time for the same SendMempool
// call.
func TestMempoolDeadlineClearedAfterFiring(t *testing.T) {
	p, remote := testPeerNoDrain(t, Config{Params: wire.TestNetParams})

	p.sess.mempool = &mempoolWaiter{callback: func(error) {}}
	p.sess.mempoolDeadline = time.Now().Add(-time.Second)

	go p.receiveLoop()
	defer p.Disconnect()

	if _, err := wire.ReadHeader(remote, wire.TestNetParams.Net); err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.connMu.Lock()
		cleared := p.sess.mempoolDeadline.IsZero() && p.sess.mempool == nil
		p.connMu.Unlock()
		if cleared {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("mempoolDeadline/mempool were not cleared after the timeout fired")
}
