package spvpeer

import (
	"bytes"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// fakePoW derives a deterministic block hash from whichever bytes each
// method is handed, without attempting real proof-of-work validation.
type fakePoW struct{}

func (fakePoW) X16R(prefix []byte) (chainhash.Hash, error) { return chainhash.DoubleHashH(prefix), nil }
func (fakePoW) X16Rv2(prefix []byte) (chainhash.Hash, error) {
	return chainhash.DoubleHashH(prefix), nil
}
func (fakePoW) KAWPOWLightVerify(headerHash, mixHash chainhash.Hash, nonce uint64, height uint32) (chainhash.Hash, error) {
	return chainhash.DoubleHashH(headerHash[:]), nil
}

// drainCmdCh services sessionOp mutations the way the receive loop
// would, for tests that exercise Send* helpers without a live loop.
func drainCmdCh(t *testing.T, p *Peer) (stop func()) {
	t.Helper()
	stopCh := make(chan struct{})
	go func() {
		for {
			select {
			case op := <-p.cmdCh:
				op.fn(p.sess)
				close(op.done)
			case <-stopCh:
				return
			}
		}
	}()
	return func() { close(stopCh) }
}

func encodeHeadersMessage(t *testing.T, headers []wire.BlockHeader) []byte {
	t.Helper()
	var buf bytes.Buffer
	wire.EncodeHeadersPrefix(&buf, uint64(len(headers)))
	for _, h := range headers {
		wire.EncodeHeaderEntry(&buf, h)
	}
	return buf.Bytes()
}

// A header timestamped near "now", with earliestKeyTime also near
// "now", is within the lookback window: acceptHeaders must still
// deliver it upward and issue a getblocks follow-up (spec.md §4.6 step
// 4's switch-to-getblocks branch), not simply stop.
func TestAcceptHeadersDeliversHeaderAndSwitchesToGetblocksNearTip(t *testing.T) {
	h := wire.BlockHeader{Version: 1, Timestamp: uint32(time.Now().Unix()), KAWPOW: &wire.KAWPOWExtension{}}

	var delivered []wire.BlockHeader
	p, remote := testPeerNoDrain(t, Config{
		Params: wire.TestNetParams, // activation times in the past, so this header is KAWPOW
		PoW:    fakePoW{},
		Events: Events{RelayedBlock: func(_ *Peer, b MerkleBlock) {
			delivered = append(delivered, b.Header())
		}},
	})
	p.SetEarliestKeyTime(time.Now())

	stop := drainCmdCh(t, p)
	defer stop()

	cmdCh := make(chan string, 1)
	go func() {
		hdr, err := wire.ReadHeader(remote, wire.TestNetParams.Net)
		if err != nil {
			return
		}
		cmdCh <- hdr.Command
		wire.ReadPayload(remote, hdr)
	}()

	if err := p.dispatch(wire.CmdHeaders, encodeHeadersMessage(t, []wire.BlockHeader{h})); err != nil {
		t.Fatalf("acceptHeaders: %v", err)
	}
	if len(delivered) != 1 {
		t.Fatalf("delivered %d headers, want 1", len(delivered))
	}

	select {
	case cmd := <-cmdCh:
		if cmd != wire.CmdGetHeaders && cmd != wire.CmdGetBlocks {
			t.Errorf("follow-up command = %q, want getheaders or getblocks", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Error("a recent-timestamp header within the lookback window should trigger a follow-up")
	}
}

// The getblocks follow-up locator must carry both the X16R hash at the
// computed cutover position and the first header's hash (spec.md §4.6
// step 4, Testable Property S5), not just the cutover position alone.
func TestAcceptHeadersGetblocksFollowUpCarriesBothLocatorHashes(t *testing.T) {
	// Timestamped before X16Rv2 activation so the header takes the X16R
	// path; earliestKeyTime at the same instant keeps it inside the
	// lookback window.
	ts := wire.TestNetParams.X16Rv2ActivationTime.Add(-time.Hour)
	h := wire.BlockHeader{Version: 1, Timestamp: uint32(ts.Unix())}

	p, remote := testPeerNoDrain(t, Config{
		Params: wire.TestNetParams,
		PoW:    fakePoW{},
	})
	p.SetEarliestKeyTime(ts)

	stop := drainCmdCh(t, p)
	defer stop()

	payloadCh := make(chan []byte, 1)
	go func() {
		hdr, err := wire.ReadHeader(remote, wire.TestNetParams.Net)
		if err != nil {
			return
		}
		payload, err := wire.ReadPayload(remote, hdr)
		if err != nil {
			return
		}
		if hdr.Command != wire.CmdGetBlocks {
			return
		}
		payloadCh <- payload
	}()

	if err := p.dispatch(wire.CmdHeaders, encodeHeadersMessage(t, []wire.BlockHeader{h})); err != nil {
		t.Fatalf("acceptHeaders: %v", err)
	}

	wantHash := chainhash.DoubleHashH(h.ClassicalPrefixBytes())

	select {
	case payload := <-payloadCh:
		m, err := wire.DecodeLocator(payload)
		if err != nil {
			t.Fatalf("DecodeLocator: %v", err)
		}
		if len(m.Locator) != 2 {
			t.Fatalf("locator has %d hashes, want 2", len(m.Locator))
		}
		if m.Locator[0] != wantHash {
			t.Errorf("locator[0] = %x, want the cutover block hash %x", m.Locator[0], wantHash)
		}
		if m.Locator[1] != wantHash {
			t.Errorf("locator[1] = %x, want the first header's block hash %x", m.Locator[1], wantHash)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a getblocks follow-up carrying the two-hash locator")
	}
}

func TestAcceptHeadersRejectsOversizedBatch(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams, PoW: fakePoW{}})

	c := new(bytes.Buffer)
	wire.EncodeHeadersPrefix(c, maxHeadersPerBatch+1)
	if err := p.dispatch(wire.CmdHeaders, c.Bytes()); err == nil {
		t.Error("headers batch over the max: got nil error, want one")
	}
}

func TestAcceptHeadersEmptyBatchIsNoop(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams, PoW: fakePoW{}})
	c := new(bytes.Buffer)
	wire.EncodeHeadersPrefix(c, 0)
	if err := p.dispatch(wire.CmdHeaders, c.Bytes()); err != nil {
		t.Fatalf("acceptHeaders(empty): %v", err)
	}
}

func TestAcceptHeadersFullBatchRequestsFollowUp(t *testing.T) {
	headers := make([]wire.BlockHeader, maxHeadersPerBatch)
	base := uint32(time.Now().Add(-time.Duration(maxHeadersPerBatch) * time.Minute).Unix())
	for i := range headers {
		headers[i] = wire.BlockHeader{Version: 1, Timestamp: base + uint32(i*60), KAWPOW: &wire.KAWPOWExtension{}}
	}

	p, remote := testPeerNoDrain(t, Config{Params: wire.TestNetParams, PoW: fakePoW{}})
	p.SetEarliestKeyTime(time.Now())

	stop := drainCmdCh(t, p)
	defer stop()

	cmdCh := make(chan string, 1)
	go func() {
		hdr, err := wire.ReadHeader(remote, wire.TestNetParams.Net)
		if err != nil {
			return
		}
		cmdCh <- hdr.Command
		wire.ReadPayload(remote, hdr)
	}()

	if err := p.dispatch(wire.CmdHeaders, encodeHeadersMessage(t, headers)); err != nil {
		t.Fatalf("acceptHeaders: %v", err)
	}

	select {
	case cmd := <-cmdCh:
		if cmd != wire.CmdGetHeaders && cmd != wire.CmdGetBlocks {
			t.Errorf("follow-up command = %q, want getheaders or getblocks", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Error("a full 2000-header batch should trigger a getheaders or getblocks follow-up")
	}
}
