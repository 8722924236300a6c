package spvpeer

import (
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

type fakeTx struct {
	hash chainhash.Hash
	size int
	raw  []byte
}

func (f fakeTx) Hash() chainhash.Hash { return f.hash }
func (f fakeTx) SerializeSize() int   { return f.size }
func (f fakeTx) Bytes() []byte        { return f.raw }

type fakeTxDecoder struct {
	tx  Tx
	err error
}

func (d fakeTxDecoder) DecodeTx(payload []byte) (Tx, error) { return d.tx, d.err }

type fakeMerkleBlock struct {
	header  wire.BlockHeader
	matched []chainhash.Hash
}

func (b fakeMerkleBlock) Header() wire.BlockHeader          { return b.header }
func (b fakeMerkleBlock) MatchedTxHashes() []chainhash.Hash { return b.matched }

type fakeMerkleDecoder struct {
	block MerkleBlock
	err   error
}

func (d fakeMerkleDecoder) DecodeMerkleBlock(payload []byte) (MerkleBlock, error) {
	return d.block, d.err
}

func TestAcceptTxBeforeFilterOrGetdataIsFatal(t *testing.T) {
	p, _ := testPeer(t, Config{Params: wire.TestNetParams})
	if err := p.dispatch(wire.CmdTx, nil); err == nil {
		t.Error("tx before filterload/getdata: got nil error, want one")
	}
}

func TestAcceptMerkleBlockThenTxCompletesBlock(t *testing.T) {
	h1 := chainhash.Hash{1}
	h2 := chainhash.Hash{2}
	block := fakeMerkleBlock{matched: []chainhash.Hash{h1, h2}}

	var delivered MerkleBlock
	p, _ := testPeer(t, Config{
		Params:        wire.TestNetParams,
		MerkleDecoder: fakeMerkleDecoder{block: block},
		TxDecoder:     fakeTxDecoder{},
		Events:        Events{RelayedBlock: func(_ *Peer, b MerkleBlock) { delivered = b }},
	})
	p.sess.sentFilter = true

	if err := p.dispatch(wire.CmdMerkleBlock, nil); err != nil {
		t.Fatalf("acceptMerkleBlock: %v", err)
	}
	if p.sess.current == nil {
		t.Fatal("current_block not set after a merkleblock with matched hashes")
	}
	if delivered != nil {
		t.Fatal("relayed_block fired before every matched tx arrived")
	}

	p.cfg.TxDecoder = fakeTxDecoder{tx: fakeTx{hash: h1}}
	if err := p.dispatch(wire.CmdTx, nil); err != nil {
		t.Fatalf("acceptTx(h1): %v", err)
	}
	if p.sess.current == nil {
		t.Fatal("current_block cleared too early, one tx still outstanding")
	}

	p.cfg.TxDecoder = fakeTxDecoder{tx: fakeTx{hash: h2}}
	if err := p.dispatch(wire.CmdTx, nil); err != nil {
		t.Fatalf("acceptTx(h2): %v", err)
	}
	if p.sess.current != nil {
		t.Error("current_block not cleared after every matched tx arrived")
	}
	if delivered == nil {
		t.Error("relayed_block never fired")
	}
}

func TestAcceptMerkleBlockEmptyMatchDeliversImmediately(t *testing.T) {
	block := fakeMerkleBlock{}
	delivered := false
	p, _ := testPeer(t, Config{
		Params:        wire.TestNetParams,
		MerkleDecoder: fakeMerkleDecoder{block: block},
		Events:        Events{RelayedBlock: func(*Peer, MerkleBlock) { delivered = true }},
	})

	if err := p.dispatch(wire.CmdMerkleBlock, nil); err != nil {
		t.Fatalf("acceptMerkleBlock: %v", err)
	}
	if p.sess.current != nil {
		t.Error("current_block set despite an empty matched-hash list")
	}
	if !delivered {
		t.Error("relayed_block did not fire for an empty-match merkle block")
	}
}

func TestAcceptGetDataRepliesTxThenNotFound(t *testing.T) {
	wantHash := chainhash.Hash{4}
	txBytes := []byte{0xde, 0xad}
	p, remote := testPeerNoDrain(t, Config{
		Params: wire.TestNetParams,
		Events: Events{RequestedTx: func(_ *Peer, h chainhash.Hash) (Tx, bool) {
			if h == wantHash {
				return fakeTx{hash: h, size: len(txBytes), raw: txBytes}, true
			}
			return nil, false
		}},
	})

	cmds := make(chan string, 2)
	go func() {
		for i := 0; i < 2; i++ {
			cmd, _, err := wire.ReadMessage(remote, wire.TestNetParams.Net)
			if err != nil {
				return
			}
			cmds <- cmd
		}
	}()

	inv := wire.InvList{
		{Type: wire.InvTypeTx, Hash: wantHash},
		{Type: wire.InvTypeTx, Hash: chainhash.Hash{99}},
		{Type: wire.InvTypeBlock, Hash: chainhash.Hash{1}},
	}
	if err := p.dispatch(wire.CmdGetData, wire.EncodeInvList(inv)); err != nil {
		t.Fatalf("acceptGetData: %v", err)
	}
	for _, want := range []string{wire.CmdTx, wire.CmdNotFound} {
		select {
		case got := <-cmds:
			if got != want {
				t.Errorf("reply command = %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no %s reply was sent", want)
		}
	}
}

func TestAcceptMerkleBlockDecodeErrorIsFatal(t *testing.T) {
	p, _ := testPeer(t, Config{
		Params:        wire.TestNetParams,
		MerkleDecoder: fakeMerkleDecoder{err: errors.New("bad merkleblock")},
	})
	if err := p.dispatch(wire.CmdMerkleBlock, nil); err == nil {
		t.Error("acceptMerkleBlock with a decode failure: got nil error, want one")
	}
}
