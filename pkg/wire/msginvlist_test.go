package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestInvListRoundTrip(t *testing.T) {
	items := InvList{
		{Type: InvTypeTx, Hash: chainhash.Hash{1}},
		{Type: InvTypeBlock, Hash: chainhash.Hash{2}},
		{Type: InvTypeFilteredBlock, Hash: chainhash.Hash{3}},
	}

	got, err := DecodeInvList(EncodeInvList(items))
	if err != nil {
		t.Fatalf("DecodeInvList: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, items)
	}
}

func TestDecodeInvListRejectsOversizedCount(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, MaxInvPerMessage+1)
	if _, err := DecodeInvList(buf.Bytes()); err == nil {
		t.Error("DecodeInvList over the max count: got nil error, want one")
	}
}
