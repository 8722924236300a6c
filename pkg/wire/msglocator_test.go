package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestLocatorRoundTrip(t *testing.T) {
	m := MsgLocator{
		ProtocolVersion: ProtocolVersion,
		Locator:         []chainhash.Hash{{1}, {2}, {3}},
		HashStop:        chainhash.Hash{},
	}
	got, err := DecodeLocator(m.Encode())
	if err != nil {
		t.Fatalf("DecodeLocator: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestDecodeLocatorRejectsOversizedCount(t *testing.T) {
	var buf bytes.Buffer
	PutUint32LE(&buf, ProtocolVersion)
	WriteVarInt(&buf, MaxLocatorHashes+1)
	if _, err := DecodeLocator(buf.Bytes()); err == nil {
		t.Error("DecodeLocator over the max locator count: got nil error, want one")
	}
}
