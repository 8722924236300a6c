package wire

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestRejectRoundTripWithHash(t *testing.T) {
	m := MsgReject{
		Message: CmdTx,
		Code:    RejectDuplicate,
		Reason:  "already in mempool",
		Hash:    chainhash.Hash{9},
	}
	got, err := DecodeReject(EncodeReject(m))
	if err != nil {
		t.Fatalf("DecodeReject: %v", err)
	}
	if got != m {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestRejectRoundTripWithoutHash(t *testing.T) {
	m := MsgReject{Message: CmdVersion, Code: RejectObsolete, Reason: "obsolete"}
	got, err := DecodeReject(EncodeReject(m))
	if err != nil {
		t.Fatalf("DecodeReject: %v", err)
	}
	if got != m {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestDecodeRejectToleratesMissingOptionalHash(t *testing.T) {
	// A reject message naming "tx" but truncated before the hash
	// trailer must still decode instead of failing the whole message.
	m := MsgReject{Message: CmdTx, Code: RejectDuplicate, Reason: "dup"}
	payload := EncodeReject(MsgReject{Message: CmdTx, Code: RejectDuplicate, Reason: "dup"})
	truncated := payload[:len(payload)-chainhash.HashSize]
	got, err := DecodeReject(truncated)
	if err != nil {
		t.Fatalf("DecodeReject(truncated): %v", err)
	}
	if got.Message != m.Message || got.Code != m.Code || got.Reason != m.Reason {
		t.Errorf("got %+v, want fields from %+v", got, m)
	}
}
