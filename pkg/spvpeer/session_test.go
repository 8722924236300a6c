package spvpeer

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestHashSequenceAddDedupsAndTracksLen(t *testing.T) {
	h := newHashSequence()
	hash := chainhash.Hash{1}
	h.add(hash)
	h.add(hash)
	if h.len() != 1 {
		t.Errorf("len() = %d, want 1 after adding the same hash twice", h.len())
	}
	if !h.has(hash) {
		t.Error("has() false for a hash that was added")
	}
}

func TestHashSequenceTrimOldestThird(t *testing.T) {
	h := newHashSequence()
	for i := 0; i < 9; i++ {
		h.add(chainhash.Hash{byte(i + 1)})
	}
	h.trimOldestThird()
	if h.len() != 6 {
		t.Fatalf("len() = %d after trimming a third of 9, want 6", h.len())
	}
	if h.has(chainhash.Hash{1}) {
		t.Error("oldest entry still present after trimOldestThird")
	}
	if !h.has(chainhash.Hash{9}) {
		t.Error("newest entry missing after trimOldestThird")
	}
}

func TestHashSequenceCapAtTrimsOnlyWhenOverMax(t *testing.T) {
	h := newHashSequence()
	for i := 0; i < 5; i++ {
		h.add(chainhash.Hash{byte(i + 1)})
	}
	h.capAt(5)
	if h.len() != 5 {
		t.Errorf("capAt(5) trimmed a sequence exactly at the cap: len() = %d, want 5", h.len())
	}
	h.add(chainhash.Hash{6})
	h.capAt(5)
	if h.len() >= 6 {
		t.Errorf("capAt(5) did not trim a sequence over the cap: len() = %d", h.len())
	}
}

func TestAddKnownBlockHashEnforcesCap(t *testing.T) {
	s := newSession()
	for i := 0; i < maxKnownBlockHashes+1; i++ {
		var h chainhash.Hash
		h[0] = byte(i)
		h[1] = byte(i >> 8)
		h[2] = byte(i >> 16)
		s.addKnownBlockHash(h)
	}
	if s.knownBlock.len() > maxKnownBlockHashes {
		t.Errorf("knownBlock.len() = %d, want <= %d after exceeding the cap", s.knownBlock.len(), maxKnownBlockHashes)
	}
}
