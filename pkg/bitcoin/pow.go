package bitcoin

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// DemoPoW is a placeholder spvpeer.HeaderPoW for the example manager
// and its tests. It derives a block hash from whichever inputs the
// active algorithm would use but performs none of the real X16R,
// X16Rv2, or ethash-light-verify work — those hash functions are
// explicitly out of scope for this module (spec.md §1) and belong to
// a dedicated PoW package wired in by a real owner. Do not use this
// for anything that needs actual proof-of-work validation.
type DemoPoW struct{}

func (DemoPoW) X16R(classicalPrefix []byte) (chainhash.Hash, error) {
	return chainhash.DoubleHashH(classicalPrefix), nil
}

func (DemoPoW) X16Rv2(classicalPrefix []byte) (chainhash.Hash, error) {
	return chainhash.DoubleHashH(classicalPrefix), nil
}

func (DemoPoW) KAWPOWLightVerify(headerHash, mixHash chainhash.Hash, nonce uint64, height uint32) (chainhash.Hash, error) {
	buf := make([]byte, 0, chainhash.HashSize*2+12)
	buf = append(buf, headerHash[:]...)
	buf = append(buf, mixHash[:]...)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(nonce>>(8*i)))
	}
	for i := 0; i < 4; i++ {
		buf = append(buf, byte(height>>(8*i)))
	}
	return chainhash.DoubleHashH(buf), nil
}
