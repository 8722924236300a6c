// Package wire implements the Ravencoin peer-to-peer message framing and
// the fixed-shape messages the SPV peer core needs to send and parse
// itself (version, verack, addr, inv, getheaders/getblocks, getdata,
// notfound, ping/pong, reject, feefilter, getassetdata/assetdata).
//
// Headers entries are decoded by blockheader.go, but which header form
// (and so which per-entry stride) applies is chosen in pkg/spvpeer as
// part of the sync state machine (see headerssync.go). merkleblock and
// tx payloads are left as raw byte slices for the owner's decoders.
package wire

import "time"

// RavenNet identifies which Ravencoin network a message belongs to.
type RavenNet uint32

// Magic values, byte-for-byte compatible with the reference node.
const (
	MainNet RavenNet = 0x4e564152
	TestNet RavenNet = 0x544e5652
	Regtest RavenNet = 0x574f5243
)

func (n RavenNet) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// Protocol version milestones, mirrored from the reference node's
// chainparams/version negotiation constants.
const (
	ProtocolVersion    uint32 = 70027
	MinPeerProtoVersion uint32 = 70026
	AssetDataVersion   uint32 = 70017
	KAWPOWVersion      uint32 = 70027
)

// ServiceFlag mirrors btcsuite/btcd/wire.ServiceFlag's bit layout; the
// Ravencoin wire format never diverged from it.
type ServiceFlag uint64

const (
	SFNodeNetwork ServiceFlag = 1 << iota
	SFNodeGetUTXO
	SFNodeBloom
	SFNodeWitness
	SFNodeXthin
)

// Params bundles the per-network constants the peer core needs: the
// wire magic, the default port, and the two proof-of-work algorithm
// activation times that make the headers acceptor's stride switch
// (see headerssync.go). Shaped like btcsuite/btcd/chaincfg.Params so
// callers familiar with that ecosystem feel at home, without pulling
// in genesis-block/checkpoint machinery this leaf peer never needs.
type Params struct {
	Name                string
	Net                 RavenNet
	DefaultPort         string
	X16Rv2ActivationTime time.Time
	KAWPOWActivationTime time.Time
}

// MainNetParams holds the activation times of the reference main
// chain. TestNetParams holds unverified placeholder times a little
// earlier than mainnet's, and RegtestParams activates both algorithms
// at the Unix epoch. They are recorded here, rather than guessed in the
// codec, per DESIGN.md.
var (
	MainNetParams = Params{
		Name:                 "mainnet",
		Net:                  MainNet,
		DefaultPort:          "8767",
		X16Rv2ActivationTime: time.Unix(1569945600, 0), // 2019-10-01T16:00:00Z
		KAWPOWActivationTime: time.Unix(1588788000, 0), // 2020-05-06T18:00:00Z
	}
	TestNetParams = Params{
		Name:                 "testnet",
		Net:                  TestNet,
		DefaultPort:          "18767",
		X16Rv2ActivationTime: time.Unix(1567533600, 0),
		KAWPOWActivationTime: time.Unix(1585159200, 0),
	}
	RegtestParams = Params{
		Name:                 "regtest",
		Net:                  Regtest,
		DefaultPort:          "18444",
		X16Rv2ActivationTime: time.Unix(0, 0),
		KAWPOWActivationTime: time.Unix(0, 0),
	}
)

// MaxBlockDrift bounds how far a header's timestamp may sit in the
// future of the local clock before the headers-sync follow-up logic
// treats it as "caught up" (spec.md §4.6, BLOCK_MAX_TIME_DRIFT).
const MaxBlockDrift = 2 * time.Hour
