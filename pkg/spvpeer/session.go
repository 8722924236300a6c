package spvpeer

import (
	"math"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Status is the peer's connection lifecycle state (spec.md §3).
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// maxKnownBlockHashes is the cap known_block_hashes is trimmed to
// (spec.md §3: "capped at 50,000 by trimming the oldest third when
// exceeded").
const maxKnownBlockHashes = 50000

// hashSequence is an ordered sequence of hashes with a set mirror for
// O(1) membership, kept in sync at every mutation (spec.md §3 & §8
// invariant 4). It is only ever touched from the receive loop.
type hashSequence struct {
	order []chainhash.Hash
	set   map[chainhash.Hash]struct{}
}

func newHashSequence() *hashSequence {
	return &hashSequence{set: make(map[chainhash.Hash]struct{})}
}

func (h *hashSequence) has(hash chainhash.Hash) bool {
	_, ok := h.set[hash]
	return ok
}

func (h *hashSequence) add(hash chainhash.Hash) {
	if h.has(hash) {
		return
	}
	h.order = append(h.order, hash)
	h.set[hash] = struct{}{}
}

func (h *hashSequence) len() int { return len(h.order) }

// trimOldestThird drops the oldest third of the sequence, used to
// enforce the known_block_hashes cap.
func (h *hashSequence) trimOldestThird() {
	drop := len(h.order) / 3
	if drop == 0 {
		return
	}
	for _, hash := range h.order[:drop] {
		delete(h.set, hash)
	}
	remaining := make([]chainhash.Hash, len(h.order)-drop)
	copy(remaining, h.order[drop:])
	h.order = remaining
}

func (h *hashSequence) capAt(max int) {
	if len(h.order) > max {
		h.trimOldestThird()
	}
}

// pongWaiter is one outstanding ping awaiting its pong (spec.md §3
// pong_queue, §8 invariant 8: FIFO order).
type pongWaiter struct {
	callback func(rtt time.Duration, err error)
	sentAt   time.Time
}

// mempoolWaiter is the single pending mempool-sync callback.
type mempoolWaiter struct {
	callback func(err error)
}

// assetWaiter is a one-shot callback registered by send_get_asset,
// keyed by asset name (spec.md §4.9).
type assetWaiter struct {
	callback func(asset *AssetInfo)
}

// AssetInfo is the decoded form of an assetdata reply surfaced upward;
// nil means the sentinel not-found reply (spec.md §4.9, §9).
type AssetInfo struct {
	Name        string
	Amount      int64
	Units       uint8
	Reissuable  bool
	IPFSHash    string // base58-encoded, empty if HasIPFS is false
	HasIPFS     bool
	BlockHeight int32
}

// inFlightBlock tracks a merkle block whose matched transactions have
// not all arrived yet (spec.md §3: current_block / current_block_tx_hashes).
type inFlightBlock struct {
	block    MerkleBlock
	expected []chainhash.Hash // accumulated in reverse order, see txmerkle.go
}

// session holds a peer's mutable protocol state. Every field here is
// owned by the receive loop; the handful of fields owner tasks touch
// directly are atomic (see peer.go) or routed through the command
// channel (spec.md §5, §9).
type session struct {
	status Status

	version   uint32
	useragent string
	lastblock int32
	feePerKB  int64

	sentVerack         bool
	gotVerack          bool
	sentGetaddr        bool
	sentFilter         bool
	sentGetdata        bool
	sentMempool        bool
	sentGetblocks      bool
	needsFilterUpdate  bool

	startTime  time.Time
	pingTime   float64 // seconds, EMA; math.Inf(1) initially
	mempoolDeadline time.Time

	nonce uint64

	earliestKeyTime time.Time

	knownTx    *hashSequence
	knownBlock *hashSequence

	current *inFlightBlock

	pongQueue []pongWaiter
	mempool   *mempoolWaiter
	assetWaiters map[string][]*assetWaiter

	lastSingleBlockInv chainhash.Hash
	haveSingleBlockInv bool
}

func newSession() *session {
	return &session{
		status:     StatusDisconnected,
		pingTime:   math.Inf(1),
		knownTx:    newHashSequence(),
		knownBlock: newHashSequence(),
		assetWaiters: make(map[string][]*assetWaiter),
	}
}

func (s *session) addKnownBlockHash(hash chainhash.Hash) {
	s.knownBlock.add(hash)
	s.knownBlock.capAt(maxKnownBlockHashes)
}
