package spvpeer

import (
	"fmt"
	"math"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// Config bundles the fixed, owner-supplied construction parameters a
// Peer needs (spec.md §3 lifecycle: "configured with callbacks and two
// bootstrap parameters").
type Config struct {
	Params        wire.Params
	Events        Events
	TxDecoder     TxDecoder
	MerkleDecoder MerkleBlockDecoder
	PoW           HeaderPoW
	UserAgent     string // advertised in the version message, e.g. "/ravenspv:0.1.0/"

	// EarliestKeyTime and CurrentBlockHeight are the two bootstrap
	// parameters spec.md §3 describes; both may also be updated later
	// via SetEarliestKeyTime/SetCurrentBlockHeight.
	EarliestKeyTime    time.Time
	CurrentBlockHeight int32
}

// sessionOp is a closure the owner wants applied to the session from
// inside the receive loop, with a completion signal so the caller can
// block until it has actually happened (spec.md §9: "routing all queue
// mutations through a single task via a channel").
type sessionOp struct {
	fn   func(*session)
	done chan struct{}
}

// Peer drives a single session to one remote node. Exactly one
// session exists per Peer (spec.md §3 invariant); all session fields
// are touched only from the receive goroutine, reached either directly
// (while the receive loop itself is running) or via cmdCh from owner
// goroutines.
type Peer struct {
	identity Identity
	cfg      Config

	writeMu sync.Mutex
	connMu  sync.Mutex
	conn    net.Conn

	closeOnce sync.Once
	doneCh    chan struct{}

	cmdCh chan sessionOp

	sess *session

	// Fields owner goroutines mutate directly without going through
	// the receive loop, per spec.md §5: "disconnect_time, socket,
	// needs_filter_update, current_block_height, earliest_key_time".
	disconnectDeadline atomic.Int64 // UnixNano; math.MaxInt64 means "none"
	needsFilterUpdate  atomic.Bool
	currentBlockHeight atomic.Int32
	earliestKeyTime    atomic.Int64 // Unix seconds
}

const noDeadline = math.MaxInt64

// NewPeer creates a Peer in the Disconnected state. Connect must be
// called to start the session.
func NewPeer(id Identity, cfg Config) *Peer {
	p := &Peer{
		identity: id,
		cfg:      cfg,
		doneCh:   make(chan struct{}),
		cmdCh:    make(chan sessionOp),
		sess:     newSession(),
	}
	p.disconnectDeadline.Store(noDeadline)
	p.currentBlockHeight.Store(cfg.CurrentBlockHeight)
	if !cfg.EarliestKeyTime.IsZero() {
		p.earliestKeyTime.Store(cfg.EarliestKeyTime.Unix())
	}
	return p
}

// Identity returns the peer's address record.
func (p *Peer) Identity() Identity { return p.identity }

// Status reports the current lifecycle state. Safe to call from any
// goroutine; reads a snapshot, so it may be momentarily stale relative
// to the receive loop.
func (p *Peer) Status() Status {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	return p.sess.status
}

// SetEarliestKeyTime updates the wallet-creation time that determines
// the headers→blocks sync switch (spec.md §3). Safe from any goroutine.
func (p *Peer) SetEarliestKeyTime(t time.Time) {
	p.earliestKeyTime.Store(t.Unix())
}

// SetCurrentBlockHeight updates the local tip height used for tarpit
// detection (spec.md §3, §4.5). Safe from any goroutine.
func (p *Peer) SetCurrentBlockHeight(height int32) {
	p.currentBlockHeight.Store(height)
}

// SetNeedsFilterUpdate marks that the bloom filter has changed and
// previously-requested blocks should be rerequested. Safe from any
// goroutine.
func (p *Peer) SetNeedsFilterUpdate(v bool) {
	p.needsFilterUpdate.Store(v)
}

// ScheduleDisconnect arms an absolute deadline after which the receive
// loop tears the connection down as a timeout. Pass a zero Duration's
// equivalent (time.Time{}) or a very large value to mean "no deadline".
func (p *Peer) ScheduleDisconnect(deadline time.Time) {
	if deadline.IsZero() {
		p.disconnectDeadline.Store(noDeadline)
		return
	}
	p.disconnectDeadline.Store(deadline.UnixNano())
}

// Connect dials the peer, sends the version message, and starts the
// dedicated receive goroutine (spec.md §3 lifecycle, §4.2, §4.3).
func (p *Peer) Connect() error {
	p.connMu.Lock()
	if p.sess.status != StatusDisconnected {
		p.connMu.Unlock()
		return fmt.Errorf("spvpeer: Connect called in state %s", p.sess.status)
	}
	p.sess.status = StatusConnecting
	p.connMu.Unlock()

	if !p.cfg.Events.networkIsReachable() {
		return p.teardown(transportError(fmt.Errorf("network unreachable")))
	}

	conn, err := dial(p.identity)
	if err != nil {
		if isTimeout(err) {
			return p.teardown(timeoutError(err))
		}
		return p.teardown(transportError(err))
	}

	p.connMu.Lock()
	p.conn = conn
	p.connMu.Unlock()

	if err := p.sendVersion(); err != nil {
		return p.teardown(transportError(err))
	}

	go p.receiveLoop()
	return nil
}

// Disconnect tears the session down from any goroutine. Idempotent.
func (p *Peer) Disconnect() {
	p.closeOnce.Do(func() {
		close(p.doneCh)
		p.connMu.Lock()
		if p.conn != nil {
			p.conn.Close()
		}
		p.connMu.Unlock()
	})
}

// teardown performs the close and reports err as the disconnect
// reason; used for failures that occur before the receive loop starts.
func (p *Peer) teardown(err error) error {
	p.Disconnect()
	p.connMu.Lock()
	p.sess.status = StatusDisconnected
	p.connMu.Unlock()
	p.cfg.Events.disconnected(p, err)
	return err
}

// mutate applies fn to the session from the receive loop's goroutine
// and blocks until it has run, or until the peer is torn down. Used by
// owner-facing Send* methods that append to pong_queue/mempool/asset
// waiters, keeping those appends serialized with the acceptors that
// consume them (spec.md §9).
func (p *Peer) mutate(fn func(*session)) {
	op := sessionOp{fn: fn, done: make(chan struct{})}
	select {
	case p.cmdCh <- op:
		<-op.done
	case <-p.doneCh:
	}
}

// randomNonce generates the 64-bit nonce used both for the version
// handshake and for ping/pong correlation.
func randomNonce() uint64 {
	return rand.Uint64()
}
