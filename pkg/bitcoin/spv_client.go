// Package bitcoin is a minimal example owner of pkg/spvpeer: it
// manages a set of peer sessions, keeps the locally-known chain tip
// updated from their relayed headers and blocks, and wires the
// TxDecoder/MerkleBlockDecoder/HeaderPoW external-collaborator
// contracts pkg/spvpeer expects an owner to supply. It is a reference
// wiring for cmd/spvpeer, not a production wallet backend.
package bitcoin

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/spvpeer"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// Manager owns a set of peer sessions against a single Ravencoin
// network and tracks the best header chain they report.
type Manager struct {
	params    wire.Params
	userAgent string

	mu         sync.RWMutex
	peers      map[string]*spvpeer.Peer
	bestHeight int32
	bestHash   chainhash.Hash
	headers    map[chainhash.Hash]wire.BlockHeader
}

// NewManager creates a Manager for the given network. userAgent is
// advertised in every peer's version message.
func NewManager(params wire.Params, userAgent string) *Manager {
	return &Manager{
		params:    params,
		userAgent: userAgent,
		peers:     make(map[string]*spvpeer.Peer),
		headers:   make(map[chainhash.Hash]wire.BlockHeader),
	}
}

// AddPeer dials host:port and starts a session, wiring the manager's
// own event handlers so relayed headers/blocks update BestBlock.
func (m *Manager) AddPeer(host string, port uint16) (*spvpeer.Peer, error) {
	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := net.ResolveIPAddr("ip", host)
		if err != nil {
			return nil, fmt.Errorf("bitcoin: resolve %s: %w", host, err)
		}
		ip = resolved.IP
	}
	id := spvpeer.NewIdentity(ip, port, 0, uint32(time.Now().Unix()))

	key := id.Host()
	m.mu.Lock()
	if _, exists := m.peers[key]; exists {
		m.mu.Unlock()
		return nil, errors.New("bitcoin: peer already added")
	}
	m.mu.Unlock()

	cfg := spvpeer.Config{
		Params:        m.params,
		UserAgent:     m.userAgent,
		TxDecoder:     TxCodec{},
		MerkleDecoder: MerkleBlockCodec{},
		PoW:           DemoPoW{},
		Events:        m.eventsFor(key),
	}
	peer := spvpeer.NewPeer(id, cfg)

	m.mu.Lock()
	m.peers[key] = peer
	m.mu.Unlock()

	if err := peer.Connect(); err != nil {
		m.mu.Lock()
		delete(m.peers, key)
		m.mu.Unlock()
		return nil, err
	}
	return peer, nil
}

// eventsFor builds the Events capability record for one peer, keyed so
// Disconnected can remove it from the manager's live set.
func (m *Manager) eventsFor(key string) spvpeer.Events {
	return spvpeer.Events{
		Connected: func(p *spvpeer.Peer) {
			log.Infof("peer %s connected", p.Identity().Host())
		},
		Disconnected: func(p *spvpeer.Peer, err error) {
			log.Infof("peer %s disconnected: %v", p.Identity().Host(), err)
			m.mu.Lock()
			delete(m.peers, key)
			m.mu.Unlock()
		},
		RelayedBlock: func(p *spvpeer.Peer, block spvpeer.MerkleBlock) {
			m.recordHeader(block.Header())
		},
		RelayedTx: func(p *spvpeer.Peer, tx spvpeer.Tx) {
			log.Debugf("peer %s relayed tx %s", p.Identity().Host(), tx.Hash())
		},
	}
}

// recordHeader stores h and advances the tracked tip when it extends
// the known chain.
func (m *Manager) recordHeader(h wire.BlockHeader) {
	hash := chainhash.DoubleHashH(h.ClassicalPrefixBytes())

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.headers[hash]; exists {
		return
	}
	m.headers[hash] = h
	if _, known := m.headers[h.PrevBlock]; known || m.bestHash == (chainhash.Hash{}) {
		m.bestHash = hash
		m.bestHeight++
	}
}

// BestBlock returns the tip of the header chain assembled so far.
func (m *Manager) BestBlock() (chainhash.Hash, int32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bestHash, m.bestHeight
}

// PeerCount returns the number of live sessions.
func (m *Manager) PeerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.peers)
}

// Stop disconnects every peer.
func (m *Manager) Stop() {
	m.mu.RLock()
	peers := make([]*spvpeer.Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}
	m.mu.RUnlock()
	for _, p := range peers {
		p.Disconnect()
	}
}

// HeaderCount returns the number of distinct headers the manager has
// recorded across every peer's relayed headers.
func (m *Manager) HeaderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.headers)
}
