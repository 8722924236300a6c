package spvpeer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// dispatch routes one decoded message to its acceptor. Any non-tx
// message arriving while a merkle block is being assembled is a fatal
// protocol error (spec.md §3 invariant, §4.10); every other unknown
// command is logged and ignored (spec.md §4.10, §7).
func (p *Peer) dispatch(command string, payload []byte) error {
	if p.sess.current != nil && command != wire.CmdTx {
		return protocolErrorf("%w: got %s", ErrMerkleBlockInFlight, command)
	}

	switch command {
	case wire.CmdVersion:
		return p.acceptVersion(payload)
	case wire.CmdVerack:
		return p.acceptVerack(payload)
	case wire.CmdAddr:
		return p.acceptAddr(payload)
	case wire.CmdGetAddr:
		return p.acceptGetAddr(payload)
	case wire.CmdInv:
		return p.acceptInv(payload)
	case wire.CmdHeaders:
		return p.acceptHeaders(payload)
	case wire.CmdTx:
		return p.acceptTx(payload)
	case wire.CmdMerkleBlock:
		return p.acceptMerkleBlock(payload)
	case wire.CmdGetData:
		return p.acceptGetData(payload)
	case wire.CmdNotFound:
		return p.acceptNotFound(payload)
	case wire.CmdPing:
		return p.acceptPing(payload)
	case wire.CmdPong:
		return p.acceptPong(payload)
	case wire.CmdReject:
		return p.acceptReject(payload)
	case wire.CmdFeeFilter:
		return p.acceptFeeFilter(payload)
	case wire.CmdGetAssetData:
		return p.acceptGetAssetData(payload)
	case wire.CmdAssetData:
		return p.acceptAssetData(payload)
	default:
		log.Debugf("%s: ignoring unknown command %q", p.identity.Host(), command)
		return nil
	}
}

// acceptVersion handles the handshake's first message (spec.md §4.3).
func (p *Peer) acceptVersion(payload []byte) error {
	v, err := wire.DecodeVersion(payload)
	if err != nil {
		return protocolErrorf("version: %w", err)
	}
	if v.ProtocolVersion < wire.MinPeerProtoVersion {
		return protocolErrorf("version: peer protocol version %d below minimum %d", v.ProtocolVersion, wire.MinPeerProtoVersion)
	}

	p.sess.version = v.ProtocolVersion
	p.sess.useragent = v.UserAgent
	p.sess.lastblock = v.LastBlock

	if err := p.write(wire.CmdVerack, nil); err != nil {
		return transportError(err)
	}
	p.sess.sentVerack = true
	return nil
}

// acceptVerack handles verack (spec.md §4.3). A duplicate after the
// first is logged and ignored, not fatal.
func (p *Peer) acceptVerack(payload []byte) error {
	if p.sess.gotVerack {
		log.Debugf("%s: duplicate verack", p.identity.Host())
		return nil
	}
	p.sess.gotVerack = true
	p.sess.pingTime = 0
	p.sess.startTime = time.Time{}

	if p.sess.sentVerack && p.sess.gotVerack && p.sess.status == StatusConnecting {
		p.sess.status = StatusConnected
		p.disconnectDeadline.Store(noDeadline)
		p.cfg.Events.connected(p)
	}
	return nil
}

// acceptAddr handles addr (spec.md §4.4). Accepted (and simply
// dropped) when getaddr was never sent — see DESIGN.md for the
// resolved Open Question on this point.
func (p *Peer) acceptAddr(payload []byte) error {
	addrs, err := wire.DecodeAddr(payload)
	if err != nil {
		log.Debugf("%s: dropping malformed addr: %v", p.identity.Host(), err)
		return nil
	}
	if !p.sess.sentGetaddr {
		return nil
	}

	now := time.Now()
	fiveDaysAgo := uint32(now.Add(-5 * 24 * time.Hour).Unix())
	tenMinutesHence := now.Add(10 * time.Minute)

	var out []Identity
	for _, a := range addrs {
		if a.Services&wire.SFNodeNetwork == 0 {
			continue
		}
		if !a.IsIPv4() {
			continue
		}
		ts := a.Timestamp
		if ts == 0 || time.Unix(int64(ts), 0).After(tenMinutesHence) {
			ts = fiveDaysAgo
		}
		ts -= uint32((2 * time.Hour).Seconds())
		out = append(out, NewIdentity(a.IP, a.Port, a.Services, ts))
	}
	if len(out) > 0 {
		p.cfg.Events.relayedPeers(p, out)
	}
	return nil
}

// acceptGetAddr replies with an empty addr (spec.md §4.4: this peer
// never serves a real address book).
func (p *Peer) acceptGetAddr(payload []byte) error {
	if err := p.write(wire.CmdAddr, wire.EncodeAddr(nil)); err != nil {
		return transportError(err)
	}
	return nil
}

// acceptPing echoes the nonce back as pong (spec.md §4.8).
func (p *Peer) acceptPing(payload []byte) error {
	nonce, err := wire.DecodePing(payload)
	if err != nil {
		return protocolErrorf("ping: %w", err)
	}
	if err := p.write(wire.CmdPong, wire.EncodePing(nonce)); err != nil {
		return transportError(err)
	}
	return nil
}

// acceptPong matches a pong against the head of pong_queue (spec.md
// §4.8, §8 invariant 8).
func (p *Peer) acceptPong(payload []byte) error {
	if len(payload) < 8 {
		return protocolErrorf("pong: payload too short")
	}
	nonce, err := wire.DecodePing(payload)
	if err != nil {
		return protocolErrorf("pong: %w", err)
	}
	if nonce != p.sess.nonce {
		return protocolErrorf("%w", ErrUnmatchedPongNonce)
	}
	if len(p.sess.pongQueue) == 0 {
		return protocolErrorf("%w", ErrUnmatchedPongNonce)
	}

	w := p.sess.pongQueue[0]
	p.sess.pongQueue = p.sess.pongQueue[1:]

	var rtt time.Duration
	if !p.sess.startTime.IsZero() && p.sess.startTime.Unix() > 1 {
		rtt = time.Since(p.sess.startTime)
		measured := rtt.Seconds()
		p.sess.pingTime = 0.5*p.sess.pingTime + 0.5*measured
	}
	if w.callback != nil {
		w.callback(rtt, nil)
	}
	return nil
}

// acceptReject records a BIP61 reject (spec.md §4.8).
func (p *Peer) acceptReject(payload []byte) error {
	r, err := wire.DecodeReject(payload)
	if err != nil {
		log.Debugf("%s: malformed reject: %v", p.identity.Host(), err)
		return nil
	}
	if r.Message == wire.CmdTx {
		p.cfg.Events.rejectedTx(p, r.Hash, r.Code)
	}
	return nil
}

// acceptFeeFilter updates the peer's advertised minimum relay fee
// (spec.md §4.8).
func (p *Peer) acceptFeeFilter(payload []byte) error {
	fee, err := wire.DecodeFeeFilter(payload)
	if err != nil {
		return protocolErrorf("feefilter: %w", err)
	}
	p.sess.feePerKB = fee
	p.cfg.Events.setFeePerKB(p, fee)
	return nil
}

// acceptNotFound surfaces a notfound's tx/block hash lists upward
// (spec.md §4.7).
func (p *Peer) acceptNotFound(payload []byte) error {
	items, err := wire.DecodeInvList(payload)
	if err != nil {
		return protocolErrorf("notfound: %w", err)
	}
	var txHashes, blockHashes []chainhash.Hash
	for _, it := range items {
		switch it.Type {
		case wire.InvTypeTx:
			txHashes = append(txHashes, it.Hash)
		case wire.InvTypeBlock, wire.InvTypeFilteredBlock:
			blockHashes = append(blockHashes, it.Hash)
		}
	}
	p.cfg.Events.notFound(p, txHashes, blockHashes)
	return nil
}
