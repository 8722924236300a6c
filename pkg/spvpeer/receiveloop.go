package spvpeer

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ravencoin-community/ravenspv/pkg/wire"
)

// receiveLoop is the dedicated per-peer task spec.md §5 describes: it
// owns every session field, drains owner-submitted session ops,
// re-evaluates deadlines on a 1-second cadence, and dispatches each
// arriving message to its acceptor in strict wire order.
func (p *Peer) receiveLoop() {
	var exitErr error

loop:
	for {
		// Service any owner-submitted session mutation immediately;
		// these must never be reordered against the acceptors that
		// consume their effects.
		for drained := false; !drained; {
			select {
			case op := <-p.cmdCh:
				op.fn(p.sess)
				close(op.done)
			case <-p.doneCh:
				exitErr = &PeerError{Reason: DisconnectRequested}
				break loop
			default:
				drained = true
			}
		}

		if dl := p.disconnectDeadline.Load(); dl != noDeadline && time.Now().UnixNano() >= dl {
			exitErr = timeoutError(fmt.Errorf("disconnect_time reached"))
			break loop
		}

		p.connMu.Lock()
		mempoolWaiting := p.sess.mempool != nil
		mempoolDeadline := p.sess.mempoolDeadline
		p.connMu.Unlock()
		if mempoolWaiting && !mempoolDeadline.IsZero() && !time.Now().Before(mempoolDeadline) {
			p.connMu.Lock()
			cb := p.sess.mempool.callback
			p.sess.mempool = nil
			p.sess.mempoolDeadline = time.Time{}
			p.connMu.Unlock()
			if err := p.pingForMempoolCompletion(cb); err != nil {
				exitErr = transportError(err)
				break loop
			}
			continue loop
		}

		p.connMu.Lock()
		conn := p.conn
		p.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(socketTimeout))
		header, err := wire.ReadHeader(conn, p.cfg.Params.Net)
		if err != nil {
			if isTimeout(err) {
				continue loop
			}
			select {
			case <-p.doneCh:
				exitErr = &PeerError{Reason: DisconnectRequested}
			default:
				exitErr = transportError(err)
			}
			break loop
		}

		conn.SetReadDeadline(time.Now().Add(messageTimeout))
		payload, err := wire.ReadPayload(conn, header)
		if err != nil {
			if isTimeout(err) {
				exitErr = timeoutError(err)
			} else {
				exitErr = protocolErrorf("%w", err)
			}
			break loop
		}

		if err := p.dispatch(header.Command, payload); err != nil {
			exitErr = err
			break loop
		}
	}

	p.finish(exitErr)
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// finish runs the shared teardown sequence every exit path uses
// (spec.md §7): drain pong_queue and the mempool callback with
// failure, close the socket, surface disconnected(error), then
// thread_cleanup.
func (p *Peer) finish(exitErr error) {
	p.connMu.Lock()
	for _, w := range p.sess.pongQueue {
		if w.callback != nil {
			w.callback(0, exitErr)
		}
	}
	p.sess.pongQueue = nil
	if p.sess.mempool != nil && p.sess.mempool.callback != nil {
		p.sess.mempool.callback(exitErr)
	}
	p.sess.mempool = nil
	for name, waiters := range p.sess.assetWaiters {
		for _, w := range waiters {
			if w.callback != nil {
				w.callback(nil)
			}
		}
		delete(p.sess.assetWaiters, name)
	}
	p.sess.status = StatusDisconnected
	p.connMu.Unlock()

	p.Disconnect()

	p.cfg.Events.disconnected(p, exitErr)
	p.cfg.Events.threadCleanup(p)
}
