package wire

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Reject codes, BIP61-compatible. The reference node only ever needs
// to decode these, never generate them, but the constants document
// what a peer might send back.
const (
	RejectMalformed       = 0x01
	RejectInvalid         = 0x10
	RejectObsolete        = 0x11
	RejectDuplicate       = 0x12
	RejectNonstandard     = 0x40
	RejectDust            = 0x41
	RejectInsufficientFee = 0x42
	RejectCheckpoint      = 0x43
)

// MsgReject mirrors a BIP61 reject message: the command it refers to,
// a one-byte code, a human-readable reason, and — for tx/block
// rejections — the hash that was rejected.
type MsgReject struct {
	Message string
	Code    uint8
	Reason  string
	Hash    chainhash.Hash // zero value when Message has no associated hash
}

// DecodeReject parses a reject payload (spec.md §4.10: accepted,
// logged, never torn down the connection over).
func DecodeReject(payload []byte) (MsgReject, error) {
	var m MsgReject
	c := NewCursor(payload)
	var err error
	if m.Message, err = c.VarString(CommandLength); err != nil {
		return m, err
	}
	code, err := c.Uint8()
	if err != nil {
		return m, err
	}
	m.Code = code
	if m.Reason, err = c.VarString(1024); err != nil {
		return m, err
	}
	if m.Message == CmdTx || m.Message == CmdBlockReject {
		if m.Hash, err = c.Hash(); err != nil {
			// Some peers omit the hash even for tx/block; don't fail
			// the whole message over a missing optional trailer.
			return m, nil
		}
	}
	return m, nil
}

// CmdBlockReject is the "block" command name as it appears inside a
// reject message's Message field; there is no standalone block
// message in this peer's vocabulary (spec.md has no block acceptor),
// so it isn't promoted to command.go.
const CmdBlockReject = "block"

// EncodeReject serializes a reject payload, for symmetry and tests.
func EncodeReject(m MsgReject) []byte {
	buf := new(bytes.Buffer)
	WriteVarInt(buf, uint64(len(m.Message)))
	buf.WriteString(m.Message)
	buf.WriteByte(m.Code)
	WriteVarInt(buf, uint64(len(m.Reason)))
	buf.WriteString(m.Reason)
	if m.Message == CmdTx || m.Message == CmdBlockReject {
		PutHash(buf, m.Hash)
	}
	return buf.Bytes()
}
