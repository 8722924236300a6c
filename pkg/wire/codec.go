package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HeaderLength is the fixed size of the framing header: 4-byte magic,
// 12-byte command, 4-byte length, 4-byte checksum.
const HeaderLength = 24

// CommandLength is the fixed width of the command field.
const CommandLength = 12

// MaxPayload is the largest payload this codec will accept before
// treating the length field as a fatal framing error (spec.md §4.1).
const MaxPayload = 0x02000000

// checksumLen is how many leading bytes of double-SHA256(payload) are
// carried in the header.
const checksumLen = 4

// Header is a decoded framing header, with the checksum left
// unverified until the payload is in hand (see ReadPayload).
type Header struct {
	Command string
	Length  uint32
	Sum     [checksumLen]byte
}

// ReadHeader resynchronizes on the network magic and reads one 24-byte
// header. It slides forward byte-by-byte to find the magic, so garbage
// preceding a valid message never causes a read error (spec.md §4.1,
// testable property 1). Split from payload reading so a caller can
// apply a different deadline to the two phases (spec.md §5: "10s
// measured from the moment the header is fully read").
func ReadHeader(r io.Reader, net RavenNet) (Header, error) {
	if err := seekMagic(r, net); err != nil {
		return Header{}, err
	}

	rest := make([]byte, HeaderLength-4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Header{}, fmt.Errorf("wire: short header read: %w", err)
	}

	cmd, err := decodeCommand(rest[:CommandLength])
	if err != nil {
		return Header{}, err
	}

	length := leUint32(rest[CommandLength : CommandLength+4])
	if length > MaxPayload {
		return Header{}, fmt.Errorf("wire: payload length %d exceeds max %d", length, MaxPayload)
	}

	var h Header
	h.Command = cmd
	h.Length = length
	copy(h.Sum[:], rest[CommandLength+4:CommandLength+8])
	return h, nil
}

// ReadPayload reads and checksum-verifies the payload named by h.
func ReadPayload(r io.Reader, h Header) ([]byte, error) {
	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: short payload read for %s: %w", h.Command, err)
	}
	sum := chainhash.DoubleHashB(payload)
	if !bytes.Equal(sum[:checksumLen], h.Sum[:]) {
		return nil, fmt.Errorf("wire: checksum mismatch for %s", h.Command)
	}
	return payload, nil
}

// ReadMessage resynchronizes on the network magic, reads one framed
// message, verifies its checksum, and returns its command and raw
// payload. Convenience wrapper over ReadHeader+ReadPayload for callers
// that don't need per-phase deadlines (e.g. tests).
func ReadMessage(r io.Reader, net RavenNet) (command string, payload []byte, err error) {
	h, err := ReadHeader(r, net)
	if err != nil {
		return "", nil, err
	}
	payload, err = ReadPayload(r, h)
	if err != nil {
		return "", nil, err
	}
	return h.Command, payload, nil
}

// seekMagic consumes bytes one at a time until the last 4 bytes read
// equal the network's magic value, little-endian.
func seekMagic(r io.Reader, net RavenNet) error {
	want := [4]byte{byte(net), byte(net >> 8), byte(net >> 16), byte(net >> 24)}
	var window [4]byte
	filled := 0
	one := make([]byte, 1)

	for {
		if _, err := io.ReadFull(r, one); err != nil {
			return fmt.Errorf("wire: seeking magic: %w", err)
		}
		if filled < 4 {
			window[filled] = one[0]
			filled++
		} else {
			window[0], window[1], window[2], window[3] = window[1], window[2], window[3], one[0]
		}
		if filled == 4 && window == want {
			return nil
		}
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// decodeCommand checks that cmd (exactly CommandLength bytes) has a NUL
// terminator somewhere in the field and returns the string up to it.
// The character set and the padding after the terminator are not
// checked.
func decodeCommand(cmd []byte) (string, error) {
	nul := bytes.IndexByte(cmd, 0)
	if nul < 0 {
		return "", fmt.Errorf("wire: malformed command, not NUL-terminated within %d bytes", CommandLength)
	}
	return string(cmd[:nul]), nil
}

// encodeCommand writes command left-justified into a CommandLength
// field, NUL-padded. A command of exactly CommandLength bytes
// (CmdGetAssetData) is written with no NUL, so decodeCommand rejects
// such a frame; a longer command is truncated.
func encodeCommand(command string) [CommandLength]byte {
	var out [CommandLength]byte
	copy(out[:], command)
	return out
}

// WriteMessage frames and writes a single message as one logical send
// (spec.md §5: "header plus payload written as one logical unit").
func WriteMessage(w io.Writer, net RavenNet, command string, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("wire: refusing to send %s, payload length %d exceeds max %d", command, len(payload), MaxPayload)
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderLength+len(payload)))
	PutUint32LE(buf, uint32(net))
	cmd := encodeCommand(command)
	buf.Write(cmd[:])
	PutUint32LE(buf, uint32(len(payload)))
	sum := chainhash.DoubleHashB(payload)
	buf.Write(sum[:checksumLen])
	buf.Write(payload)

	_, err := w.Write(buf.Bytes())
	return err
}
