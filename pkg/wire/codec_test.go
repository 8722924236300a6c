package wire

import (
	"bytes"
	"testing"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	payload := []byte("hello ravencoin")
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MainNet, CmdPing, payload); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	cmd, got, err := ReadMessage(&buf, MainNet)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if cmd != CmdPing {
		t.Errorf("command = %q, want %q", cmd, CmdPing)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestReadMessageSkipsGarbageBeforeMagic(t *testing.T) {
	payload := []byte("asset data")
	var clean bytes.Buffer
	if err := WriteMessage(&clean, TestNet, CmdGetAddr, payload); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02}
	var stream bytes.Buffer
	stream.Write(garbage)
	stream.Write(clean.Bytes())

	cmd, got, err := ReadMessage(&stream, TestNet)
	if err != nil {
		t.Fatalf("ReadMessage after garbage prefix: %v", err)
	}
	if cmd != CmdGetAddr {
		t.Errorf("command = %q, want %q", cmd, CmdGetAddr)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestReadMessageRejectsWrongNetwork(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MainNet, CmdPing, []byte("x")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	appended := append(buf.Bytes(), make([]byte, 4)...) // never matches TestNet magic
	if _, _, err := ReadMessage(bytes.NewReader(appended), TestNet); err == nil {
		t.Error("ReadMessage on a stream with no TestNet magic: got nil error, want one")
	}
}

func TestReadPayloadRejectsBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, MainNet, CmdPing, []byte("payload")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xff // corrupt the last payload byte without touching the checksum

	h, err := ReadHeader(bytes.NewReader(raw[:HeaderLength]), MainNet)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if _, err := ReadPayload(bytes.NewReader(raw[HeaderLength:]), h); err == nil {
		t.Error("ReadPayload on corrupted payload: got nil error, want checksum mismatch")
	}
}

func TestWriteMessageRejectsOversizedPayload(t *testing.T) {
	huge := make([]byte, MaxPayload+1)
	if err := WriteMessage(bytes.NewBuffer(nil), MainNet, CmdTx, huge); err == nil {
		t.Error("WriteMessage with oversized payload: got nil error, want one")
	}
}
