package wire

import "testing"

func TestPingRoundTrip(t *testing.T) {
	got, err := DecodePing(EncodePing(0xdeadbeef))
	if err != nil {
		t.Fatalf("DecodePing: %v", err)
	}
	if got != 0xdeadbeef {
		t.Errorf("got %#x, want %#x", got, 0xdeadbeef)
	}
}

func TestDecodePingRejectsShortPayload(t *testing.T) {
	if _, err := DecodePing([]byte{1, 2, 3}); err == nil {
		t.Error("DecodePing with a 3-byte payload: got nil error, want one")
	}
}
