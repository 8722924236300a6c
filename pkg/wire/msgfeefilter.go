package wire

import "bytes"

// EncodeFeeFilter serializes a feefilter payload: an 8-byte
// little-endian minimum relay fee rate, in satoshis per kilobyte.
func EncodeFeeFilter(feeRateSatPerKB int64) []byte {
	buf := new(bytes.Buffer)
	PutUint64LE(buf, uint64(feeRateSatPerKB))
	return buf.Bytes()
}

// DecodeFeeFilter parses a feefilter payload (spec.md §4.10).
func DecodeFeeFilter(payload []byte) (int64, error) {
	c := NewCursor(payload)
	v, err := c.Uint64LE()
	return int64(v), err
}
