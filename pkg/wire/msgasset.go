package wire

import (
	"bytes"
	"fmt"
)

// MaxAssetNameLen matches Ravencoin's maximum asset name length
// (root names cap at 30 chars; qualifiers/sub-assets add prefixes and
// separators, so this leaves generous headroom rather than encoding
// the full naming-rule state machine here — that belongs to the asset
// layer, not this wire codec).
const MaxAssetNameLen = 128

// MaxAssetsPerRequest bounds how many names a single getassetdata can
// name, mirroring the reference node's sanity limit.
const MaxAssetsPerRequest = 256

// MaxIPFSHashLen bounds the IPFS/IPNS hash payload an assetdata reply
// may carry. The hash travels as raw bytes: a CIDv0 multihash is 34
// bytes (46 characters once base58-encoded); this leaves room for
// longer CIDv1 forms too.
const MaxIPFSHashLen = 128

// DecodeGetAssetData parses a getassetdata payload: a VarInt count
// followed by that many VarString asset names (spec.md §4.9).
func DecodeGetAssetData(payload []byte) ([]string, error) {
	c := NewCursor(payload)
	count, err := c.VarInt()
	if err != nil {
		return nil, err
	}
	if count > MaxAssetsPerRequest {
		return nil, fmt.Errorf("wire: getassetdata count %d exceeds max %d", count, MaxAssetsPerRequest)
	}
	names := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		name, err := c.VarString(MaxAssetNameLen)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// EncodeGetAssetData serializes a getassetdata payload.
func EncodeGetAssetData(names []string) []byte {
	buf := new(bytes.Buffer)
	WriteVarInt(buf, uint64(len(names)))
	for _, n := range names {
		WriteVarInt(buf, uint64(len(n)))
		buf.WriteString(n)
	}
	return buf.Bytes()
}

// AssetData is one reply entry to a getassetdata request. A Name
// equal to AssetNotFoundSentinel means the requested asset doesn't
// exist on the peer's chain state — callers must check for it before
// trusting the rest of the fields (spec.md §4.9, §9 DESIGN NOTES).
type AssetData struct {
	Name        string
	Amount      int64
	Unit        uint8
	Reissuable  bool
	HasIPFS     bool
	IPFSHash    []byte
	BlockHeight int32
}

// NotFound reports whether this entry is the "_NF" not-found marker.
func (a AssetData) NotFound() bool {
	return a.Name == AssetNotFoundSentinel
}

// DecodeAssetData parses a single assetdata payload entry.
func DecodeAssetData(payload []byte) (AssetData, error) {
	var a AssetData
	c := NewCursor(payload)
	var err error
	if a.Name, err = c.VarString(MaxAssetNameLen); err != nil {
		return a, err
	}
	if a.NotFound() {
		// The sentinel form carries nothing past the name; the
		// reference node doesn't bother padding the rest of the
		// message for a negative reply.
		return a, nil
	}
	amount, err := c.Uint64LE()
	if err != nil {
		return a, err
	}
	a.Amount = int64(amount)
	if a.Unit, err = c.Uint8(); err != nil {
		return a, err
	}
	reissuable, err := c.Uint8()
	if err != nil {
		return a, err
	}
	a.Reissuable = reissuable != 0
	hasIPFS, err := c.Uint8()
	if err != nil {
		return a, err
	}
	a.HasIPFS = hasIPFS != 0
	if a.HasIPFS {
		n, err := c.VarInt()
		if err != nil {
			return a, err
		}
		if n > MaxIPFSHashLen {
			return a, fmt.Errorf("wire: assetdata IPFS hash length %d exceeds max %d", n, MaxIPFSHashLen)
		}
		if a.IPFSHash, err = c.Bytes(int(n)); err != nil {
			return a, err
		}
	}
	height, err := c.Uint32LE()
	if err != nil {
		return a, err
	}
	a.BlockHeight = int32(height)
	return a, nil
}

// EncodeAssetData serializes an assetdata payload entry.
func EncodeAssetData(a AssetData) []byte {
	buf := new(bytes.Buffer)
	WriteVarInt(buf, uint64(len(a.Name)))
	buf.WriteString(a.Name)
	if a.NotFound() {
		return buf.Bytes()
	}
	PutUint64LE(buf, uint64(a.Amount))
	buf.WriteByte(a.Unit)
	if a.Reissuable {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	if a.HasIPFS {
		buf.WriteByte(1)
		WriteVarInt(buf, uint64(len(a.IPFSHash)))
		buf.Write(a.IPFSHash)
	} else {
		buf.WriteByte(0)
	}
	PutUint32LE(buf, uint32(a.BlockHeight))
	return buf.Bytes()
}
