package dist

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so the same snapshot always encodes to
// the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalTree serializes a NodeSnapshot to CBOR bytes.
func MarshalTree(n *NodeSnapshot) ([]byte, error) {
	return cborEncMode.Marshal(n)
}

// UnmarshalTree deserializes a NodeSnapshot from CBOR bytes.
func UnmarshalTree(data []byte) (*NodeSnapshot, error) {
	var n NodeSnapshot
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("dist: unmarshal tree: %w", err)
	}
	return &n, nil
}

// MarshalScope serializes a ScopeCapture to CBOR bytes.
func MarshalScope(c *ScopeCapture) ([]byte, error) {
	return cborEncMode.Marshal(c)
}

// UnmarshalScope deserializes a ScopeCapture from CBOR bytes.
func UnmarshalScope(data []byte) (*ScopeCapture, error) {
	var c ScopeCapture
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("dist: unmarshal scope: %w", err)
	}
	return &c, nil
}
