package graph

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NodeID identifies a scene entity. IDs are random and never reused.
type NodeID uuid.UUID

// ZeroID is the zero-value NodeID, used for "no parent".
var ZeroID NodeID

// NewNodeID returns a fresh random NodeID.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

// ParseNodeID parses the canonical string form of a NodeID.
func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ZeroID, err
	}
	return NodeID(u), nil
}

// IsZero reports whether the ID is the zero value.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// String returns the canonical UUID form.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first 6 bytes as hex, for logs and error messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

// MarshalText implements encoding.TextMarshaler so IDs can key JSON maps.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
