package discovery

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// PeerID identifies an operational node: the compressed fabric ID of the
// fabric it belongs to and its node ID on that fabric.
type PeerID struct {
	CompressedFabricID uint64
	NodeID             uint64
}

// String returns the operational instance name for the peer.
func (p PeerID) String() string {
	return p.InstanceName()
}

// InstanceName creates the instance name for operational discovery.
//
// Format: <node-id>-<compressed-fabric-id>, each as 16 uppercase hex digits.
func (p PeerID) InstanceName() string {
	return fmt.Sprintf("%016X-%016X", p.NodeID, p.CompressedFabricID)
}

// ParseInstanceName extracts the peer from an operational instance name.
func ParseInstanceName(name string) (PeerID, error) {
	node, fabric, ok := strings.Cut(name, "-")
	if !ok {
		return PeerID{}, fmt.Errorf("%w: %q", ErrInvalidInstanceName, name)
	}

	// Validate lengths (should be 16 hex chars each)
	if len(fabric) != IDLength || len(node) != IDLength {
		return PeerID{}, fmt.Errorf("%w: %q", ErrInvalidInstanceName, name)
	}

	cfid, err := strconv.ParseUint(fabric, 16, 64)
	if err != nil {
		return PeerID{}, fmt.Errorf("%w: %q", ErrInvalidInstanceName, name)
	}
	nodeID, err := strconv.ParseUint(node, 16, 64)
	if err != nil {
		return PeerID{}, fmt.Errorf("%w: %q", ErrInvalidInstanceName, name)
	}

	return PeerID{CompressedFabricID: cfid, NodeID: nodeID}, nil
}

// RandomInstanceName creates a commissionable or commissioner instance name:
// 64 random bits as 16 uppercase hex digits.
func RandomInstanceName() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate instance name: %w", err)
	}
	return fmt.Sprintf("%016X", binary.BigEndian.Uint64(b[:])), nil
}

// ServiceName returns the fully qualified service name for a kind,
// e.g. "_matterc._udp.local".
func ServiceName(kind Kind) string {
	return kind.ServiceType() + "." + Domain
}

// SubtypeServiceName returns "<subtype>._sub.<service>.local".
func SubtypeServiceName(subtype string, kind Kind) string {
	return subtype + "." + SubtypeLabel + "." + ServiceName(kind)
}

// InstanceServiceName returns "<instance>.<service>.local".
func InstanceServiceName(instance string, kind Kind) string {
	return instance + "." + ServiceName(kind)
}

// SplitServiceName splits a fully qualified instance name into its instance
// label and the kind of service it belongs to. Names are compared without
// case and without a trailing dot.
func SplitServiceName(name string) (instance string, kind Kind, ok bool) {
	name = strings.TrimSuffix(name, ".")
	for _, k := range []Kind{KindOperational, KindCommissionableNode, KindCommissionerNode} {
		suffix := "." + ServiceName(k)
		if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			return name[:len(name)-len(suffix)], k, true
		}
	}
	return "", 0, false
}

// ValidateInstanceName checks that an instance name fits in one DNS label.
func ValidateInstanceName(name string) error {
	if name == "" {
		return ErrInvalidInstanceName
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
