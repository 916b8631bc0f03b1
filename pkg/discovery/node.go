package discovery

import (
	"time"
)

// MRPHints are the reliability-layer timing hints a node advertises.
// A zero field was not advertised.
type MRPHints struct {
	// Idle is the retransmission interval while the node is idle (SII).
	Idle time.Duration

	// Active is the retransmission interval while the node is active (SAI).
	Active time.Duration

	// ActiveThreshold is how long the node stays active after activity (SAT).
	ActiveThreshold time.Duration
}

// IsSet reports whether any retransmission interval was advertised.
func (h MRPHints) IsSet() bool {
	return h.Idle > 0 || h.Active > 0
}

// DefaultMRPHints returns the local reliability-layer defaults.
func DefaultMRPHints() MRPHints {
	return MRPHints{
		Idle:   DefaultIdleInterval,
		Active: DefaultActiveInterval,
	}
}

// CommonResolutionData holds the fields shared by operational and
// commissionable results.
type CommonResolutionData struct {
	// HostName is the SRV target host, without the ".local" suffix.
	HostName string

	// Port is the service port from the SRV record.
	Port uint16

	// Interface is the index of the interface the response arrived on.
	Interface int

	// Addresses contains the resolved addresses in priority order.
	Addresses AddressList

	// SupportsTCP is set from the T TXT key.
	SupportsTCP bool

	// ICD is set when the node operates as a long idle time ICD.
	ICD bool

	// MRP holds the advertised retransmission hints.
	MRP MRPHints
}

// IsSleepy reports whether the node advertises retransmission intervals
// longer than the local defaults.
func (c *CommonResolutionData) IsSleepy(local MRPHints) bool {
	if c.MRP.Idle > 0 && c.MRP.Idle > local.Idle {
		return true
	}
	return c.MRP.Active > 0 && c.MRP.Active > local.Active
}

// ResolvedOperationalNode is the result of resolving a PeerID.
type ResolvedOperationalNode struct {
	Peer PeerID
	CommonResolutionData

	// Expiry is set by the cache that stores the node. Parsing leaves it zero.
	Expiry time.Time
}

// IsValid reports whether the node can be reported: a port and at least one address.
func (n *ResolvedOperationalNode) IsValid() bool {
	return n.Port != 0 && n.Addresses.Len() > 0
}

// DiscoveredNode is a commissionable node or commissioner found by browsing.
type DiscoveredNode struct {
	// Kind is the service the node was discovered on.
	Kind Kind

	// InstanceName is the DNS-SD instance label.
	InstanceName string

	CommonResolutionData

	// LongDiscriminator is the 12-bit discriminator (D).
	LongDiscriminator uint16

	// VendorID and ProductID come from VP.
	VendorID  uint16
	ProductID uint16

	// DeviceType is the primary device type (DT).
	DeviceType uint16

	// CommissioningMode is the CM value.
	CommissioningMode CommissioningMode

	// DeviceName is the optional device name (DN).
	DeviceName string

	// PairingHint is the pairing hint bitmap (PH).
	PairingHint uint16

	// PairingInstruction accompanies the pairing hint (PI).
	PairingInstruction string

	// RotatingID is the decoded rotating device identifier (RI).
	RotatingID []byte
}

// IsValid reports whether the node can be reported: an instance name and at least one address.
func (n *DiscoveredNode) IsValid() bool {
	return n.InstanceName != "" && n.Addresses.Len() > 0
}

// ShortDiscriminator returns the upper 4 bits of the long discriminator.
func (n *DiscoveredNode) ShortDiscriminator() uint16 {
	return n.LongDiscriminator >> 8
}
