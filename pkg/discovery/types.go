package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeOperational is the service type for commissioned nodes.
	ServiceTypeOperational = "_matter._tcp"

	// ServiceTypeCommissionable is the service type for nodes in commissioning mode.
	ServiceTypeCommissionable = "_matterc._udp"

	// ServiceTypeCommissioner is the service type for commissioners.
	ServiceTypeCommissioner = "_matterd._udp"

	// Domain is the mDNS domain.
	Domain = "local"

	// SubtypeLabel separates a subtype from its service type.
	SubtypeLabel = "_sub"

	// MDNSPort is the standard mDNS port.
	MDNSPort = 5353

	// DefaultPort is the default Matter operational port.
	DefaultPort = 5540
)

// TXT record key constants.
const (
	// Common TXT keys
	TXTKeySessionIdle     = "SII" // Session idle interval (ms)
	TXTKeySessionActive   = "SAI" // Session active interval (ms)
	TXTKeyActiveThreshold = "SAT" // Session active threshold (ms)
	TXTKeyTCP             = "T"   // TCP support bitmap
	TXTKeyICD             = "ICD" // Long idle time ICD (0/1)

	// Commissionable and commissioner TXT keys
	TXTKeyDiscriminator      = "D"  // Long discriminator (0-4095)
	TXTKeyVendorProduct      = "VP" // Vendor ID, optionally "+<product ID>"
	TXTKeyCommissioningMode  = "CM" // Commissioning mode (0, 1, 2)
	TXTKeyDeviceType         = "DT" // Primary device type
	TXTKeyDeviceName         = "DN" // Device name
	TXTKeyRotatingID         = "RI" // Rotating device identifier (hex)
	TXTKeyPairingHint        = "PH" // Pairing hint bitmap
	TXTKeyPairingInstruction = "PI" // Pairing instruction
)

// Timing constants.
const (
	// DefaultIdleInterval is the local MRP idle retransmission interval.
	DefaultIdleInterval = 500 * time.Millisecond

	// DefaultActiveInterval is the local MRP active retransmission interval.
	DefaultActiveInterval = 300 * time.Millisecond

	// MaxRetransmissionInterval is the largest MRP interval a TXT record may carry.
	MaxRetransmissionInterval = time.Hour

	// CommissioningWindowDuration is how long commissioning mode stays open.
	CommissioningWindowDuration = 15 * time.Minute

	// MinCommissioningWindowDuration is the minimum configurable window duration.
	MinCommissioningWindowDuration = 3 * time.Minute

	// MaxCommissioningWindowDuration is the maximum configurable window duration.
	MaxCommissioningWindowDuration = 15 * time.Minute
)

// Limits.
const (
	// MaxAddresses bounds the addresses kept for one node.
	MaxAddresses = 5

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxHostNameLen bounds the stored host name.
	MaxHostNameLen = 63

	// MaxDeviceNameLen bounds the DN TXT value.
	MaxDeviceNameLen = 32

	// MaxPairingInstructionLen bounds the PI TXT value.
	MaxPairingInstructionLen = 128

	// MaxRotatingIDLen bounds the decoded RI TXT value.
	MaxRotatingIDLen = 50

	// MaxDiscriminator is the maximum long discriminator value (12 bits).
	MaxDiscriminator = 4095

	// MaxShortDiscriminator is the maximum short discriminator value (4 bits).
	MaxShortDiscriminator = 15

	// IDLength is the length of each half of an operational instance name.
	IDLength = 16
)

// Discovery errors.
var (
	ErrNotInitialized       = errors.New("resolver not initialized")
	ErrResourceExhausted    = errors.New("resource exhausted")
	ErrMalformedPacket      = errors.New("malformed packet")
	ErrTimeout              = errors.New("resolve timed out")
	ErrTransport            = errors.New("transport error")
	ErrInvalidInstanceName  = errors.New("invalid instance name")
	ErrInvalidTXTRecord     = errors.New("invalid TXT record format")
	ErrInvalidDiscriminator = errors.New("discriminator out of range")
	ErrInvalidPublicKey     = errors.New("invalid root public key")
	ErrInstanceNameTooLong  = errors.New("instance name exceeds 63 characters")
	ErrMissingRequired      = errors.New("missing required field")
	ErrNotFound             = errors.New("service not found")
	ErrAlreadyExists        = errors.New("service already exists")
)

// Kind identifies which DNS-SD service a discovery targets.
type Kind uint8

const (
	// KindOperational targets commissioned nodes (_matter._tcp).
	KindOperational Kind = iota

	// KindCommissionableNode targets nodes in commissioning mode (_matterc._udp).
	KindCommissionableNode

	// KindCommissionerNode targets commissioners (_matterd._udp).
	KindCommissionerNode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOperational:
		return "OPERATIONAL"
	case KindCommissionableNode:
		return "COMMISSIONABLE"
	case KindCommissionerNode:
		return "COMMISSIONER"
	default:
		return "UNKNOWN"
	}
}

// ServiceType returns the DNS-SD service type for the kind.
func (k Kind) ServiceType() string {
	switch k {
	case KindCommissionableNode:
		return ServiceTypeCommissionable
	case KindCommissionerNode:
		return ServiceTypeCommissioner
	default:
		return ServiceTypeOperational
	}
}

// KindForService maps a service type (without domain) back to its kind.
func KindForService(service string) (Kind, bool) {
	switch service {
	case ServiceTypeOperational:
		return KindOperational, true
	case ServiceTypeCommissionable:
		return KindCommissionableNode, true
	case ServiceTypeCommissioner:
		return KindCommissionerNode, true
	default:
		return 0, false
	}
}

// CommissioningMode is the value of the CM TXT key.
type CommissioningMode uint8

const (
	// CommissioningModeDisabled - not in a commissioning window.
	CommissioningModeDisabled CommissioningMode = 0

	// CommissioningModeBasic - basic commissioning window open.
	CommissioningModeBasic CommissioningMode = 1

	// CommissioningModeEnhanced - enhanced commissioning window open.
	CommissioningModeEnhanced CommissioningMode = 2
)

// String returns the mode name.
func (m CommissioningMode) String() string {
	switch m {
	case CommissioningModeDisabled:
		return "DISABLED"
	case CommissioningModeBasic:
		return "BASIC"
	case CommissioningModeEnhanced:
		return "ENHANCED"
	default:
		return "UNKNOWN"
	}
}

// DiscoveryState represents the node's advertising state.
type DiscoveryState uint8

const (
	// StateUnregistered - node is not advertising.
	StateUnregistered DiscoveryState = iota

	// StateUncommissioned - node has no fabrics and no open window.
	StateUncommissioned

	// StateCommissioningOpen - commissioning window is open (_matterc._udp advertised).
	StateCommissioningOpen

	// StateOperational - node has fabrics (_matter._tcp advertised per fabric).
	StateOperational

	// StateOperationalCommissioning - operational with an open window.
	StateOperationalCommissioning
)

// String returns the state name.
func (s DiscoveryState) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateUncommissioned:
		return "UNCOMMISSIONED"
	case StateCommissioningOpen:
		return "COMMISSIONING_OPEN"
	case StateOperational:
		return "OPERATIONAL"
	case StateOperationalCommissioning:
		return "OPERATIONAL_COMMISSIONING"
	default:
		return "UNKNOWN"
	}
}
