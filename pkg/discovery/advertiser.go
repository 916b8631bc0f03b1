package discovery

import (
	"context"
	"sync"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// AdvertiseCommissionable starts advertising a commissionable service.
	// The service will be advertised until StopCommissionable is called or
	// the commissioning window expires.
	AdvertiseCommissionable(ctx context.Context, info *CommissionableInfo) error

	// UpdateCommissionable replaces the TXT records of the commissionable service.
	UpdateCommissionable(info *CommissionableInfo) error

	// StopCommissionable stops advertising the commissionable service.
	StopCommissionable() error

	// AdvertiseOperational starts advertising an operational service for a fabric.
	// Multiple fabrics can be advertised simultaneously.
	AdvertiseOperational(ctx context.Context, info *OperationalInfo) error

	// StopOperational stops advertising the operational service for a peer ID.
	StopOperational(peer PeerID) error

	// AdvertiseCommissioner starts advertising a commissioner service.
	AdvertiseCommissioner(ctx context.Context, info *CommissionerInfo) error

	// StopCommissioner stops advertising the commissioner service.
	StopCommissioner() error

	// StopAll stops all advertisements.
	StopAll()
}

// CommissionableInfo contains information for advertising a commissionable node.
type CommissionableInfo struct {
	// InstanceName is the instance label. Empty means a random one is chosen.
	InstanceName string

	// LongDiscriminator identifies this node (0-4095).
	LongDiscriminator uint16

	// VendorID and ProductID are advertised as VP.
	VendorID  uint16
	ProductID uint16

	// DeviceType is the primary device type.
	DeviceType uint16

	// CommissioningMode is advertised as CM.
	CommissioningMode CommissioningMode

	// DeviceName is an optional user-visible name.
	DeviceName string

	// PairingHint and PairingInstruction describe how to put the node into pairing.
	PairingHint        uint16
	PairingInstruction string

	// RotatingID is the rotating device identifier.
	RotatingID []byte

	// MRP holds the retransmission hints to advertise.
	MRP MRPHints

	// SupportsTCP advertises TCP support.
	SupportsTCP bool

	// ICD advertises long idle time operation.
	ICD bool

	// Port is the service port.
	Port uint16
}

// Subtypes returns the DNS-SD subtypes advertised for the node.
func (info *CommissionableInfo) Subtypes() []string {
	subtypes := []string{
		ShortDiscriminatorFilter(info.LongDiscriminator >> 8).Subtype(),
		LongDiscriminatorFilter(info.LongDiscriminator).Subtype(),
	}
	if info.VendorID != 0 {
		subtypes = append(subtypes, VendorIDFilter(info.VendorID).Subtype())
	}
	if info.DeviceType != 0 {
		subtypes = append(subtypes, DeviceTypeFilter(info.DeviceType).Subtype())
	}
	if info.CommissioningMode != CommissioningModeDisabled {
		subtypes = append(subtypes, CommissioningModeFilter().Subtype())
	}
	return subtypes
}

// OperationalInfo contains information for advertising an operational node.
type OperationalInfo struct {
	// Peer is the compressed fabric ID and node ID of this node.
	Peer PeerID

	// MRP holds the retransmission hints to advertise.
	MRP MRPHints

	// SupportsTCP advertises TCP support.
	SupportsTCP bool

	// ICD advertises long idle time operation.
	ICD bool

	// Port is the service port.
	Port uint16
}

// CommissionerInfo contains information for advertising a commissioner.
type CommissionerInfo struct {
	// InstanceName is the instance label. Empty means a random one is chosen.
	InstanceName string

	// VendorID and ProductID are advertised as VP.
	VendorID  uint16
	ProductID uint16

	// DeviceType is the commissioner's device type.
	DeviceType uint16

	// DeviceName is an optional user-visible name.
	DeviceName string

	// MRP holds the retransmission hints to advertise.
	MRP MRPHints

	// SupportsTCP advertises TCP support.
	SupportsTCP bool

	// Port is the service port.
	Port uint16
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// DiscoveryManager manages the node's advertising state machine.
type DiscoveryManager struct {
	mu sync.RWMutex

	state      DiscoveryState
	advertiser Advertiser

	// Commissionable info (used when in commissioning mode)
	commissionableInfo *CommissionableInfo

	// Operational advertisements, one per fabric
	fabrics map[PeerID]*OperationalInfo

	// Commissioning window
	window             time.Duration
	commissioningTimer *time.Timer

	// Callback for state changes
	onStateChange func(old, new DiscoveryState)
}

// NewDiscoveryManager creates a new discovery manager.
func NewDiscoveryManager(advertiser Advertiser) *DiscoveryManager {
	return &DiscoveryManager{
		state:      StateUnregistered,
		advertiser: advertiser,
		fabrics:    make(map[PeerID]*OperationalInfo),
		window:     CommissioningWindowDuration,
	}
}

// State returns the current discovery state.
func (m *DiscoveryManager) State() DiscoveryState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnStateChange sets a callback for state changes.
func (m *DiscoveryManager) OnStateChange(fn func(old, new DiscoveryState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// SetCommissionableInfo sets the node's commissionable information.
// This should be called before entering commissioning mode.
func (m *DiscoveryManager) SetCommissionableInfo(info *CommissionableInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commissionableInfo = info
}

// SetCommissioningWindow sets how long the commissioning window stays open.
// The value is clamped to the allowed range.
func (m *DiscoveryManager) SetCommissioningWindow(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = min(max(d, MinCommissioningWindowDuration), MaxCommissioningWindowDuration)
}

// EnterCommissioningMode starts advertising the commissionable service.
// The service will be automatically stopped after the commissioning window expires.
func (m *DiscoveryManager) EnterCommissioningMode(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commissionableInfo == nil {
		return ErrMissingRequired
	}

	info := *m.commissionableInfo
	if info.CommissioningMode == CommissioningModeDisabled {
		info.CommissioningMode = CommissioningModeBasic
	}
	if err := m.advertiser.AdvertiseCommissionable(ctx, &info); err != nil {
		return err
	}

	if m.commissioningTimer != nil {
		m.commissioningTimer.Stop()
	}
	m.commissioningTimer = time.AfterFunc(m.window, func() {
		_ = m.ExitCommissioningMode()
	})

	if len(m.fabrics) > 0 {
		m.setState(StateOperationalCommissioning)
	} else {
		m.setState(StateCommissioningOpen)
	}
	return nil
}

// ExitCommissioningMode stops advertising the commissionable service.
// Call this on successful commissioning, user cancellation or window expiry.
func (m *DiscoveryManager) ExitCommissioningMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commissioningTimer != nil {
		m.commissioningTimer.Stop()
		m.commissioningTimer = nil
	}

	if err := m.advertiser.StopCommissionable(); err != nil {
		return err
	}

	if len(m.fabrics) > 0 {
		m.setState(StateOperational)
	} else {
		m.setState(StateUncommissioned)
	}
	return nil
}

// AddFabric starts advertising the operational service for a fabric.
func (m *DiscoveryManager) AddFabric(ctx context.Context, info *OperationalInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.fabrics[info.Peer]; exists {
		return ErrAlreadyExists
	}

	if err := m.advertiser.AdvertiseOperational(ctx, info); err != nil {
		return err
	}
	m.fabrics[info.Peer] = info

	switch m.state {
	case StateUnregistered, StateUncommissioned:
		m.setState(StateOperational)
	case StateCommissioningOpen:
		m.setState(StateOperationalCommissioning)
	}
	return nil
}

// RemoveFabric stops advertising the operational service for a peer ID.
func (m *DiscoveryManager) RemoveFabric(peer PeerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.fabrics[peer]; !exists {
		return ErrNotFound
	}

	if err := m.advertiser.StopOperational(peer); err != nil {
		return err
	}
	delete(m.fabrics, peer)

	if len(m.fabrics) == 0 {
		switch m.state {
		case StateOperational:
			m.setState(StateUncommissioned)
		case StateOperationalCommissioning:
			m.setState(StateCommissioningOpen)
		}
	}
	return nil
}

// FabricCount returns the number of advertised fabrics.
func (m *DiscoveryManager) FabricCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.fabrics)
}

// Stop stops all advertising.
func (m *DiscoveryManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commissioningTimer != nil {
		m.commissioningTimer.Stop()
		m.commissioningTimer = nil
	}

	m.advertiser.StopAll()
	m.fabrics = make(map[PeerID]*OperationalInfo)
	m.setState(StateUnregistered)
}

// setState must be called with mu held.
func (m *DiscoveryManager) setState(state DiscoveryState) {
	old := m.state
	m.state = state
	if m.onStateChange != nil && old != state {
		m.onStateChange(old, state)
	}
}
