package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// serviceHandle is the part of a registered zeroconf service the advertiser keeps.
type serviceHandle interface {
	SetText(text []string)
	Shutdown()
}

// registration describes one service to register.
type registration struct {
	instance string
	service  string // service type with comma-separated subtypes
	port     int
	text     []string
	ifaces   []net.Interface
	ttl      uint32
}

type registerFunc func(r registration) (serviceHandle, error)

func zeroconfRegister(r registration) (serviceHandle, error) {
	var opts []zeroconf.ServerOption
	if r.ttl > 0 {
		opts = append(opts, zeroconf.TTL(r.ttl))
	}
	return zeroconf.Register(r.instance, r.service, Domain, r.port, r.text, r.ifaces, opts...)
}

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config   AdvertiserConfig
	register registerFunc

	mu sync.Mutex

	// Active services
	commissionable     serviceHandle
	commissionableName string
	commissioner       serviceHandle
	operational        map[PeerID]serviceHandle
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return newMDNSAdvertiser(config, zeroconfRegister), nil
}

func newMDNSAdvertiser(config AdvertiserConfig, register registerFunc) *MDNSAdvertiser {
	return &MDNSAdvertiser{
		config:      config,
		register:    register,
		operational: make(map[PeerID]serviceHandle),
	}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

func (a *MDNSAdvertiser) newRegistration(instance, service string, subtypes []string, port uint16, txt TXTRecordMap) registration {
	if port == 0 {
		port = DefaultPort
	}
	return registration{
		instance: instance,
		service:  strings.Join(append([]string{service}, subtypes...), ","),
		port:     int(port),
		text:     TXTRecordsToStrings(txt),
		ifaces:   a.getInterfaces(),
		ttl:      uint32(a.config.TTL.Seconds()),
	}
}

// AdvertiseCommissionable starts advertising a commissionable service.
func (a *MDNSAdvertiser) AdvertiseCommissionable(ctx context.Context, info *CommissionableInfo) error {
	if info.LongDiscriminator > MaxDiscriminator {
		return ErrInvalidDiscriminator
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissionable != nil {
		a.commissionable.Shutdown()
		a.commissionable = nil
	}

	instanceName, err := instanceNameOrRandom(info.InstanceName)
	if err != nil {
		return err
	}

	r := a.newRegistration(instanceName, ServiceTypeCommissionable, info.Subtypes(), info.Port, EncodeCommissionableTXT(info))
	server, err := a.register(r)
	if err != nil {
		return fmt.Errorf("failed to register commissionable service: %w", err)
	}

	a.commissionable = server
	a.commissionableName = instanceName
	return nil
}

// UpdateCommissionable updates the TXT records of the commissionable service.
func (a *MDNSAdvertiser) UpdateCommissionable(info *CommissionableInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissionable == nil {
		return ErrNotFound
	}
	a.commissionable.SetText(TXTRecordsToStrings(EncodeCommissionableTXT(info)))
	return nil
}

// CommissionableInstanceName returns the instance name of the active
// commissionable service, or "" if none is advertised.
func (a *MDNSAdvertiser) CommissionableInstanceName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commissionableName
}

// StopCommissionable stops advertising the commissionable service.
func (a *MDNSAdvertiser) StopCommissionable() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissionable != nil {
		a.commissionable.Shutdown()
		a.commissionable = nil
		a.commissionableName = ""
	}
	return nil
}

// AdvertiseOperational starts advertising an operational service for a fabric.
func (a *MDNSAdvertiser) AdvertiseOperational(ctx context.Context, info *OperationalInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Stop existing for this peer if any
	if server, exists := a.operational[info.Peer]; exists {
		server.Shutdown()
		delete(a.operational, info.Peer)
	}

	subtypes := []string{CompressedFabricIDFilter(info.Peer.CompressedFabricID).Subtype()}
	r := a.newRegistration(info.Peer.InstanceName(), ServiceTypeOperational, subtypes, info.Port, EncodeOperationalTXT(info))
	server, err := a.register(r)
	if err != nil {
		return fmt.Errorf("failed to register operational service: %w", err)
	}

	a.operational[info.Peer] = server
	return nil
}

// StopOperational stops advertising the operational service for a peer ID.
func (a *MDNSAdvertiser) StopOperational(peer PeerID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.operational[peer]
	if !exists {
		return ErrNotFound
	}

	server.Shutdown()
	delete(a.operational, peer)
	return nil
}

// AdvertiseCommissioner starts advertising a commissioner service.
func (a *MDNSAdvertiser) AdvertiseCommissioner(ctx context.Context, info *CommissionerInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissioner != nil {
		a.commissioner.Shutdown()
		a.commissioner = nil
	}

	instanceName, err := instanceNameOrRandom(info.InstanceName)
	if err != nil {
		return err
	}

	var subtypes []string
	if info.VendorID != 0 {
		subtypes = append(subtypes, VendorIDFilter(info.VendorID).Subtype())
	}
	if info.DeviceType != 0 {
		subtypes = append(subtypes, DeviceTypeFilter(info.DeviceType).Subtype())
	}

	r := a.newRegistration(instanceName, ServiceTypeCommissioner, subtypes, info.Port, EncodeCommissionerTXT(info))
	server, err := a.register(r)
	if err != nil {
		return fmt.Errorf("failed to register commissioner service: %w", err)
	}

	a.commissioner = server
	return nil
}

// StopCommissioner stops advertising the commissioner service.
func (a *MDNSAdvertiser) StopCommissioner() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissioner != nil {
		a.commissioner.Shutdown()
		a.commissioner = nil
	}
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.commissionable != nil {
		a.commissionable.Shutdown()
		a.commissionable = nil
		a.commissionableName = ""
	}
	if a.commissioner != nil {
		a.commissioner.Shutdown()
		a.commissioner = nil
	}
	for peer, server := range a.operational {
		server.Shutdown()
		delete(a.operational, peer)
	}
}

func instanceNameOrRandom(name string) (string, error) {
	if name == "" {
		return RandomInstanceName()
	}
	if err := ValidateInstanceName(name); err != nil {
		return "", err
	}
	return name, nil
}

var _ Advertiser = (*MDNSAdvertiser)(nil)
