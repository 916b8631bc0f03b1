package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/cmd/dnssd/commands"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/spf13/cobra"
)

// Advertise flags
var (
	advPort       uint16
	advInstance   string
	advVendor     uint16
	advProduct    uint16
	advDeviceType uint16
	advName       string
	advIdle       time.Duration
	advActive     time.Duration
	advTCP        bool
	advICD        bool

	advDiscriminator uint16
	advWindow        time.Duration
	advHint          uint16
	advInstruction   string
	advRotatingID    string
)

var advertiseCmd = &cobra.Command{
	Use:   "advertise",
	Short: "Advertise a Matter service until interrupted",
}

var advertiseCommissionableCmd = &cobra.Command{
	Use:     "commissionable",
	Short:   "Open a commissioning window and advertise _matterc._udp",
	Example: `  dnssd advertise commissionable --discriminator 840 --vendor 65521 --product 32769
  dnssd advertise commissionable --discriminator 3840 --window 3m --name "Kitchen Light"`,
	Args: cobra.NoArgs,
	RunE: runAdvertiseCommissionable,
}

var advertiseCommissionerCmd = &cobra.Command{
	Use:   "commissioner",
	Short: "Advertise _matterd._udp",
	Args:  cobra.NoArgs,
	RunE:  runAdvertiseCommissioner,
}

var advertiseOperationalCmd = &cobra.Command{
	Use:   "operational <instance> | <fabric-id> <node-id>",
	Short: "Advertise _matter._tcp for one fabric",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAdvertiseOperational,
}

func init() {
	for _, c := range []*cobra.Command{advertiseCommissionableCmd, advertiseCommissionerCmd, advertiseOperationalCmd} {
		f := c.Flags()
		f.Uint16Var(&advPort, "port", discovery.DefaultPort, "Service port")
		f.DurationVar(&advIdle, "idle-interval", 0, "Advertised MRP idle interval (SII)")
		f.DurationVar(&advActive, "active-interval", 0, "Advertised MRP active interval (SAI)")
		f.BoolVar(&advTCP, "tcp", false, "Advertise TCP support")
		advertiseCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{advertiseCommissionableCmd, advertiseCommissionerCmd} {
		f := c.Flags()
		f.StringVar(&advInstance, "instance", "", "Instance name (default: random)")
		f.Uint16Var(&advVendor, "vendor", 0, "Vendor ID")
		f.Uint16Var(&advProduct, "product", 0, "Product ID")
		f.Uint16Var(&advDeviceType, "device-type", 0, "Device type")
		f.StringVar(&advName, "name", "", "Device name")
	}
	for _, c := range []*cobra.Command{advertiseCommissionableCmd, advertiseOperationalCmd} {
		c.Flags().BoolVar(&advICD, "icd", false, "Advertise long idle time ICD operation")
	}

	f := advertiseCommissionableCmd.Flags()
	f.Uint16Var(&advDiscriminator, "discriminator", 0, "Long discriminator (0-4095)")
	f.DurationVar(&advWindow, "window", discovery.CommissioningWindowDuration, "Commissioning window")
	f.Uint16Var(&advHint, "pairing-hint", 0, "Pairing hint bitmap")
	f.StringVar(&advInstruction, "pairing-instruction", "", "Pairing instruction")
	f.StringVar(&advRotatingID, "rotating-id", "", "Rotating device identifier (hex)")
}

func advertisedMRP() discovery.MRPHints {
	return discovery.MRPHints{Idle: advIdle, Active: advActive}
}

// newManager creates an advertiser and a manager whose state changes are
// printed and recorded in the event log.
func newManager(cmd *cobra.Command, a *app) (*discovery.MDNSAdvertiser, *discovery.DiscoveryManager, error) {
	adv, err := discovery.NewMDNSAdvertiser(a.cfg.AdvertiserConfig())
	if err != nil {
		return nil, nil, err
	}
	m := discovery.NewDiscoveryManager(adv)
	m.OnStateChange(func(old, new discovery.DiscoveryState) {
		fmt.Fprintf(cmd.OutOrStdout(), "State: %s -> %s\n", old, new)
		if a.events != nil {
			a.events.Log(log.Event{
				Timestamp: time.Now(),
				Layer:     log.LayerResolver,
				Category:  log.CategoryState,
				StateChange: &log.StateChangeEvent{
					Entity:   log.StateEntityAdvertiser,
					OldState: old.String(),
					NewState: new.String(),
				},
			})
		}
	})
	return adv, m, nil
}

func runAdvertiseCommissionable(cmd *cobra.Command, args []string) error {
	if advDiscriminator > discovery.MaxDiscriminator {
		return fmt.Errorf("%w: %d", discovery.ErrInvalidDiscriminator, advDiscriminator)
	}
	var rotatingID []byte
	if advRotatingID != "" {
		var err error
		if rotatingID, err = hex.DecodeString(advRotatingID); err != nil {
			return fmt.Errorf("rotating id: %w", err)
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	adv, m, err := newManager(cmd, a)
	if err != nil {
		return err
	}
	defer m.Stop()

	m.SetCommissionableInfo(&discovery.CommissionableInfo{
		InstanceName:       advInstance,
		LongDiscriminator:  advDiscriminator,
		VendorID:           advVendor,
		ProductID:          advProduct,
		DeviceType:         advDeviceType,
		CommissioningMode:  discovery.CommissioningModeBasic,
		DeviceName:         advName,
		PairingHint:        advHint,
		PairingInstruction: advInstruction,
		RotatingID:         rotatingID,
		MRP:                advertisedMRP(),
		SupportsTCP:        advTCP,
		ICD:                advICD,
		Port:               advPort,
	})
	m.SetCommissioningWindow(advWindow)

	ctx := cmd.Context()
	if err := m.EnterCommissioningMode(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Advertising %s.%s on port %d\n",
		adv.CommissionableInstanceName(), discovery.ServiceName(discovery.KindCommissionableNode), advPort)

	<-ctx.Done()
	return nil
}

func runAdvertiseCommissioner(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	adv, m, err := newManager(cmd, a)
	if err != nil {
		return err
	}
	defer m.Stop()

	ctx := cmd.Context()
	err = adv.AdvertiseCommissioner(ctx, &discovery.CommissionerInfo{
		InstanceName: advInstance,
		VendorID:     advVendor,
		ProductID:    advProduct,
		DeviceType:   advDeviceType,
		DeviceName:   advName,
		MRP:          advertisedMRP(),
		SupportsTCP:  advTCP,
		Port:         advPort,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Advertising commissioner on port %d\n", advPort)

	<-ctx.Done()
	return nil
}

func runAdvertiseOperational(cmd *cobra.Command, args []string) error {
	peer, err := commands.ParsePeer(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	_, m, err := newManager(cmd, a)
	if err != nil {
		return err
	}
	defer m.Stop()

	ctx := cmd.Context()
	err = m.AddFabric(ctx, &discovery.OperationalInfo{
		Peer:        peer,
		MRP:         advertisedMRP(),
		SupportsTCP: advTCP,
		ICD:         advICD,
		Port:        advPort,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Advertising %s on port %d\n",
		discovery.InstanceServiceName(peer.InstanceName(), discovery.KindOperational), advPort)

	<-ctx.Done()
	return nil
}
