package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
)

// FilterOptions are the browse filter flags. Zero values are unset.
type FilterOptions struct {
	ShortDiscriminator int // -1 when unset
	LongDiscriminator  int // -1 when unset
	VendorID           uint16
	DeviceType         uint16
	CommissioningMode  bool
	Commissioner       bool
	Instance           string
	CompressedFabricID string
}

// Filters turns the options into the filter sent on the wire and the
// filters applied to the results. The first set option, in the order of
// the fields, is queried for; the rest only narrow the results.
func (o FilterOptions) Filters() (query discovery.Filter, local []discovery.Filter, err error) {
	var all []discovery.Filter
	if o.Instance != "" {
		if err := discovery.ValidateInstanceName(o.Instance); err != nil {
			return discovery.Filter{}, nil, err
		}
		all = append(all, discovery.InstanceNameFilter(o.Instance))
	}
	if o.CompressedFabricID != "" {
		cfid, err := ParseID(o.CompressedFabricID)
		if err != nil {
			return discovery.Filter{}, nil, fmt.Errorf("fabric: %w", err)
		}
		all = append(all, discovery.CompressedFabricIDFilter(cfid))
	}
	if o.LongDiscriminator >= 0 {
		if o.LongDiscriminator > discovery.MaxDiscriminator {
			return discovery.Filter{}, nil, fmt.Errorf("%w: %d", discovery.ErrInvalidDiscriminator, o.LongDiscriminator)
		}
		all = append(all, discovery.LongDiscriminatorFilter(uint16(o.LongDiscriminator)))
	}
	if o.ShortDiscriminator >= 0 {
		if o.ShortDiscriminator > discovery.MaxShortDiscriminator {
			return discovery.Filter{}, nil, fmt.Errorf("%w: %d", discovery.ErrInvalidDiscriminator, o.ShortDiscriminator)
		}
		all = append(all, discovery.ShortDiscriminatorFilter(uint16(o.ShortDiscriminator)))
	}
	if o.VendorID != 0 {
		all = append(all, discovery.VendorIDFilter(o.VendorID))
	}
	if o.DeviceType != 0 {
		all = append(all, discovery.DeviceTypeFilter(o.DeviceType))
	}
	if o.CommissioningMode {
		all = append(all, discovery.CommissioningModeFilter())
	}
	if o.Commissioner {
		all = append(all, discovery.CommissionerFilter())
	}

	if len(all) == 0 {
		return discovery.NoFilter(), nil, nil
	}
	return all[0], all[1:], nil
}

// ParseKind parses a browse kind name.
func ParseKind(s string) (discovery.Kind, error) {
	switch strings.ToLower(s) {
	case "commissionable", "c":
		return discovery.KindCommissionableNode, nil
	case "commissioner", "commissioners", "d":
		return discovery.KindCommissionerNode, nil
	case "operational", "o":
		return discovery.KindOperational, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be commissionable, commissioner, or operational)", s)
	}
}

// ParseID parses a 64-bit identifier written in hex, with or without 0x.
func ParseID(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	id, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// ParsePeer parses a node either as one instance name
// ("<node>-<fabric>") or as separate fabric and node ids.
func ParsePeer(args []string) (discovery.PeerID, error) {
	switch len(args) {
	case 1:
		return discovery.ParseInstanceName(args[0])
	case 2:
		cfid, err := ParseID(args[0])
		if err != nil {
			return discovery.PeerID{}, err
		}
		node, err := ParseID(args[1])
		if err != nil {
			return discovery.PeerID{}, err
		}
		return discovery.PeerID{CompressedFabricID: cfid, NodeID: node}, nil
	default:
		return discovery.PeerID{}, fmt.Errorf("expected <instance> or <fabric-id> <node-id>, got %d arguments", len(args))
	}
}

// PrintResolved writes a resolved node.
func PrintResolved(w io.Writer, node discovery.ResolvedOperationalNode, local discovery.MRPHints) {
	fmt.Fprintf(w, "%s\n", node.Peer.InstanceName())
	printCommon(w, &node.CommonResolutionData, local)
	if !node.Expiry.IsZero() {
		fmt.Fprintf(w, "  Cached until: %s\n", node.Expiry.Format("15:04:05"))
	}
}

// PrintDiscovered writes a discovered node.
func PrintDiscovered(w io.Writer, node discovery.DiscoveredNode, local discovery.MRPHints) {
	fmt.Fprintf(w, "%s (%s)\n", node.InstanceName, node.Kind)
	if node.Kind != discovery.KindOperational {
		fmt.Fprintf(w, "  Discriminator: %d (short %d)\n", node.LongDiscriminator, node.ShortDiscriminator())
		if node.VendorID != 0 {
			fmt.Fprintf(w, "  Vendor/Product: %d/%d\n", node.VendorID, node.ProductID)
		}
		if node.DeviceType != 0 {
			fmt.Fprintf(w, "  Device type: %d\n", node.DeviceType)
		}
		fmt.Fprintf(w, "  Commissioning mode: %s\n", node.CommissioningMode)
		if node.DeviceName != "" {
			fmt.Fprintf(w, "  Name: %s\n", node.DeviceName)
		}
		if node.PairingHint != 0 {
			fmt.Fprintf(w, "  Pairing hint: 0x%04x", node.PairingHint)
			if node.PairingInstruction != "" {
				fmt.Fprintf(w, " %q", node.PairingInstruction)
			}
			fmt.Fprintln(w)
		}
		if len(node.RotatingID) > 0 {
			fmt.Fprintf(w, "  Rotating ID: %s\n", hex.EncodeToString(node.RotatingID))
		}
	}
	printCommon(w, &node.CommonResolutionData, local)
}

func printCommon(w io.Writer, c *discovery.CommonResolutionData, local discovery.MRPHints) {
	fmt.Fprintf(w, "  Host: %s port %d\n", c.HostName, c.Port)
	for _, a := range c.Addresses.All() {
		fmt.Fprintf(w, "  Address: %s\n", a)
	}
	if c.MRP.IsSet() {
		fmt.Fprintf(w, "  MRP: idle %s active %s", c.MRP.Idle, c.MRP.Active)
		if c.MRP.ActiveThreshold > 0 {
			fmt.Fprintf(w, " threshold %s", c.MRP.ActiveThreshold)
		}
		if c.IsSleepy(local) {
			fmt.Fprint(w, " (sleepy)")
		}
		fmt.Fprintln(w)
	}
	if c.SupportsTCP {
		fmt.Fprintln(w, "  TCP: supported")
	}
	if c.ICD {
		fmt.Fprintln(w, "  ICD: long idle time")
	}
}
