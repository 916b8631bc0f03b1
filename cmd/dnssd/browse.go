package main

import (
	"context"
	"fmt"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/cmd/dnssd/commands"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/spf13/cobra"
)

var (
	browseTimeout time.Duration
	browseFilter  = commands.FilterOptions{ShortDiscriminator: -1, LongDiscriminator: -1}
)

var browseCmd = &cobra.Command{
	Use:   "browse <commissionable|commissioner|operational>",
	Short: "Browse for nodes",
	Long:  `Browse for commissionable nodes, commissioners or operational nodes and
print each node as it is found.

The first filter flag selects the subtype that is queried; any further
filter flags narrow the printed results.`,
	Example: `  # All commissionable nodes
  dnssd browse commissionable

  # Nodes with discriminator 840 from vendor 0xFFF1
  dnssd browse commissionable --long-discriminator 840 --vendor 65521

  # Operational nodes of one fabric
  dnssd browse operational --fabric 87E1B004E235A130`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	f := browseCmd.Flags()
	f.DurationVar(&browseTimeout, "timeout", 10*time.Second, "Browse for this long")
	f.IntVar(&browseFilter.LongDiscriminator, "long-discriminator", -1, "Long discriminator (0-4095)")
	f.IntVar(&browseFilter.ShortDiscriminator, "short-discriminator", -1, "Short discriminator (0-15)")
	f.Uint16Var(&browseFilter.VendorID, "vendor", 0, "Vendor ID")
	f.Uint16Var(&browseFilter.DeviceType, "device-type", 0, "Device type")
	f.BoolVar(&browseFilter.CommissioningMode, "cm", false, "Only nodes in commissioning mode")
	f.StringVar(&browseFilter.Instance, "instance", "", "Instance name")
	f.StringVar(&browseFilter.CompressedFabricID, "fabric", "", "Compressed fabric ID (hex)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	kind, err := commands.ParseKind(args[0])
	if err != nil {
		return err
	}
	query, local, err := browseFilter.Filters()
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Browsing %s nodes (%s) for %s...\n\n", kind, query, browseTimeout)

	return a.withRunner(cmd.Context(), func(ctx context.Context, rn *resolver.Runner) error {
		ctx, cancel := context.WithTimeout(ctx, browseTimeout)
		defer cancel()

		nodes, err := rn.Browse(ctx, kind, query)
		if err != nil {
			return err
		}
		for _, f := range local {
			nodes = discovery.FilterNodes(nodes, f)
		}

		seen := make(map[string]bool)
		for node := range nodes {
			if seen[node.InstanceName] {
				continue
			}
			seen[node.InstanceName] = true
			commands.PrintDiscovered(out, node, a.cfg.ResolverConfig(nil, nil).LocalMRP)
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Found %d node(s)\n", len(seen))
		return nil
	})
}
