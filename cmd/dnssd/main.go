// Command dnssd resolves, browses and advertises Matter nodes over
// mDNS/DNS-SD.
//
// Usage:
//
//	dnssd <command> [flags]
//
// Commands:
//
//	resolve     Resolve an operational node to its addresses
//	browse      Browse for commissionable nodes, commissioners or operational nodes
//	advertise   Advertise a commissionable, commissioner or operational service
//	shell       Interactive resolver shell
//	log         View and analyze discovery event logs
//
// Examples:
//
//	# Resolve node 0x1234 on fabric 87E1B004E235A130
//	dnssd resolve 87E1B004E235A130 1234
//
//	# Browse for commissionable nodes with discriminator 840 for 5 seconds
//	dnssd browse commissionable --long-discriminator 840 --timeout 5s
//
//	# Record events while resolving, then look at them
//	dnssd resolve 0000000000001234-87E1B004E235A130 --event-log res.dlog
//	dnssd log view --category result res.dlog
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dnssd",
	Short: "Matter mDNS/DNS-SD discovery tool",
	Long:  `Resolve, browse and advertise Matter nodes over mDNS/DNS-SD.

Operational nodes are resolved by compressed fabric ID and node ID.
Commissionable nodes and commissioners are browsed with optional
discriminator, vendor, device type or commissioning mode filters.`,
	SilenceUsage: true,
}

// Global flags
var (
	configPath string
	interfaces []string
	debug      bool
	eventLog   string
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringSliceVarP(&interfaces, "interface", "i", nil, "Network interfaces to use (default: all multicast capable)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&eventLog, "event-log", "", "Record discovery events to a CBOR log file")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(advertiseCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(logCmd)
}
