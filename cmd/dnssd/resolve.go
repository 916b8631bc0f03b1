package main

import (
	"context"
	"fmt"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/cmd/dnssd/commands"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/spf13/cobra"
)

var resolveTimeout time.Duration

var resolveCmd = &cobra.Command{
	Use:   "resolve <instance> | <fabric-id> <node-id>",
	Short: "Resolve an operational node to its addresses",
	Long:  `Resolve an operational node by compressed fabric ID and node ID.

The node is given either as its instance name or as two hex IDs. The
query is retried with exponential backoff until the node answers or the
retries run out.`,
	Example: `  dnssd resolve 0000000000001234-87E1B004E235A130
  dnssd resolve 87E1B004E235A130 1234 --timeout 10s`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 45*time.Second, "Give up after this long")
}

func runResolve(cmd *cobra.Command, args []string) error {
	peer, err := commands.ParsePeer(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.withRunner(cmd.Context(), func(ctx context.Context, rn *resolver.Runner) error {
		ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()

		start := time.Now()
		node, err := rn.Resolve(ctx, peer)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", peer.InstanceName(), err)
		}
		commands.PrintResolved(cmd.OutOrStdout(), node, a.cfg.ResolverConfig(nil, nil).LocalMRP)
		fmt.Fprintf(cmd.OutOrStdout(), "  Resolved in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	})
}
