package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/project-chip/connectedhomeip-sub057/cmd/dnssd/commands"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive resolver shell",
	Long:  `Start a resolver and accept commands interactively. Results of
browses are printed as they arrive.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dnssd> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	return a.withRunner(cmd.Context(), func(ctx context.Context, rn *resolver.Runner) error {
		s := &shell{app: a, rn: rn, rl: rl, out: rl.Stdout()}
		return s.run(ctx)
	})
}

// shell is the interactive command loop.
type shell struct {
	app *app
	rn  *resolver.Runner
	rl  *readline.Instance
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	local := s.app.resolverConfig().LocalMRP
	err := s.rn.Do(ctx, func(r *resolver.Resolver) error {
		r.AddDelegate(resolver.DelegateFuncs{
			Discovered: func(node discovery.DiscoveredNode) {
				fmt.Fprintln(s.out)
				commands.PrintDiscovered(s.out, node, local)
			},
			ResolutionFailed: func(peer discovery.PeerID, err error) {
				fmt.Fprintf(s.out, "\n%s: %v\n", peer.InstanceName(), err)
			},
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.printHelp()
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "resolve", "r":
			s.cmdResolve(ctx, args)
		case "browse", "b":
			s.cmdBrowse(ctx, args)
		case "stop":
			s.cmdStop(ctx, args)
		case "pending", "p":
			s.cmdPending(ctx)
		case "cache":
			s.cmdCache(args)
		case "quit", "exit", "q":
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
Commands:
  resolve <instance> | <fabric-id> <node-id>
                          - Resolve an operational node (in the background)
  browse <kind> [filter]  - Start browsing; kind is commissionable, commissioner
                            or operational; filter is L<n>, S<n>, V<n>, T<n>, CM,
                            I<fabric-id> or an instance name
  stop <kind>             - Stop browsing a kind
  pending                 - List pending queries
  cache [clear <node>]    - Show cached nodes, or forget one
  quit                    - Exit`)
}

func (s *shell) cmdResolve(ctx context.Context, args []string) {
	peer, err := commands.ParsePeer(args)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	local := s.app.resolverConfig().LocalMRP
	go func() {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		node, err := s.rn.Resolve(ctx, peer)
		if err != nil {
			// Failures are printed by the delegate.
			if !errors.Is(err, discovery.ErrTimeout) {
				fmt.Fprintf(s.out, "\n%s: %v\n", peer.InstanceName(), err)
			}
			return
		}
		fmt.Fprintln(s.out)
		commands.PrintResolved(s.out, node, local)
	}()
}

// parseShellFilter parses the compact filter syntax of the browse command.
func parseShellFilter(s string) (discovery.Filter, error) {
	if s == "" {
		return discovery.NoFilter(), nil
	}
	if strings.EqualFold(s, "CM") {
		return discovery.CommissioningModeFilter(), nil
	}

	opts := commands.FilterOptions{ShortDiscriminator: -1, LongDiscriminator: -1}
	var n int
	var err error
	switch s[0] {
	case 'L', 'l':
		_, err = fmt.Sscanf(s[1:], "%d", &n)
		opts.LongDiscriminator = n
	case 'S', 's':
		_, err = fmt.Sscanf(s[1:], "%d", &n)
		opts.ShortDiscriminator = n
	case 'V', 'v':
		_, err = fmt.Sscanf(s[1:], "%d", &opts.VendorID)
	case 'T', 't':
		_, err = fmt.Sscanf(s[1:], "%d", &opts.DeviceType)
	case 'I', 'i':
		opts.CompressedFabricID = s[1:]
	default:
		opts.Instance = s
	}
	if err != nil {
		return discovery.Filter{}, fmt.Errorf("invalid filter %q: %w", s, err)
	}
	f, _, err := opts.Filters()
	return f, err
}

func (s *shell) cmdBrowse(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: browse <kind> [filter]")
		return
	}
	kind, err := commands.ParseKind(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	var spec string
	if len(args) == 2 {
		spec = args[1]
	}
	filter, err := parseShellFilter(spec)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	err = s.rn.Do(ctx, func(r *resolver.Resolver) error {
		switch kind {
		case discovery.KindCommissionableNode:
			return r.FindCommissionableNodes(filter)
		case discovery.KindCommissionerNode:
			return r.FindCommissioners(filter)
		default:
			return r.FindOperationalNodes(filter)
		}
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Browsing %s (%s)\n", kind, filter)
}

func (s *shell) cmdStop(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: stop <kind>")
		return
	}
	kind, err := commands.ParseKind(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	err = s.rn.Do(ctx, func(r *resolver.Resolver) error {
		r.StopDiscovery(kind)
		return nil
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *shell) cmdPending(ctx context.Context) {
	err := s.rn.Do(ctx, func(r *resolver.Resolver) error {
		pending := r.Scheduler().Pending()
		if len(pending) == 0 {
			fmt.Fprintln(s.out, "No pending queries")
			return nil
		}
		for _, a := range pending {
			fmt.Fprintf(s.out, "  %s  retries=%d next=%s\n", a, a.RetryCount, a.NextSendAt.Format("15:04:05.000"))
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *shell) cmdCache(args []string) {
	cache := s.rn.Cache()
	if len(args) >= 2 && args[0] == "clear" {
		peer, err := commands.ParsePeer(args[1:])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		cache.Remove(peer)
		return
	}
	fmt.Fprintf(s.out, "%d cached node(s)\n", cache.Len())
}
