package main

import (
	"fmt"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/cmd/dnssd/commands"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/spf13/cobra"
)

// log view flags
var (
	viewLayer     string
	viewDirection string
	viewCategory  string
	viewResolver  string
	viewInstance  string
	viewSince     string
	viewUntil     string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and analyze discovery event logs",
}

var logViewCmd = &cobra.Command{
	Use:     "view <file.dlog>",
	Short:   "View a log file in human-readable format",
	Example: `  dnssd log view res.dlog
  dnssd log view --layer record --direction out res.dlog
  dnssd log view --instance 0000000000001234-87E1B004E235A130 res.dlog`,
	Args: cobra.ExactArgs(1),
	RunE: runLogView,
}

var logStatsCmd = &cobra.Command{
	Use:   "stats <file.dlog>",
	Short: "Show statistics about a log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.RunStats(args[0], cmd.OutOrStdout())
	},
}

func init() {
	f := logViewCmd.Flags()
	f.StringVar(&viewLayer, "layer", "", "Filter by layer (transport, record, resolver)")
	f.StringVar(&viewDirection, "direction", "", "Filter by direction (in, out)")
	f.StringVar(&viewCategory, "category", "", "Filter by category (message, result, state, error)")
	f.StringVar(&viewResolver, "resolver-id", "", "Filter by resolver ID")
	f.StringVar(&viewInstance, "instance", "", "Filter by instance name")
	f.StringVar(&viewSince, "since", "", "Only events at or after this time (RFC3339)")
	f.StringVar(&viewUntil, "until", "", "Only events before this time (RFC3339)")

	logCmd.AddCommand(logViewCmd)
	logCmd.AddCommand(logStatsCmd)
}

func runLogView(cmd *cobra.Command, args []string) error {
	filter := log.Filter{
		ResolverID: viewResolver,
		Instance:   viewInstance,
	}

	if viewLayer != "" {
		l, err := commands.ParseLayer(viewLayer)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if viewDirection != "" {
		d, err := commands.ParseDirection(viewDirection)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if viewCategory != "" {
		c, err := commands.ParseCategory(viewCategory)
		if err != nil {
			return err
		}
		filter.Category = &c
	}
	if viewSince != "" {
		t, err := time.Parse(time.RFC3339, viewSince)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
		filter.TimeStart = &t
	}
	if viewUntil != "" {
		t, err := time.Parse(time.RFC3339, viewUntil)
		if err != nil {
			return fmt.Errorf("invalid --until: %w", err)
		}
		filter.TimeEnd = &t
	}

	return commands.RunView(args[0], filter, cmd.OutOrStdout())
}
