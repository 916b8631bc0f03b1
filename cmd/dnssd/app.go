package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/project-chip/connectedhomeip-sub057/internal/config"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app holds what the network commands share: the effective configuration,
// the debug logger and the event log.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	events log.Logger
	file   *log.FileLogger
}

// newApp loads the configuration file, if any, and layers the global
// flags over it.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Transport.Interfaces = interfaces
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("event-log") {
		cfg.EventLog = eventLog
	}

	a := &app{cfg: cfg}
	if cfg.Debug {
		a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var loggers []log.Logger
	if cfg.EventLog != "" {
		f, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		a.file = f
		loggers = append(loggers, f)
	}
	if a.logger != nil {
		loggers = append(loggers, log.NewSlogAdapter(a.logger))
	}
	switch len(loggers) {
	case 0:
	case 1:
		a.events = loggers[0]
	default:
		a.events = log.NewMultiLogger(loggers...)
	}
	return a, nil
}

func (a *app) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func (a *app) resolverConfig() resolver.Config {
	return a.cfg.ResolverConfig(a.logger, a.events)
}

// withRunner opens the transport, serves a runner and calls fn with it.
// The runner stops when fn returns.
func (a *app) withRunner(ctx context.Context, fn func(ctx context.Context, rn *resolver.Runner) error) error {
	udp, err := transport.NewUDP(a.cfg.TransportConfig(a.logger))
	if err != nil {
		return err
	}
	rn := resolver.NewRunner(a.resolverConfig(), udp)

	g, ctx := errgroup.WithContext(ctx)
	runCtx, stopRunner := context.WithCancel(ctx)
	defer stopRunner()

	g.Go(func() error {
		if err := rn.Run(runCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stopRunner()
		return fn(ctx, rn)
	})
	return g.Wait()
}
