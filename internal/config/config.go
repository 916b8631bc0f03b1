// Package config loads the dnssd configuration file.
//
// The file is YAML. Every key is optional; missing keys keep the package
// defaults:
//
//	transport:
//	  interfaces: [eth0]
//	  disable_ipv4: false
//	resolver:
//	  scheduler:
//	    capacity: 8
//	    initial_delay: 1s
//	    max_delay: 16s
//	    max_retries: 4
//	  cache_size: 32
//	  cache_ttl: 2m
//	advertiser:
//	  interface: eth0
//	  ttl: 120s
//	event_log: discovery.dlog
//	debug: true
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/project-chip/connectedhomeip-sub057/pkg/scheduler"
	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for files that parse but cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the content of a configuration file.
type Config struct {
	Transport  Transport  `yaml:"transport"`
	Resolver   Resolver   `yaml:"resolver"`
	Advertiser Advertiser `yaml:"advertiser"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// Transport configures the UDP sockets.
type Transport struct {
	Interfaces  []string `yaml:"interfaces"`
	Port        int      `yaml:"port"`
	DisableIPv4 bool     `yaml:"disable_ipv4"`
	DisableIPv6 bool     `yaml:"disable_ipv6"`
}

// Resolver configures queries, retries and the node cache.
type Resolver struct {
	Scheduler Scheduler     `yaml:"scheduler"`
	QueryPort uint16        `yaml:"query_port"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// Scheduler configures the retry schedule.
type Scheduler struct {
	Capacity     int           `yaml:"capacity"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
	Jitter       float64       `yaml:"jitter"`
	MaxRetries   int           `yaml:"max_retries"`
}

// Advertiser configures service registration.
type Advertiser struct {
	Interface string        `yaml:"interface"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	rc := resolver.DefaultConfig()
	ac := discovery.DefaultAdvertiserConfig()
	return Config{
		Resolver: Resolver{
			Scheduler: Scheduler{
				Capacity:     rc.Scheduler.Capacity,
				InitialDelay: rc.Scheduler.InitialDelay,
				MaxDelay:     rc.Scheduler.MaxDelay,
				Multiplier:   rc.Scheduler.Multiplier,
				Jitter:       rc.Scheduler.Jitter,
				MaxRetries:   rc.Scheduler.MaxRetries,
			},
			QueryPort: rc.QueryPort,
			CacheSize: rc.CacheSize,
			CacheTTL:  rc.CacheTTL,
		},
		Advertiser: Advertiser{
			Interface: ac.Interface,
			TTL:       ac.TTL,
		},
	}
}

// Parse decodes a configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read configuration: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the values a file may have set out of range.
func (c Config) Validate() error {
	if c.Transport.DisableIPv4 && c.Transport.DisableIPv6 {
		return fmt.Errorf("%w: both address families disabled", ErrInvalidConfig)
	}
	if c.Transport.Port < 0 || c.Transport.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Transport.Port)
	}
	s := c.Resolver.Scheduler
	if s.Capacity < 0 || s.MaxRetries < scheduler.NoRetries || s.InitialDelay < 0 || s.MaxDelay < 0 {
		return fmt.Errorf("%w: negative scheduler setting", ErrInvalidConfig)
	}
	if s.Jitter < 0 || s.Jitter > 1 {
		return fmt.Errorf("%w: jitter %v not in [0, 1]", ErrInvalidConfig, s.Jitter)
	}
	if err := c.ResolverConfig(nil, nil).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TransportConfig returns the UDP transport configuration.
func (c Config) TransportConfig(logger *slog.Logger) transport.Config {
	return transport.Config{
		Interfaces:  c.Transport.Interfaces,
		Port:        c.Transport.Port,
		DisableIPv4: c.Transport.DisableIPv4,
		DisableIPv6: c.Transport.DisableIPv6,
		Logger:      logger,
	}
}

// ResolverConfig returns the resolver configuration.
func (c Config) ResolverConfig(logger *slog.Logger, events log.Logger) resolver.Config {
	rc := resolver.DefaultConfig()
	rc.Scheduler = scheduler.Config{
		Capacity:     c.Resolver.Scheduler.Capacity,
		InitialDelay: c.Resolver.Scheduler.InitialDelay,
		MaxDelay:     c.Resolver.Scheduler.MaxDelay,
		Multiplier:   c.Resolver.Scheduler.Multiplier,
		Jitter:       c.Resolver.Scheduler.Jitter,
		MaxRetries:   c.Resolver.Scheduler.MaxRetries,
	}
	rc.QueryPort = c.Resolver.QueryPort
	rc.CacheSize = c.Resolver.CacheSize
	rc.CacheTTL = c.Resolver.CacheTTL
	rc.Logger = logger
	rc.EventLogger = events
	return rc
}

// AdvertiserConfig returns the advertiser configuration.
func (c Config) AdvertiserConfig() discovery.AdvertiserConfig {
	return discovery.AdvertiserConfig{
		Interface: c.Advertiser.Interface,
		TTL:       c.Advertiser.TTL,
	}
}
