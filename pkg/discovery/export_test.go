package discovery

import (
	"slices"
	"sync"
	"time"
)

// Registered describes one service registration captured in tests.
type Registered struct {
	Instance string
	Service  string
	Port     int
	Text     []string
	TTL      uint32
	Stopped  bool
}

func (r *Registered) SetText(text []string) {
	r.Text = slices.Clone(text)
}

func (r *Registered) Shutdown() {
	r.Stopped = true
}

// CapturingRegistrar records registrations instead of binding sockets.
type CapturingRegistrar struct {
	mu       sync.Mutex
	Services []*Registered
	Err      error
}

func (c *CapturingRegistrar) register(r registration) (serviceHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	svc := &Registered{
		Instance: r.instance,
		Service:  r.service,
		Port:     r.port,
		Text:     slices.Clone(r.text),
		TTL:      r.ttl,
	}
	c.Services = append(c.Services, svc)
	return svc, nil
}

// NewCapturingAdvertiser returns an advertiser whose registrations are captured.
func NewCapturingAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, *CapturingRegistrar) {
	reg := &CapturingRegistrar{}
	return newMDNSAdvertiser(config, reg.register), reg
}

// SetCommissioningWindowUnclamped sets the window without range checks.
func SetCommissioningWindowUnclamped(m *DiscoveryManager, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = d
}
