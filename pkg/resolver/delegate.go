package resolver

import (
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
)

// Delegate receives resolver results. Methods run on the resolver's goroutine.
type Delegate interface {
	// OnOperationalNodeResolved is called once per completed resolve.
	OnOperationalNodeResolved(node discovery.ResolvedOperationalNode)

	// OnOperationalNodeResolutionFailed is called when a resolve gave up.
	OnOperationalNodeResolutionFailed(peer discovery.PeerID, err error)

	// OnNodeDiscovered is called for each node found while browsing.
	OnNodeDiscovered(node discovery.DiscoveredNode)
}

// DelegateFuncs adapts functions to the Delegate interface. Nil fields are
// skipped.
type DelegateFuncs struct {
	Resolved         func(node discovery.ResolvedOperationalNode)
	ResolutionFailed func(peer discovery.PeerID, err error)
	Discovered       func(node discovery.DiscoveredNode)
}

// OnOperationalNodeResolved calls Resolved.
func (f DelegateFuncs) OnOperationalNodeResolved(node discovery.ResolvedOperationalNode) {
	if f.Resolved != nil {
		f.Resolved(node)
	}
}

// OnOperationalNodeResolutionFailed calls ResolutionFailed.
func (f DelegateFuncs) OnOperationalNodeResolutionFailed(peer discovery.PeerID, err error) {
	if f.ResolutionFailed != nil {
		f.ResolutionFailed(peer, err)
	}
}

// OnNodeDiscovered calls Discovered.
func (f DelegateFuncs) OnNodeDiscovered(node discovery.DiscoveredNode) {
	if f.Discovered != nil {
		f.Discovered(node)
	}
}

var _ Delegate = DelegateFuncs{}

// delegateEntry wraps an added delegate so it can be removed by identity.
type delegateEntry struct {
	Delegate
}

// delegates returns the primary delegate followed by the added ones.
func (r *Resolver) delegates() []Delegate {
	out := make([]Delegate, 0, len(r.extra)+1)
	if r.delegate != nil {
		out = append(out, r.delegate)
	}
	for _, e := range r.extra {
		out = append(out, e.Delegate)
	}
	return out
}

func (r *Resolver) notifyResolved(node discovery.ResolvedOperationalNode) {
	for _, d := range r.delegates() {
		d.OnOperationalNodeResolved(node)
	}
}

func (r *Resolver) notifyResolutionFailed(peer discovery.PeerID, err error) {
	for _, d := range r.delegates() {
		d.OnOperationalNodeResolutionFailed(peer, err)
	}
}

func (r *Resolver) notifyDiscovered(node discovery.DiscoveredNode) {
	for _, d := range r.delegates() {
		d.OnNodeDiscovered(node)
	}
}
