package resolver

import (
	"fmt"
	"log/slog"
	"net/netip"
	"slices"

	"github.com/google/uuid"
	"github.com/miekg/dns"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/project-chip/connectedhomeip-sub057/pkg/scheduler"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
)

// Resolver sends discovery queries and reports answers to its delegates.
// It is not safe for concurrent use; see Runner.
type Resolver struct {
	config Config
	id     string

	clock    timer.Clock
	timer    timer.Timer
	dispatch func(func())

	scheduler *scheduler.Scheduler
	transport Transport
	listening bool

	// Kinds whose results are delivered to OnNodeDiscovered
	browsing map[discovery.Kind]bool

	delegate Delegate
	extra    []*delegateEntry

	logger *slog.Logger
	events log.Logger
}

// New creates a resolver. It does nothing until Init is called.
func New(config Config, opts ...Option) *Resolver {
	r := &Resolver{
		config:   config,
		browsing: make(map[discovery.Kind]bool),
		logger:   config.Logger,
		events:   config.EventLogger,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.config.QueryPort == 0 {
		r.config.QueryPort = discovery.MDNSPort
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	if r.clock == nil {
		r.clock = timer.SystemClock{}
	}
	if r.dispatch == nil {
		r.dispatch = func(fn func()) { fn() }
	}
	if r.timer == nil {
		r.timer = timer.NewAfterFunc(r.dispatch)
	}
	r.scheduler = scheduler.New(config.Scheduler, r.clock)
	return r
}

// ID returns the resolver's instance ID.
func (r *Resolver) ID() string {
	return r.id
}

// Scheduler returns the attempt scheduler, for inspection.
func (r *Resolver) Scheduler() *scheduler.Scheduler {
	return r.scheduler
}

// Init starts listening on t. Calling Init again while listening is a no-op.
func (r *Resolver) Init(t Transport) error {
	if r.listening {
		return nil
	}
	if t == nil {
		return fmt.Errorf("%w: no transport", discovery.ErrTransport)
	}

	err := t.Listen(func(d transport.Datagram) {
		r.dispatch(func() { r.HandleDatagram(d) })
	})
	if err != nil {
		r.logError(log.LayerTransport, err, "listen")
		return fmt.Errorf("%w: %w", discovery.ErrTransport, err)
	}

	r.transport = t
	r.listening = true
	r.debugLog("resolver: initialized", "id", r.id)
	r.logState(log.StateEntityResolver, "STOPPED", "LISTENING", "")

	// Attempts kept across a Shutdown resume now.
	r.sendDueQueries()
	return nil
}

// Shutdown stops listening and cancels the retry timer. Pending attempts
// are kept and resume on the next Init.
func (r *Resolver) Shutdown() {
	if !r.listening {
		return
	}
	r.timer.Stop()
	if err := r.transport.Close(); err != nil {
		r.debugLog("resolver: close transport failed", "error", err)
	}
	r.transport = nil
	r.listening = false
	r.debugLog("resolver: shut down", "id", r.id, "pending", r.scheduler.Len())
	r.logState(log.StateEntityResolver, "LISTENING", "STOPPED", "")
}

// IsInitialized reports whether the resolver is listening.
func (r *Resolver) IsInitialized() bool {
	return r.listening
}

// SetDelegate replaces the primary delegate. Nil clears it.
func (r *Resolver) SetDelegate(d Delegate) {
	r.delegate = d
}

// AddDelegate registers an additional delegate. The returned function
// removes it again.
func (r *Resolver) AddDelegate(d Delegate) (remove func()) {
	entry := &delegateEntry{Delegate: d}
	r.extra = append(r.extra, entry)
	return func() {
		r.extra = slices.DeleteFunc(r.extra, func(e *delegateEntry) bool {
			return e == entry
		})
	}
}

// ResolveNode starts resolving peer. The outcome is reported to the
// delegates once: resolved, or failed with discovery.ErrTimeout.
func (r *Resolver) ResolveNode(peer discovery.PeerID) error {
	if !r.listening {
		return discovery.ErrNotInitialized
	}
	if err := r.scheduler.MarkPendingResolve(peer); err != nil {
		return err
	}
	r.debugLog("resolver: resolve", "peer", peer)
	r.logEvent(log.Event{
		Layer:       log.LayerResolver,
		Category:    log.CategoryState,
		Instance:    peer.InstanceName(),
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityAttempt, NewState: "PENDING", Reason: "resolve"},
	})
	r.sendDueQueries()
	return nil
}

// CancelResolve drops a pending resolve without reporting it.
func (r *Resolver) CancelResolve(peer discovery.PeerID) {
	if r.scheduler.CancelResolve(peer) {
		r.debugLog("resolver: resolve cancelled", "peer", peer)
		r.scheduleTimer()
	}
}

// FindCommissionableNodes browses for nodes in commissioning mode.
func (r *Resolver) FindCommissionableNodes(filter discovery.Filter) error {
	return r.browse(discovery.KindCommissionableNode, filter)
}

// FindCommissioners browses for commissioners.
func (r *Resolver) FindCommissioners(filter discovery.Filter) error {
	return r.browse(discovery.KindCommissionerNode, filter)
}

// FindOperationalNodes browses for commissioned nodes, typically with a
// compressed fabric ID filter.
func (r *Resolver) FindOperationalNodes(filter discovery.Filter) error {
	return r.browse(discovery.KindOperational, filter)
}

func (r *Resolver) browse(kind discovery.Kind, filter discovery.Filter) error {
	if !r.listening {
		return discovery.ErrNotInitialized
	}
	if err := r.scheduler.MarkPendingBrowse(kind, filter); err != nil {
		return err
	}
	r.browsing[kind] = true
	r.debugLog("resolver: browse", "kind", kind, "filter", filter)
	r.logEvent(log.Event{
		Layer:       log.LayerResolver,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityAttempt, NewState: "PENDING", Reason: fmt.Sprintf("browse %s %s", kind, filter)},
	})
	r.sendDueQueries()
	return nil
}

// StopDiscovery stops browsing kind: no more results of that kind are
// delivered and its pending browses are dropped.
func (r *Resolver) StopDiscovery(kind discovery.Kind) {
	wasBrowsing := r.browsing[kind]
	delete(r.browsing, kind)
	if r.scheduler.CancelBrowse(kind) == 0 && !wasBrowsing {
		return
	}
	r.debugLog("resolver: browse stopped", "kind", kind)
	r.scheduleTimer()
}

// IsBrowsing reports whether results of kind are delivered.
func (r *Resolver) IsBrowsing(kind discovery.Kind) bool {
	return r.browsing[kind]
}

// HandleDatagram reports one received datagram to the delegates.
func (r *Resolver) HandleDatagram(d transport.Datagram) {
	if !r.listening {
		return
	}
	r.logEvent(log.Event{
		Direction:  log.DirectionIn,
		Layer:      log.LayerTransport,
		Category:   log.CategoryMessage,
		RemoteAddr: d.Source.String(),
		Interface:  d.Interface,
		Packet:     log.NewPacketEvent(d.Data),
	})

	newReporter(r, d).report()

	// Completions and follow-up attempts change the schedule.
	r.sendDueQueries()
}

// sendDueQueries sends every due attempt, reports expired resolves and
// re-arms the timer.
func (r *Resolver) sendDueQueries() {
	if !r.listening {
		return
	}
	for {
		a, ok := r.scheduler.NextScheduled()
		if !ok {
			break
		}
		r.sendQuery(a)
	}

	for _, peer := range r.scheduler.TakeExpired() {
		r.debugLog("resolver: resolve timed out", "peer", peer)
		r.logState(log.StateEntityAttempt, "PENDING", "EXPIRED", peer.InstanceName())
		r.notifyResolutionFailed(peer, discovery.ErrTimeout)
	}

	r.scheduleTimer()
}

func (r *Resolver) sendQuery(a scheduler.Attempt) {
	m, packet, err := packQuery(a)
	if err != nil {
		// The attempt stays and expires.
		r.debugLog("resolver: build query failed", "attempt", a, "error", err)
		r.logError(log.LayerRecord, err, a.String())
		return
	}

	q := m.Question[0]
	r.debugLog("resolver: query", "name", q.Name, "type", dns.TypeToString[q.Qtype],
		"unicast", a.UnicastResponse(), "retry", a.RetryCount)
	r.logEvent(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerRecord,
		Category:  log.CategoryMessage,
		Query: &log.QueryEvent{
			Name:    q.Name,
			Type:    dns.TypeToString[q.Qtype],
			Unicast: a.UnicastResponse(),
			Retry:   a.RetryCount,
		},
	})

	if err := r.transport.Send(packet, r.config.QueryPort, netip.Addr{}); err != nil {
		// The attempt stays and is retried on schedule.
		r.debugLog("resolver: send failed", "attempt", a, "error", err)
		r.logError(log.LayerTransport, err, "send "+q.Name)
		return
	}
	r.logEvent(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Packet:    log.NewPacketEvent(packet),
	})
}

func (r *Resolver) scheduleTimer() {
	d, ok := r.scheduler.TimeUntilNextResponse()
	if !ok || !r.listening {
		r.timer.Stop()
		return
	}
	r.timer.Start(d, r.onTimer)
}

func (r *Resolver) onTimer() {
	r.sendDueQueries()
}

// debugLog logs a debug message if a logger is configured.
func (r *Resolver) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// logEvent stamps and records a discovery event if an event logger is configured.
func (r *Resolver) logEvent(e log.Event) {
	if r.events == nil {
		return
	}
	e.Timestamp = r.clock.Now()
	e.ResolverID = r.id
	r.events.Log(e)
}

func (r *Resolver) logState(entity log.StateEntity, from, to, reason string) {
	r.logEvent(log.Event{
		Layer:       log.LayerResolver,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: entity, OldState: from, NewState: to, Reason: reason},
	})
}

func (r *Resolver) logError(layer log.Layer, err error, context string) {
	r.logEvent(log.Event{
		Layer:    layer,
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Layer: layer, Message: err.Error(), Context: context},
	})
}
