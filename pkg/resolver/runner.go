package resolver

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
)

// Runner errors.
var (
	ErrRunnerStopped = errors.New("runner stopped")
	ErrRunnerRunning = errors.New("runner already running")
)

const (
	// queueSize bounds the work waiting for the runner goroutine.
	queueSize = 64

	// browseBuffer is the channel capacity of one Browse. Nodes that do not
	// fit are dropped.
	browseBuffer = 16
)

type resolveOutcome struct {
	node discovery.ResolvedOperationalNode
	err  error
}

type browseSub struct {
	kind   discovery.Kind
	filter discovery.Filter
	ch     chan discovery.DiscoveredNode
}

// Runner owns a Resolver and runs every call, datagram and timer callback
// on one goroutine.
type Runner struct {
	resolver  *Resolver
	transport Transport
	cache     *Cache
	logger    *slog.Logger

	queue   chan func()
	stopped chan struct{}
	started atomic.Bool

	// Owned by the runner goroutine
	waiters map[discovery.PeerID][]chan resolveOutcome
	browses map[uuid.UUID]*browseSub
}

// NewRunner creates a runner for a resolver listening on t.
func NewRunner(config Config, t Transport, opts ...Option) *Runner {
	rn := &Runner{
		transport: t,
		logger:    config.Logger,
		queue:     make(chan func(), queueSize),
		stopped:   make(chan struct{}),
		waiters:   make(map[discovery.PeerID][]chan resolveOutcome),
		browses:   make(map[uuid.UUID]*browseSub),
	}

	opts = append(slices.Clone(opts), WithDispatch(rn.post))
	rn.resolver = New(config, opts...)
	rn.cache = NewCache(config.CacheSize, config.CacheTTL, rn.resolver.clock)
	rn.resolver.AddDelegate(DelegateFuncs{
		Resolved:         rn.onResolved,
		ResolutionFailed: rn.onResolutionFailed,
		Discovered:       rn.onDiscovered,
	})
	return rn
}

// ID returns the resolver's instance ID.
func (rn *Runner) ID() string {
	return rn.resolver.ID()
}

// Cache returns the resolved node cache.
func (rn *Runner) Cache() *Cache {
	return rn.cache
}

// Run initializes the resolver and serves it until ctx ends. On return the
// resolver is shut down, pending Resolve calls fail with ErrRunnerStopped
// and Browse channels are closed.
func (rn *Runner) Run(ctx context.Context) error {
	if !rn.started.CompareAndSwap(false, true) {
		return ErrRunnerRunning
	}
	defer rn.stop()

	if err := rn.resolver.Init(rn.transport); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-rn.queue:
			fn()
		}
	}
}

func (rn *Runner) stop() {
	// Unblocks receive goroutines before the transport waits for them.
	close(rn.stopped)
	rn.resolver.Shutdown()

	for peer, ws := range rn.waiters {
		for _, w := range ws {
			w <- resolveOutcome{err: ErrRunnerStopped}
		}
		delete(rn.waiters, peer)
	}
	for id, sub := range rn.browses {
		close(sub.ch)
		delete(rn.browses, id)
	}
	rn.debugLog("runner: stopped", "id", rn.resolver.ID())
}

// post queues fn for the runner goroutine. It is dropped once the runner
// has stopped.
func (rn *Runner) post(fn func()) {
	select {
	case rn.queue <- fn:
	case <-rn.stopped:
	}
}

// Do runs fn on the runner goroutine and returns its error.
func (rn *Runner) Do(ctx context.Context, fn func(*Resolver) error) error {
	errc := make(chan error, 1)
	task := func() { errc <- fn(rn.resolver) }

	select {
	case rn.queue <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-rn.stopped:
		return ErrRunnerStopped
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-rn.stopped:
		return ErrRunnerStopped
	}
}

// Resolve resolves peer and waits for the outcome: the node, an error
// wrapping discovery.ErrTimeout, or the context error. A cached node is
// returned without querying.
func (rn *Runner) Resolve(ctx context.Context, peer discovery.PeerID) (discovery.ResolvedOperationalNode, error) {
	if node, ok := rn.cache.Get(peer); ok {
		return node, nil
	}

	ch := make(chan resolveOutcome, 1)
	err := rn.Do(ctx, func(r *Resolver) error {
		if err := r.ResolveNode(peer); err != nil {
			return err
		}
		rn.waiters[peer] = append(rn.waiters[peer], ch)
		return nil
	})
	if err != nil {
		// The task may still run after ctx ended.
		go rn.post(func() { rn.dropWaiter(peer, ch) })
		return discovery.ResolvedOperationalNode{}, err
	}

	select {
	case out := <-ch:
		return out.node, out.err
	case <-ctx.Done():
		go rn.post(func() { rn.dropWaiter(peer, ch) })
		return discovery.ResolvedOperationalNode{}, ctx.Err()
	}
}

func (rn *Runner) dropWaiter(peer discovery.PeerID, ch chan resolveOutcome) {
	ws := rn.waiters[peer]
	i := slices.Index(ws, ch)
	if i < 0 {
		return
	}
	ws = slices.Delete(ws, i, i+1)
	if len(ws) > 0 {
		rn.waiters[peer] = ws
		return
	}
	delete(rn.waiters, peer)
	rn.resolver.CancelResolve(peer)
}

// Browse browses kind and streams the matching nodes until ctx ends, when
// the channel is closed. Browses of the same kind share the resolver's
// browse state; the kind stops when its last Browse ends.
func (rn *Runner) Browse(ctx context.Context, kind discovery.Kind, filter discovery.Filter) (<-chan discovery.DiscoveredNode, error) {
	id := uuid.New()
	sub := &browseSub{
		kind:   kind,
		filter: filter,
		ch:     make(chan discovery.DiscoveredNode, browseBuffer),
	}

	err := rn.Do(ctx, func(r *Resolver) error {
		if err := r.browse(kind, filter); err != nil {
			return err
		}
		rn.browses[id] = sub
		return nil
	})
	if err != nil {
		go rn.post(func() { rn.endBrowse(id) })
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			rn.post(func() { rn.endBrowse(id) })
		case <-rn.stopped:
		}
	}()
	return sub.ch, nil
}

func (rn *Runner) endBrowse(id uuid.UUID) {
	sub, ok := rn.browses[id]
	if !ok {
		return
	}
	delete(rn.browses, id)
	close(sub.ch)

	for _, other := range rn.browses {
		if other.kind == sub.kind {
			return
		}
	}
	rn.resolver.StopDiscovery(sub.kind)
}

func (rn *Runner) onResolved(node discovery.ResolvedOperationalNode) {
	node = rn.cache.Put(node)
	for _, w := range rn.waiters[node.Peer] {
		w <- resolveOutcome{node: node}
	}
	delete(rn.waiters, node.Peer)
}

func (rn *Runner) onResolutionFailed(peer discovery.PeerID, err error) {
	for _, w := range rn.waiters[peer] {
		w <- resolveOutcome{err: err}
	}
	delete(rn.waiters, peer)
}

func (rn *Runner) onDiscovered(node discovery.DiscoveredNode) {
	for _, sub := range rn.browses {
		if sub.kind != node.Kind || !sub.filter.Matches(&node) {
			continue
		}
		select {
		case sub.ch <- node:
		default:
			rn.debugLog("runner: browse channel full, dropping node", "instance", node.InstanceName)
		}
	}
}

// debugLog logs a debug message if a logger is configured.
func (rn *Runner) debugLog(msg string, args ...any) {
	if rn.logger != nil {
		rn.logger.Debug(msg, args...)
	}
}
