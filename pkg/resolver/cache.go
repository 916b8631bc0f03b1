package resolver

import (
	"slices"
	"sync"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
)

// Cache holds recently resolved nodes. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	clock    timer.Clock

	nodes map[discovery.PeerID]discovery.ResolvedOperationalNode
	// Insertion order, oldest first
	order []discovery.PeerID
}

// NewCache creates a cache of at most capacity nodes that keeps each node
// for ttl. A nil clock uses the system clock.
func NewCache(capacity int, ttl time.Duration, clock timer.Clock) *Cache {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		clock:    clock,
		nodes:    make(map[discovery.PeerID]discovery.ResolvedOperationalNode),
	}
}

// Put stores node with its expiry set and returns the stored copy.
// The oldest node is evicted when the cache is full.
func (c *Cache) Put(node discovery.ResolvedOperationalNode) discovery.ResolvedOperationalNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	node.Expiry = c.clock.Now().Add(c.ttl)
	if c.capacity <= 0 {
		return node
	}

	if _, exists := c.nodes[node.Peer]; exists {
		c.removeOrder(node.Peer)
	} else if len(c.nodes) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.nodes, oldest)
	}
	c.nodes[node.Peer] = node
	c.order = append(c.order, node.Peer)
	return node
}

// Get returns the cached node for peer if it has not expired.
func (c *Cache) Get(peer discovery.PeerID) (discovery.ResolvedOperationalNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.nodes[peer]
	if !ok {
		return discovery.ResolvedOperationalNode{}, false
	}
	if !c.clock.Now().Before(node.Expiry) {
		delete(c.nodes, peer)
		c.removeOrder(peer)
		return discovery.ResolvedOperationalNode{}, false
	}
	return node, true
}

// Remove forgets peer.
func (c *Cache) Remove(peer discovery.PeerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.nodes[peer]; ok {
		delete(c.nodes, peer)
		c.removeOrder(peer)
	}
}

// Len returns the number of stored nodes, including expired ones not yet
// looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

func (c *Cache) removeOrder(peer discovery.PeerID) {
	if i := slices.Index(c.order, peer); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}
