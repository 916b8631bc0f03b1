package resolver_test

import (
	"testing"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedNode(nodeID uint64) discovery.ResolvedOperationalNode {
	return discovery.ResolvedOperationalNode{
		Peer:                 discovery.PeerID{CompressedFabricID: 1, NodeID: nodeID},
		CommonResolutionData: discovery.CommonResolutionData{Port: 5540},
	}
}

func TestCacheExpiry(t *testing.T) {
	clock := timer.NewManual(start)
	c := resolver.NewCache(4, time.Minute, clock)

	stored := c.Put(cachedNode(1))
	assert.Equal(t, start.Add(time.Minute), stored.Expiry)

	got, ok := c.Get(stored.Peer)
	require.True(t, ok)
	assert.Equal(t, stored, got)

	clock.Advance(time.Minute)
	_, ok = c.Get(stored.Peer)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheEvictsOldest(t *testing.T) {
	c := resolver.NewCache(2, time.Minute, timer.NewManual(start))

	c.Put(cachedNode(1))
	c.Put(cachedNode(2))
	// Refreshing node 1 makes node 2 the oldest.
	c.Put(cachedNode(1))
	c.Put(cachedNode(3))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(cachedNode(2).Peer)
	assert.False(t, ok)
	_, ok = c.Get(cachedNode(1).Peer)
	assert.True(t, ok)
	_, ok = c.Get(cachedNode(3).Peer)
	assert.True(t, ok)
}

func TestCacheRemove(t *testing.T) {
	c := resolver.NewCache(2, time.Minute, timer.NewManual(start))
	c.Put(cachedNode(1))

	c.Remove(cachedNode(1).Peer)
	c.Remove(cachedNode(9).Peer)

	assert.Equal(t, 0, c.Len())
}

func TestCacheDisabled(t *testing.T) {
	c := resolver.NewCache(0, time.Minute, timer.NewManual(start))

	stored := c.Put(cachedNode(1))
	assert.False(t, stored.Expiry.IsZero())
	_, ok := c.Get(stored.Peer)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
