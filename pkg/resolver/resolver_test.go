package resolver_test

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver/mocks"
	"github.com/project-chip/connectedhomeip-sub057/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveEndToEnd(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())

	require.NoError(t, h.resolver.ResolveNode(testPeer))

	require.Len(t, h.sent, 1)
	q := h.lastQuestion()
	assert.Equal(t, testOwner+".", q.Name)
	assert.Equal(t, dns.TypeSRV, q.Qtype)
	assert.Equal(t, uint16(dns.ClassINET|0x8000), q.Qclass)

	packet := response(t,
		srvRR(testOwner, testHost, 5540),
		txtRR(testOwner, "SII=5000", "SAI=300", "T=6"),
		aaaaRR(testHost, "fd00::1"),
	)
	h.receive(packet)

	require.Len(t, h.resolved, 1)
	node := h.resolved[0]
	assert.Equal(t, testPeer, node.Peer)
	assert.Equal(t, uint16(5540), node.Port)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("fd00::1")}, node.Addresses.IPs())
	assert.Equal(t, "ABCDEF0123456789", node.HostName)
	assert.Equal(t, testInterface, node.Interface)
	assert.Equal(t, 5*time.Second, node.MRP.Idle)
	assert.Equal(t, 300*time.Millisecond, node.MRP.Active)
	assert.True(t, node.SupportsTCP)
	assert.True(t, node.Expiry.IsZero())
	assert.Equal(t, 0, h.resolver.Scheduler().Len())

	// The same answer again is a late duplicate.
	h.receive(packet)
	assert.Len(t, h.resolved, 1)
	assert.Empty(t, h.failed)
}

func TestResolveNodeIDFirstInstanceName(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	peer := discovery.PeerID{CompressedFabricID: 2, NodeID: 1}
	owner := "0000000000000001-0000000000000002._matter._tcp.local"

	require.NoError(t, h.resolver.ResolveNode(peer))
	assert.Equal(t, owner+".", h.lastQuestion().Name)

	h.receive(response(t,
		srvRR(owner, "devA.local", 5540),
		aaaaRR("devA.local", "fd00::1"),
	))

	require.Len(t, h.resolved, 1)
	node := h.resolved[0]
	assert.Equal(t, peer, node.Peer)
	assert.Equal(t, "devA", node.HostName)
	assert.Equal(t, uint16(5540), node.Port)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("fd00::1")}, node.Addresses.IPs())
	assert.Empty(t, h.failed)
}

func TestAddressOnlyDatagramNeverDelivers(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.receive(response(t,
		aaaaRR(testHost, "fd00::1"),
		aRR(testHost, "192.168.1.10"),
	))

	assert.Empty(t, h.resolved)
	assert.True(t, h.resolver.Scheduler().HasResolve(testPeer))
}

func TestSRVWithoutAddressDoesNotComplete(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.receive(response(t,
		srvRR(testOwner, testHost, 5540),
		aaaaRR("other.local", "fd00::2"),
	))

	assert.Empty(t, h.resolved)
	assert.True(t, h.resolver.Scheduler().HasResolve(testPeer))
}

func TestUnsolicitedOperationalAnswerIgnored(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())

	h.receive(response(t,
		srvRR(testOwner, testHost, 5540),
		aaaaRR(testHost, "fd00::1"),
	))

	assert.Empty(t, h.resolved)
	assert.Empty(t, h.discovered)
}

func TestResolveTimesOutAfterRetries(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.clock.Advance(30 * time.Second)
	require.Len(t, h.sent, 1+scheduler.MaxRetries)
	assert.Empty(t, h.failed)

	for i, m := range h.sent {
		unicast := m.Question[0].Qclass&0x8000 != 0
		assert.Equal(t, i == 0, unicast, "send %d", i)
	}

	h.clock.Advance(time.Second)
	require.Len(t, h.failed, 1)
	assert.Equal(t, testPeer, h.failed[0].peer)
	assert.ErrorIs(t, h.failed[0].err, discovery.ErrTimeout)
	assert.Equal(t, 0, h.resolver.Scheduler().Len())

	// Nothing left to do, so the timer stays idle.
	h.clock.Advance(time.Minute)
	assert.Len(t, h.failed, 1)
	assert.Len(t, h.sent, 1+scheduler.MaxRetries)
	_, armed := h.clock.Armed()
	assert.False(t, armed)
}

func TestAddressCap(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	answers := []dns.RR{srvRR(testOwner, testHost, 5540)}
	for i := range discovery.MaxAddresses + 3 {
		answers = append(answers, aaaaRR(testHost, fmt.Sprintf("fd00::%d", i+1)))
	}
	h.receive(response(t, answers...))

	require.Len(t, h.resolved, 1)
	assert.Equal(t, discovery.MaxAddresses, h.resolved[0].Addresses.Len())
}

func TestAddressesSortedByPreference(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.receive(response(t,
		srvRR(testOwner, testHost, 5540),
		aRR(testHost, "192.168.1.10"),
		aaaaRR(testHost, "fe80::1"),
		aaaaRR(testHost, "fd00::1"),
	))

	require.Len(t, h.resolved, 1)
	assert.Equal(t, []netip.Addr{
		netip.MustParseAddr("fd00::1"),
		netip.MustParseAddr("192.168.1.10"),
		netip.MustParseAddr("fe80::1"),
	}, h.resolved[0].Addresses.IPs())
}

func TestInitIsIdempotent(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())

	// Listen is expected once; a second Init must not call it again.
	require.NoError(t, h.resolver.Init(h.transport))
	assert.True(t, h.resolver.IsInitialized())
}

func TestInitListenFailure(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Listen(mock.Anything).Return(errors.New("bind failed")).Once()

	r := resolver.New(resolver.DefaultConfig())
	err := r.Init(tr)
	assert.ErrorIs(t, err, discovery.ErrTransport)
	assert.False(t, r.IsInitialized())
}

func TestNotInitialized(t *testing.T) {
	r := resolver.New(resolver.DefaultConfig())

	assert.ErrorIs(t, r.ResolveNode(testPeer), discovery.ErrNotInitialized)
	assert.ErrorIs(t, r.FindCommissionableNodes(discovery.NoFilter()), discovery.ErrNotInitialized)
	assert.ErrorIs(t, r.FindCommissioners(discovery.NoFilter()), discovery.ErrNotInitialized)
	assert.ErrorIs(t, r.FindOperationalNodes(discovery.NoFilter()), discovery.ErrNotInitialized)
	assert.ErrorIs(t, r.Init(nil), discovery.ErrTransport)
}

func TestShutdownKeepsAttempts(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	h.transport.EXPECT().Close().Return(nil).Once()
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.resolver.Shutdown()
	assert.False(t, h.resolver.IsInitialized())
	assert.True(t, h.resolver.Scheduler().HasResolve(testPeer))
	_, armed := h.clock.Armed()
	assert.False(t, armed)

	// Datagrams still in flight are ignored.
	h.receive(response(t,
		srvRR(testOwner, testHost, 5540),
		aaaaRR(testHost, "fd00::1"),
	))
	assert.Empty(t, h.resolved)
	assert.ErrorIs(t, h.resolver.ResolveNode(testPeer), discovery.ErrNotInitialized)
}

func TestSendFailureKeepsAttempt(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	h.sendErr = errors.New("network unreachable")

	require.NoError(t, h.resolver.ResolveNode(testPeer))
	assert.True(t, h.resolver.Scheduler().HasResolve(testPeer))

	h.sendErr = nil
	h.clock.Advance(time.Second)
	assert.Len(t, h.sent, 2)
}

func TestCancelResolve(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	h.resolver.CancelResolve(testPeer)
	assert.Equal(t, 0, h.resolver.Scheduler().Len())

	h.clock.Advance(time.Minute)
	assert.Len(t, h.sent, 1)
	assert.Empty(t, h.failed)
}

func TestCapacityExhausted(t *testing.T) {
	cfg := resolver.DefaultConfig()
	cfg.Scheduler.Capacity = 1
	h := newHarness(t, cfg)

	require.NoError(t, h.resolver.ResolveNode(testPeer))
	err := h.resolver.ResolveNode(discovery.PeerID{CompressedFabricID: 1, NodeID: 3})
	assert.ErrorIs(t, err, discovery.ErrResourceExhausted)
}

func TestQueries(t *testing.T) {
	tests := []struct {
		name      string
		find      func(*resolver.Resolver) error
		wantName  string
		wantQtype uint16
	}{
		{
			name:      "commissionable",
			find:      func(r *resolver.Resolver) error { return r.FindCommissionableNodes(discovery.NoFilter()) },
			wantName:  "_matterc._udp.local.",
			wantQtype: dns.TypePTR,
		},
		{
			name:      "long discriminator",
			find:      func(r *resolver.Resolver) error { return r.FindCommissionableNodes(discovery.LongDiscriminatorFilter(840)) },
			wantName:  "_L840._sub._matterc._udp.local.",
			wantQtype: dns.TypePTR,
		},
		{
			name:      "commissioning mode",
			find:      func(r *resolver.Resolver) error { return r.FindCommissionableNodes(discovery.CommissioningModeFilter()) },
			wantName:  "_CM._sub._matterc._udp.local.",
			wantQtype: dns.TypePTR,
		},
		{
			name:      "commissioner by vendor",
			find:      func(r *resolver.Resolver) error { return r.FindCommissioners(discovery.VendorIDFilter(65521)) },
			wantName:  "_V65521._sub._matterd._udp.local.",
			wantQtype: dns.TypePTR,
		},
		{
			name:      "operational by fabric",
			find:      func(r *resolver.Resolver) error { return r.FindOperationalNodes(discovery.CompressedFabricIDFilter(1)) },
			wantName:  "_I0000000000000001._sub._matter._tcp.local.",
			wantQtype: dns.TypePTR,
		},
		{
			name:      "instance name",
			find:      func(r *resolver.Resolver) error { return r.FindCommissionableNodes(discovery.InstanceNameFilter("1122334455667788")) },
			wantName:  "1122334455667788._matterc._udp.local.",
			wantQtype: dns.TypeANY,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, resolver.DefaultConfig())
			require.NoError(t, tt.find(h.resolver))

			q := h.lastQuestion()
			assert.Equal(t, tt.wantName, q.Name)
			assert.Equal(t, tt.wantQtype, q.Qtype)
			assert.NotZero(t, q.Qclass&0x8000)
		})
	}
}

func TestQueryNameTooLongIsNotSent(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())

	long := strings.Repeat("a", 70)
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.InstanceNameFilter(long)))

	assert.Empty(t, h.sent)
	assert.Equal(t, 1, h.resolver.Scheduler().Len())
}

func TestBrowseCollapse(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	filter := discovery.LongDiscriminatorFilter(840)

	require.NoError(t, h.resolver.FindCommissionableNodes(filter))
	require.NoError(t, h.resolver.FindCommissionableNodes(filter))

	assert.Equal(t, 1, h.resolver.Scheduler().Len())
}

func commissionableResponse(t *testing.T, instance string, extra ...string) []byte {
	t.Helper()
	owner := instance + "._matterc._udp.local"
	txt := append([]string{"D=840", "VP=65521+32769", "CM=1", "DN=Kitchen Light"}, extra...)
	return response(t,
		ptrRR("_matterc._udp.local", owner),
		srvRR(owner, "host-1.local", 5540),
		txtRR(owner, txt...),
		aRR("host-1.local", "192.168.1.20"),
		aaaaRR("host-1.local", "fe80::20"),
	)
}

func TestBrowseDeliversCommissionableNode(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.LongDiscriminatorFilter(840)))

	h.receive(commissionableResponse(t, "1122334455667788"))

	require.Len(t, h.discovered, 1)
	node := h.discovered[0]
	assert.Equal(t, discovery.KindCommissionableNode, node.Kind)
	assert.Equal(t, "1122334455667788", node.InstanceName)
	assert.Equal(t, uint16(840), node.LongDiscriminator)
	assert.Equal(t, uint16(65521), node.VendorID)
	assert.Equal(t, uint16(32769), node.ProductID)
	assert.Equal(t, discovery.CommissioningModeBasic, node.CommissioningMode)
	assert.Equal(t, "Kitchen Light", node.DeviceName)
	assert.Equal(t, uint16(5540), node.Port)
	assert.Equal(t, "host-1", node.HostName)
	assert.Equal(t, []netip.Addr{
		netip.MustParseAddr("192.168.1.20"),
		netip.MustParseAddr("fe80::20"),
	}, node.Addresses.IPs())

	// The matching browse completed; browsing itself continues.
	assert.Equal(t, 0, h.resolver.Scheduler().Len())
	assert.True(t, h.resolver.IsBrowsing(discovery.KindCommissionableNode))

	h.receive(commissionableResponse(t, "8877665544332211"))
	assert.Len(t, h.discovered, 2)
}

func TestBrowseNonMatchingNodeKeepsAttempt(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.LongDiscriminatorFilter(1000)))

	h.receive(commissionableResponse(t, "1122334455667788"))

	// Delivered because the kind is browsed, but the filtered attempt stays.
	assert.Len(t, h.discovered, 1)
	assert.Equal(t, 1, h.resolver.Scheduler().Len())
}

func TestInvalidTXTValueLeavesFieldUnset(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.NoFilter()))

	h.receive(commissionableResponse(t, "1122334455667788", "PI="+strings.Repeat("x", 200)))

	require.Len(t, h.discovered, 1)
	assert.Empty(t, h.discovered[0].PairingInstruction)
	assert.Equal(t, uint16(840), h.discovered[0].LongDiscriminator)
}

func TestStopDiscovery(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.NoFilter()))
	require.NoError(t, h.resolver.FindCommissioners(discovery.NoFilter()))

	h.resolver.StopDiscovery(discovery.KindCommissionableNode)
	assert.False(t, h.resolver.IsBrowsing(discovery.KindCommissionableNode))
	assert.True(t, h.resolver.IsBrowsing(discovery.KindCommissionerNode))
	assert.Equal(t, 1, h.resolver.Scheduler().Len())

	h.receive(commissionableResponse(t, "1122334455667788"))
	assert.Empty(t, h.discovered)
}

func TestCommissionerNotDeliveredToCommissionableBrowse(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.NoFilter()))

	owner := "CAFE._matterd._udp.local"
	h.receive(response(t,
		srvRR(owner, "host-2.local", 5550),
		aaaaRR("host-2.local", "fd00::2"),
	))

	assert.Empty(t, h.discovered)
}

func TestOperationalBrowse(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindOperationalNodes(discovery.CompressedFabricIDFilter(testPeer.CompressedFabricID)))

	h.receive(response(t,
		srvRR(testOwner, testHost, 5540),
		txtRR(testOwner, "ICD=1"),
		aaaaRR(testHost, "fd00::1"),
	))

	require.Len(t, h.discovered, 1)
	node := h.discovered[0]
	assert.Equal(t, discovery.KindOperational, node.Kind)
	assert.Equal(t, "0000000000000001-0000000000000002", node.InstanceName)
	assert.True(t, node.ICD)
	assert.Empty(t, h.resolved)
	assert.Equal(t, 0, h.resolver.Scheduler().Len())
}

func TestPTROnlyTriggersFollowUp(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.FindCommissionableNodes(discovery.NoFilter()))
	require.Len(t, h.sent, 1)

	h.receive(response(t, ptrRR("_matterc._udp.local", "1122334455667788._matterc._udp.local")))

	assert.Empty(t, h.discovered)
	require.Len(t, h.sent, 2)
	q := h.lastQuestion()
	assert.Equal(t, "1122334455667788._matterc._udp.local.", q.Name)
	assert.Equal(t, dns.TypeANY, q.Qtype)

	// A repeated PTR does not restart the follow-up.
	h.receive(response(t, ptrRR("_matterc._udp.local", "1122334455667788._matterc._udp.local")))
	assert.Len(t, h.sent, 2)

	h.receive(commissionableResponse(t, "1122334455667788"))
	require.Len(t, h.discovered, 1)
	assert.Equal(t, 0, h.resolver.Scheduler().Len())
}

func TestNonResponseIgnored(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	m := new(dns.Msg)
	m.Answer = []dns.RR{srvRR(testOwner, testHost, 5540), aaaaRR(testHost, "fd00::1")}
	packet, err := m.Pack()
	require.NoError(t, err)
	h.receive(packet)

	assert.Empty(t, h.resolved)
}

func TestMalformedDatagrams(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())
	require.NoError(t, h.resolver.ResolveNode(testPeer))

	good := response(t, srvRR(testOwner, testHost, 5540), aaaaRR(testHost, "fd00::1"))
	inputs := [][]byte{
		nil,
		{0x00},
		good[:12],
		good[:len(good)-3],
		append(append([]byte{}, good[:12]...), 0xC0, 0x0C),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { h.receive(in) })
	}
	assert.Empty(t, h.resolved)
}

func TestAddDelegate(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig())

	var extra []discovery.ResolvedOperationalNode
	remove := h.resolver.AddDelegate(resolver.DelegateFuncs{
		Resolved: func(node discovery.ResolvedOperationalNode) {
			extra = append(extra, node)
		},
	})

	packet := response(t, srvRR(testOwner, testHost, 5540), aaaaRR(testHost, "fd00::1"))

	require.NoError(t, h.resolver.ResolveNode(testPeer))
	h.receive(packet)
	assert.Len(t, h.resolved, 1)
	assert.Len(t, extra, 1)

	remove()
	require.NoError(t, h.resolver.ResolveNode(testPeer))
	h.receive(packet)
	assert.Len(t, h.resolved, 2)
	assert.Len(t, extra, 1)

	// A nil primary delegate is allowed.
	h.resolver.SetDelegate(nil)
	require.NoError(t, h.resolver.ResolveNode(testPeer))
	assert.NotPanics(t, func() { h.receive(packet) })
}
