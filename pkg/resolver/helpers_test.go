package resolver_test

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver"
	"github.com/project-chip/connectedhomeip-sub057/pkg/resolver/mocks"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testPeer      = discovery.PeerID{CompressedFabricID: 2, NodeID: 1}
	testOwner     = "0000000000000001-0000000000000002._matter._tcp.local"
	testHost      = "ABCDEF0123456789.local"
	testInterface = 2
)

type failure struct {
	peer discovery.PeerID
	err  error
}

// harness drives a Resolver through a mock transport and a manual clock.
type harness struct {
	t         *testing.T
	clock     *timer.Manual
	transport *mocks.MockTransport
	resolver  *resolver.Resolver
	handler   func(transport.Datagram)

	sent       []*dns.Msg
	sendErr    error
	resolved   []discovery.ResolvedOperationalNode
	failed     []failure
	discovered []discovery.DiscoveredNode
}

func newHarness(t *testing.T, config resolver.Config) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		clock:     timer.NewManual(start),
		transport: mocks.NewMockTransport(t),
	}

	h.transport.EXPECT().Listen(mock.Anything).RunAndReturn(func(fn func(transport.Datagram)) error {
		h.handler = fn
		return nil
	}).Once()
	h.transport.EXPECT().Send(mock.Anything, uint16(discovery.MDNSPort), netip.Addr{}).RunAndReturn(func(packet []byte, _ uint16, _ netip.Addr) error {
		m := new(dns.Msg)
		require.NoError(t, m.Unpack(packet))
		h.sent = append(h.sent, m)
		return h.sendErr
	}).Maybe()

	h.resolver = resolver.New(config, resolver.WithClock(h.clock), resolver.WithTimer(h.clock))
	h.resolver.SetDelegate(resolver.DelegateFuncs{
		Resolved: func(node discovery.ResolvedOperationalNode) {
			h.resolved = append(h.resolved, node)
		},
		ResolutionFailed: func(peer discovery.PeerID, err error) {
			h.failed = append(h.failed, failure{peer: peer, err: err})
		},
		Discovered: func(node discovery.DiscoveredNode) {
			h.discovered = append(h.discovered, node)
		},
	})
	require.NoError(t, h.resolver.Init(h.transport))
	return h
}

// receive hands a datagram to the resolver as the transport would.
func (h *harness) receive(packet []byte) {
	h.t.Helper()
	require.NotNil(h.t, h.handler, "resolver is not listening")
	h.handler(transport.Datagram{
		Data:      packet,
		Interface: testInterface,
		Source:    netip.MustParseAddrPort("[fe80::1]:5353"),
	})
}

func (h *harness) lastQuestion() dns.Question {
	h.t.Helper()
	require.NotEmpty(h.t, h.sent)
	m := h.sent[len(h.sent)-1]
	require.Len(h.t, m.Question, 1)
	return m.Question[0]
}

func response(t *testing.T, answers ...dns.RR) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.Response = true
	m.Authoritative = true
	m.Answer = answers
	packet, err := m.Pack()
	require.NoError(t, err)
	return packet
}

func header(name string, rrtype uint16) dns.RR_Header {
	return dns.RR_Header{Name: dns.Fqdn(name), Rrtype: rrtype, Class: dns.ClassINET, Ttl: 120}
}

func srvRR(owner, target string, port uint16) dns.RR {
	return &dns.SRV{Hdr: header(owner, dns.TypeSRV), Port: port, Target: dns.Fqdn(target)}
}

func aaaaRR(name, ip string) dns.RR {
	return &dns.AAAA{Hdr: header(name, dns.TypeAAAA), AAAA: net.ParseIP(ip)}
}

func aRR(name, ip string) dns.RR {
	return &dns.A{Hdr: header(name, dns.TypeA), A: net.ParseIP(ip).To4()}
}

func txtRR(owner string, entries ...string) dns.RR {
	return &dns.TXT{Hdr: header(owner, dns.TypeTXT), Txt: entries}
}

func ptrRR(owner, target string) dns.RR {
	return &dns.PTR{Hdr: header(owner, dns.TypePTR), Ptr: dns.Fqdn(target)}
}
