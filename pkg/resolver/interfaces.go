package resolver

import (
	"net/netip"

	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
)

// Transport sends and receives mDNS datagrams. It is satisfied by
// *transport.UDP.
type Transport interface {
	// Listen starts delivering received datagrams to handler.
	Listen(handler func(transport.Datagram)) error

	// Send transmits packet to port. An invalid unicast address sends to
	// the mDNS multicast groups.
	Send(packet []byte, port uint16, unicast netip.Addr) error

	// Close stops listening and releases the sockets.
	Close() error
}

// Compile-time check: *transport.UDP implements Transport.
var _ Transport = (*transport.UDP)(nil)
