package transport

import (
	"net"
	"net/netip"
)

// Datagram is one received UDP payload.
type Datagram struct {
	// Data is owned by the receiver.
	Data []byte

	// Interface is the index of the arrival interface, 0 if unknown.
	Interface int

	// Source is the sender's address and port.
	Source netip.AddrPort
}

// mDNS group addresses.
var (
	GroupIPv4 = netip.MustParseAddr("224.0.0.251")
	GroupIPv6 = netip.MustParseAddr("ff02::fb")
)

func addrPortFromNet(addr net.Addr) netip.AddrPort {
	ua, ok := addr.(*net.UDPAddr)
	if !ok {
		return netip.AddrPort{}
	}
	ap := ua.AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

func udpAddr(addr netip.Addr, port uint16) *net.UDPAddr {
	return &net.UDPAddr{IP: addr.AsSlice(), Port: int(port), Zone: addr.Zone()}
}
